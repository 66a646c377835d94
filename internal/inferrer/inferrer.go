// Package inferrer implements the bottom-up effect inferencer
// (SPEC_FULL.md §4.4): it walks an internal/ir.Module and produces an
// EffectMap plus a slice of ErrorTree for any node that failed, without
// aborting the rest of the traversal — grounded on the teacher's
// InferenceContext / FreshVar / Reset design in internal/analyzer/inference.go.
package inferrer

import (
	"fmt"

	"github.com/vantalang/vanta/internal/effect"
	"github.com/vantalang/vanta/internal/errtree"
	"github.com/vantalang/vanta/internal/ir"
	"github.com/vantalang/vanta/internal/sigtable"
)

// EffectMap is the successful-inference result: every node that reached
// Inferred maps to its effect.
type EffectMap map[ir.NodeID]effect.Effect

// Failure pairs an offending node with the ErrorTree describing why its
// effect could not be determined.
type Failure struct {
	Node ir.NodeID
	Tree *errtree.ErrorTree
}

// Context carries the deterministic fresh-name counter and lexical
// environment for one inference run. A fresh Context must be used per run
// (or Reset between runs) so that pretty-printed output is reproducible
// (SPEC_FULL.md §5): two runs over the same IR with the same signature
// table and the same starting counter produce byte-identical output.
type Context struct {
	sigs    *sigtable.Table
	counter int
	env     map[string]effect.Effect
	effects EffectMap
	errs    []Failure
}

// New creates an inference context backed by sigs.
func New(sigs *sigtable.Table) *Context {
	return &Context{
		sigs:    sigs,
		env:     map[string]effect.Effect{},
		effects: EffectMap{},
	}
}

// Reset zeroes the fresh-name counter, for reuse across independent runs in
// the same process (e.g. successive REPL evaluations, or test cases).
func (c *Context) Reset() {
	c.counter = 0
}

// freshEffect mints a new quantified effect metavariable.
func (c *Context) freshEffect(prefix string) effect.Effect {
	c.counter++
	return effect.Quantified{Name: fmt.Sprintf("%s%d", prefix, c.counter)}
}

// InferModule infers the effect of every definition in m. Definitions are
// visited in order; each is inferred in an environment where earlier
// definitions are already bound, so later definitions may reference
// earlier ones by name. Binding def.Name into c.env here doubles as
// registering it as a callable user-defined operator: VisitOpApply falls
// back to lookupUserScheme, which reads from this same env, whenever
// sigtable has no built-in of that name.
func (c *Context) InferModule(m *ir.Module) (EffectMap, []Failure) {
	for _, def := range m.Defs {
		e := c.infer(def.Body)
		c.effects[def.ID()] = e
		c.env[def.Name] = e
	}
	return c.effects, c.errs
}

// infer computes and records the effect of node, recursing into children
// first (bottom-up, SPEC_FULL.md §4.4). A node whose effect could not be
// determined is recorded as a Failure and reported to its parent as a
// fresh quantified placeholder, so a single bad sub-expression does not
// prevent the rest of the module from being checked.
func (c *Context) infer(node ir.Node) effect.Effect {
	v := &inferVisitor{ctx: c}
	node.Accept(v)
	c.effects[node.ID()] = v.result
	return v.result
}

func (c *Context) fail(node ir.Node, tree *errtree.ErrorTree) effect.Effect {
	c.errs = append(c.errs, Failure{Node: node.ID(), Tree: tree})
	return c.freshEffect("err")
}

// lookupUserScheme resolves opcode against the lexical environment: a
// top-level definition (bound into c.env by InferModule) or a let/lambda
// -bound name is callable the same way a built-in operator is, provided its
// own inferred effect is an Arrow of the requested arity. This is what
// makes "user-defined operators inherit the effect inferred from their own
// bodies" (SPEC_FULL.md §4.4) actually reach VisitOpApply: parseCall lowers
// every name(args) call, builtin or not, to the same ir.OpApply node.
func (c *Context) lookupUserScheme(opcode string, arity int) (effect.Effect, bool) {
	bound, ok := c.env[opcode]
	if !ok {
		return nil, false
	}
	arrow, ok := bound.(effect.Arrow)
	if !ok || len(arrow.Params) != arity {
		return nil, false
	}
	return arrow, true
}

type inferVisitor struct {
	ctx    *Context
	result effect.Effect
}

func (v *inferVisitor) VisitLiteral(l *ir.Literal) {
	v.result = effect.Pure()
}

// VisitVarRef looks up Name in the lexical environment first: a reference
// to a let-bound name or a lambda parameter reports that binding's own
// effect (so a lambda parameter later applied to a Read['x'] argument
// propagates Read['x'] through every reference to the parameter inside the
// body). A name with no lexical binding is a state-variable reference.
func (v *inferVisitor) VisitVarRef(r *ir.VarRef) {
	if bound, ok := v.ctx.env[r.Name]; ok {
		v.result = bound
		return
	}
	v.result = effect.VarRead(r.Name)
}

func (v *inferVisitor) VisitVarUpdate(u *ir.VarUpdate) {
	valueEffect := v.ctx.infer(u.Value)
	combined := effect.Concrete{
		Read: effect.UnionVars{Children: []effect.Vars{
			readBagOf(valueEffect),
		}},
		Update: effect.UnionVars{Children: []effect.Vars{
			updateBagOf(valueEffect),
			effect.ConcreteVars{Names: []string{u.Name}},
		}},
	}
	simplified, err := effect.SimplifyConcrete(combined)
	if err != nil {
		v.result = v.ctx.fail(u, errtree.Wrap(fmt.Sprintf("Inferring update of %s", u.Name), err))
		return
	}
	v.result = simplified
}

func (v *inferVisitor) VisitOpApply(a *ir.OpApply) {
	scheme, ok := v.ctx.sigs.Lookup(a.Opcode, len(a.Args))
	if !ok {
		scheme, ok = v.ctx.lookupUserScheme(a.Opcode, len(a.Args))
	}
	if !ok {
		v.result = v.ctx.fail(a, errtree.Leaf(fmt.Sprintf("Unknown operator %s/%d", a.Opcode, len(a.Args))))
		return
	}
	freshened := v.ctx.freshenScheme(scheme)
	arrow, ok := freshened.(effect.Arrow)
	if !ok {
		v.result = v.ctx.fail(a, errtree.Leaf(fmt.Sprintf("Signature for %s is not callable", a.Opcode)))
		return
	}

	argEffects := make([]effect.Effect, len(a.Args))
	for i, arg := range a.Args {
		argEffects[i] = v.ctx.infer(arg)
	}

	resultVar := v.ctx.freshEffect("call")
	candidate := effect.Arrow{Params: argEffects, Result: resultVar}

	s, err := effect.Unify(arrow, candidate)
	if err != nil {
		v.result = v.ctx.fail(a, errtree.Wrap(fmt.Sprintf("Inferring call to %s", a.Opcode), err))
		return
	}

	final, aerr := effect.Apply(s, resultVar)
	if aerr != nil {
		v.result = v.ctx.fail(a, aerr)
		return
	}
	v.result = final
}

func (v *inferVisitor) VisitLet(l *ir.Let) {
	valueEffect := v.ctx.infer(l.Value)
	prev, hadPrev := v.ctx.env[l.Name]
	v.ctx.env[l.Name] = valueEffect
	bodyEffect := v.ctx.infer(l.Body)
	if hadPrev {
		v.ctx.env[l.Name] = prev
	} else {
		delete(v.ctx.env, l.Name)
	}
	v.result = bodyEffect
}

func (v *inferVisitor) VisitLambda(l *ir.Lambda) {
	saved := make(map[string]effect.Effect, len(l.Params))
	hadSaved := make(map[string]bool, len(l.Params))
	params := make([]effect.Effect, len(l.Params))

	for i, p := range l.Params {
		prev, ok := v.ctx.env[p]
		saved[p], hadSaved[p] = prev, ok
		fresh := v.ctx.freshEffect("p")
		params[i] = fresh
		v.ctx.env[p] = fresh
	}

	body := v.ctx.infer(l.Body)

	for _, p := range l.Params {
		if hadSaved[p] {
			v.ctx.env[p] = saved[p]
		} else {
			delete(v.ctx.env, p)
		}
	}

	v.result = effect.Arrow{Params: params, Result: body}
}

// readBagOf and updateBagOf extract the bags of a Concrete effect, or an
// empty bag for anything else (an unresolved quantified effect metavariable
// contributes nothing further to a surrounding union until it is bound).
func readBagOf(e effect.Effect) effect.Vars {
	if c, ok := e.(effect.Concrete); ok {
		return c.Read
	}
	return effect.ConcreteVars{}
}

func updateBagOf(e effect.Effect) effect.Vars {
	if c, ok := e.(effect.Concrete); ok {
		return c.Update
	}
	return effect.ConcreteVars{}
}
