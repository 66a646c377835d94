// Package sigtable holds the effect signatures the inferencer instantiates
// at each operator application (SPEC_FULL.md §6, §10). A signature is a
// scheme: an Effect built from Quantified/QuantifiedVars placeholders that
// the inferencer freshens per call site before unifying.
package sigtable

import (
	"github.com/vantalang/vanta/internal/config"
	"github.com/vantalang/vanta/internal/effect"
)

// Signature maps an operator's arity to the scheme it exposes at that
// arity. Most built-ins have exactly one arity. User-defined operators are
// not registered here: internal/inferrer resolves them from its lexical
// environment.
type Signature map[int]effect.Effect

// Table looks up signatures by opcode name.
type Table struct {
	entries map[string]Signature
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: map[string]Signature{}}
}

// NewBuiltins returns a table seeded with the fixed schemes for the
// language's built-in operators (SPEC_FULL.md §6): boolean connectives,
// prime/next, arithmetic, comparison, and set operations. Every built-in
// scheme is built from Concrete params whose Read/Update bags are bare
// QuantifiedVars: unifying a scheme's param against an argument's actual
// Concrete effect binds those vars-names to the argument's real bags, and
// the result reassembles them, so none of these operators ever reads or
// updates on their own — they only propagate what their operands do.
func NewBuiltins() *Table {
	t := New()

	t.Register(config.NotOpName, 1, propagateScheme(1))
	for _, name := range []string{config.AndOpName, config.OrOpName, config.AddOpName, config.SubOpName, config.MulOpName, config.EqOpName, config.InOpName, config.UnionOpName} {
		t.Register(name, 2, propagateScheme(2))
	}
	t.Register(config.PrimeOpName, 1, propagateScheme(1))
	t.Register(config.IfThenElseName, 3, propagateScheme(3))

	return t
}

// Register adds or replaces the scheme for opcode at the given arity.
func (t *Table) Register(opcode string, arity int, scheme effect.Effect) {
	sig, ok := t.entries[opcode]
	if !ok {
		sig = Signature{}
		t.entries[opcode] = sig
	}
	sig[arity] = scheme
}

// Lookup returns the scheme registered for opcode at arity, if any.
func (t *Table) Lookup(opcode string, arity int) (effect.Effect, bool) {
	sig, ok := t.entries[opcode]
	if !ok {
		return nil, false
	}
	scheme, ok := sig[arity]
	return scheme, ok
}

// Has reports whether any scheme is registered for opcode, regardless of
// arity, which tells an unknown operator apart from a known one called at an
// unregistered arity. The inferrer does not call it; it reports both cases
// as an unknown operator.
func (t *Table) Has(opcode string) bool {
	_, ok := t.entries[opcode]
	return ok
}

// paramName / varsName give each of an n-ary scheme's parameters its own
// pair of quantified bag names, distinguishable before the inferrer's
// freshening pass renames all of them together per call site.
func paramName(i int, suffix string) string {
	letters := "abcdefghij"
	return string(letters[i]) + suffix
}

// propagateScheme builds the read/update-propagating scheme shared by every
// built-in: n parameters, each a Concrete effect with independent
// quantified read and update bags, and a result whose read bag is the
// union of every parameter's read bag and whose update bag is the union of
// every parameter's update bag.
func propagateScheme(arity int) effect.Effect {
	params := make([]effect.Effect, arity)
	reads := make([]effect.Vars, arity)
	updates := make([]effect.Vars, arity)

	for i := 0; i < arity; i++ {
		r := effect.QuantifiedVars{Name: paramName(i, "r")}
		u := effect.QuantifiedVars{Name: paramName(i, "u")}
		params[i] = effect.Concrete{Read: r, Update: u}
		reads[i] = r
		updates[i] = u
	}

	return effect.Arrow{
		Params: params,
		Result: effect.Concrete{
			Read:   effect.UnionVars{Children: reads},
			Update: effect.UnionVars{Children: updates},
		},
	}
}
