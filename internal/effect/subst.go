package effect

import (
	"fmt"

	"github.com/vantalang/vanta/internal/errtree"
)

// BindingKind distinguishes the two kinds of Substitution entries (§3):
// an effect-kind binding resolves a Quantified effect name, a vars-kind
// binding resolves a QuantifiedVars name. The two are never interchanged
// — implementers must not collapse them into one "maybe either" field,
// mirroring the effect-algebra design note about not merging sum-type
// variants.
type BindingKind int

const (
	EffectBinding BindingKind = iota
	VarsBinding
)

// Binding is one entry of a Substitution.
type Binding struct {
	Kind   BindingKind
	Name   string
	Effect Effect // set when Kind == EffectBinding
	Vars   Vars   // set when Kind == VarsBinding
}

// Subst is a finite ordered list of bindings, applied left-to-right (§3).
// A valid Subst maps each name at most once per kind; Compose enforces
// this by construction rather than by runtime check.
type Subst []Binding

func bindEffectSubst(name string, e Effect) Subst {
	return Subst{{Kind: EffectBinding, Name: name, Effect: e}}
}

func bindVarsSubst(name string, v Vars) Subst {
	return Subst{{Kind: VarsBinding, Name: name, Vars: v}}
}

func (s Subst) lookupEffect(name string) (Effect, bool) {
	for _, b := range s {
		if b.Kind == EffectBinding && b.Name == name {
			return b.Effect, true
		}
	}
	return nil, false
}

func (s Subst) lookupVars(name string) (Vars, bool) {
	for _, b := range s {
		if b.Kind == VarsBinding && b.Name == name {
			return b.Vars, true
		}
	}
	return nil, false
}

// Concat appends two substitutions without running either through the
// other — used by the Concrete/Concrete unification case (§4.2), which
// unifies Read and then Update under a substitution that by construction
// shares no names between the two halves.
func Concat(s1, s2 Subst) Subst {
	out := make(Subst, 0, len(s1)+len(s2))
	out = append(out, s1...)
	out = append(out, s2...)
	return out
}

// Apply applies s to e (§4.3). Quantified/Arrow substitution can never
// fail; Concrete re-simplifies after substituting into its bags, which is
// how a duplicate-update error discovered only after substitution
// surfaces.
func Apply(s Subst, e Effect) (Effect, *errtree.ErrorTree) {
	switch t := e.(type) {
	case Quantified:
		if bound, ok := s.lookupEffect(t.Name); ok {
			return bound, nil
		}
		return t, nil

	case Arrow:
		params := make([]Effect, len(t.Params))
		for i, p := range t.Params {
			ap, err := Apply(s, p)
			if err != nil {
				return nil, wrapApplyErr(e, err)
			}
			params[i] = ap
		}
		result, err := Apply(s, t.Result)
		if err != nil {
			return nil, wrapApplyErr(e, err)
		}
		return Arrow{Params: params, Result: result}, nil

	case Concrete:
		read := ApplyVars(s, t.Read)
		update := ApplyVars(s, t.Update)
		simplified, err := SimplifyConcrete(Concrete{Read: read, Update: update})
		if err != nil {
			return nil, wrapApplyErr(e, err)
		}
		return simplified, nil

	default:
		return e, nil
	}
}

// ApplyVars applies s to v (§4.3). It never fails: a UnionVars is rebuilt
// with the substitution applied to each child, but flattening is deferred
// to whoever next calls SimplifyConcrete or FlattenUnions on the result.
func ApplyVars(s Subst, v Vars) Vars {
	switch t := v.(type) {
	case QuantifiedVars:
		if bound, ok := s.lookupVars(t.Name); ok {
			return bound
		}
		return t
	case UnionVars:
		children := make([]Vars, len(t.Children))
		for i, c := range t.Children {
			children[i] = ApplyVars(s, c)
		}
		return UnionVars{Children: children}
	default:
		return v
	}
}

func wrapApplyErr(e Effect, err *errtree.ErrorTree) *errtree.ErrorTree {
	return errtree.WrapDedup(fmt.Sprintf("Applying substitution to %s", e.String()), err)
}

// Compose combines s1 and s2 such that applying the result to any effect
// is observationally equivalent to applying s2 and then s1 (§4.3): every
// binding of s2 first has s1 applied to its value, then s1's own bindings
// are prepended. Applying s1 to a binding's Effect value can surface a
// duplicate-update error (discovered only once substituted), which is why
// Compose, unlike Concat, can fail.
func Compose(s1, s2 Subst) (Subst, *errtree.ErrorTree) {
	s2Prime := make(Subst, 0, len(s2))
	for _, b := range s2 {
		nb, err := applyToBinding(s1, b)
		if err != nil {
			return nil, errtree.WrapDedup("Composing substitutions", err)
		}
		s2Prime = append(s2Prime, nb)
	}
	return Concat(s1, s2Prime), nil
}

func applyToBinding(s Subst, b Binding) (Binding, *errtree.ErrorTree) {
	switch b.Kind {
	case EffectBinding:
		e, err := Apply(s, b.Effect)
		if err != nil {
			return Binding{}, err
		}
		return Binding{Kind: EffectBinding, Name: b.Name, Effect: e}, nil
	case VarsBinding:
		return Binding{Kind: VarsBinding, Name: b.Name, Vars: ApplyVars(s, b.Vars)}, nil
	default:
		return b, nil
	}
}
