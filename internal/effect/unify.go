package effect

import (
	"fmt"

	"github.com/vantalang/vanta/internal/errtree"
)

// Unify attempts to find a minimal substitution making e1 and e2 equal
// (§4.2). On failure it returns an ErrorTree whose outer location is
// "Trying to unify E1 and E2", deduped against an identically-located
// inner error per §7.
func Unify(e1, e2 Effect) (Subst, *errtree.ErrorTree) {
	loc := fmt.Sprintf("Trying to unify %s and %s", e1.String(), e2.String())
	s, err := unify(e1, e2)
	if err != nil {
		return nil, errtree.WrapDedup(loc, err)
	}
	return s, nil
}

func unify(e1, e2 Effect) (Subst, *errtree.ErrorTree) {
	if c1, ok := e1.(Concrete); ok {
		simplified, err := SimplifyConcrete(c1)
		if err != nil {
			return nil, err
		}
		e1 = simplified
	}
	if c2, ok := e2.(Concrete); ok {
		simplified, err := SimplifyConcrete(c2)
		if err != nil {
			return nil, err
		}
		e2 = simplified
	}

	if q1, ok := e1.(Quantified); ok {
		return BindEffect(q1.Name, e2)
	}
	if q2, ok := e2.(Quantified); ok {
		return BindEffect(q2.Name, e1)
	}

	switch t1 := e1.(type) {
	case Arrow:
		t2, ok := e2.(Arrow)
		if !ok {
			return nil, errtree.Leaf("Can't unify different types of effects")
		}
		return unifyArrow(t1, t2)

	case Concrete:
		t2, ok := e2.(Concrete)
		if !ok {
			return nil, errtree.Leaf("Can't unify different types of effects")
		}
		return unifyConcrete(t1, t2)

	default:
		return nil, errtree.Leaf("Can't unify different types of effects")
	}
}

func unifyArrow(a1, a2 Arrow) (Subst, *errtree.ErrorTree) {
	if len(a1.Params) != len(a2.Params) {
		return nil, errtree.Leaf(fmt.Sprintf("Expected %d arguments, got %d", len(a1.Params), len(a2.Params)))
	}

	s := Subst{}
	for i := range a1.Params {
		p1, err := Apply(s, a1.Params[i])
		if err != nil {
			return nil, err
		}
		p2, err := Apply(s, a2.Params[i])
		if err != nil {
			return nil, err
		}
		si, uerr := Unify(p1, p2)
		if uerr != nil {
			return nil, uerr
		}
		// Compose(si, s) applies s first and then si, so bindings already
		// in s see the names si has just resolved.
		composed, cerr := Compose(si, s)
		if cerr != nil {
			return nil, cerr
		}
		s = composed
	}

	r1, err := Apply(s, a1.Result)
	if err != nil {
		return nil, err
	}
	r2, err := Apply(s, a2.Result)
	if err != nil {
		return nil, err
	}
	sr, uerr := Unify(r1, r2)
	if uerr != nil {
		return nil, uerr
	}
	return Compose(sr, s)
}

func unifyConcrete(c1, c2 Concrete) (Subst, *errtree.ErrorTree) {
	sR, err := UnifyVars(c1.Read, c2.Read)
	if err != nil {
		return nil, err
	}

	a1, err := Apply(sR, c1)
	if err != nil {
		return nil, err
	}
	a2, err := Apply(sR, c2)
	if err != nil {
		return nil, err
	}
	cc1, ok1 := a1.(Concrete)
	cc2, ok2 := a2.(Concrete)
	if !ok1 || !ok2 {
		return nil, errtree.Leaf("Can't unify different types of effects")
	}

	sU, err := UnifyVars(cc1.Update, cc2.Update)
	if err != nil {
		return nil, err
	}
	return Concat(sR, sU), nil
}

// UnifyVars unifies two variable bags (§4.2's "bag unifier"). Both sides
// are flattened first. Two concrete bags succeed iff their sorted name
// lists match; a bare quantified bag binds (after an occurs-check); any
// other pairing — in particular anything still union-shaped after
// flattening — is the declared limitation: the language is designed so
// unions resolve before a union/union confrontation can arise, and this
// function must surface that as an error rather than guess.
func UnifyVars(v1, v2 Vars) (Subst, *errtree.ErrorTree) {
	v1 = FlattenUnions(v1)
	v2 = FlattenUnions(v2)

	if c1, ok := v1.(ConcreteVars); ok {
		if c2, ok := v2.(ConcreteVars); ok {
			if sameVars(c1, c2) {
				return Subst{}, nil
			}
			return nil, errtree.Leaf(fmt.Sprintf("Expected variables %s and %s to be the same", bracketed(c1), bracketed(c2)))
		}
	}

	if q1, ok := v1.(QuantifiedVars); ok {
		if q2, ok := v2.(QuantifiedVars); ok && q1.Name == q2.Name {
			return Subst{}, nil
		}
		return BindVars(q1.Name, v2)
	}
	if q2, ok := v2.(QuantifiedVars); ok {
		return BindVars(q2.Name, v1)
	}

	if v1.String() == v2.String() {
		return Subst{}, nil
	}

	return nil, errtree.Leaf("Unification for unions of variables is not implemented")
}

func bracketed(v ConcreteVars) string {
	return fmt.Sprintf("[%s]", v.String())
}

// BindEffect binds name to e, performing the occurs-check (§4.2).
func BindEffect(name string, e Effect) (Subst, *errtree.ErrorTree) {
	if q, ok := e.(Quantified); ok && q.Name == name {
		return Subst{}, nil
	}
	if containsName(effectNames(e), name) {
		return nil, errtree.Leaf(fmt.Sprintf("Can't bind %s to %s: cyclical binding", name, e.String()))
	}
	return bindEffectSubst(name, e), nil
}

// BindVars binds name to v, performing the occurs-check (§4.2).
func BindVars(name string, v Vars) (Subst, *errtree.ErrorTree) {
	if q, ok := v.(QuantifiedVars); ok && q.Name == name {
		return Subst{}, nil
	}
	if containsName(varsNames(v), name) {
		return nil, errtree.Leaf(fmt.Sprintf("Can't bind %s to %s: cyclical binding", name, v.String()))
	}
	return bindVarsSubst(name, v), nil
}

// effectNames enumerates every quantified effect-name reachable under e —
// Concrete holds only Vars, so the walk only descends through Arrow.
func effectNames(e Effect) []string {
	switch t := e.(type) {
	case Quantified:
		return []string{t.Name}
	case Arrow:
		var names []string
		for _, p := range t.Params {
			names = append(names, effectNames(p)...)
		}
		return append(names, effectNames(t.Result)...)
	default:
		return nil
	}
}

// varsNames enumerates every quantified vars-name reachable under v.
func varsNames(v Vars) []string {
	switch t := v.(type) {
	case QuantifiedVars:
		return []string{t.Name}
	case UnionVars:
		var names []string
		for _, c := range t.Children {
			names = append(names, varsNames(c)...)
		}
		return names
	default:
		return nil
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
