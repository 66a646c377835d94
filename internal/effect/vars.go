package effect

import (
	"fmt"
	"sort"
	"strings"
)

// Vars is one of ConcreteVars, QuantifiedVars, or UnionVars. A closed sum
// type in the same spirit as Effect. The three variants are deliberately
// not collapsed into one "maybe-union list": the
// distinction between a resolved ConcreteVars and an unresolved UnionVars
// drives when UniqueVars may run (§9 design notes).
type Vars interface {
	isVars()
	String() string
}

// ConcreteVars is a finite multiset of state-variable names. Duplicates
// are meaningful only inside an effect's Update bag, where they signal an
// ill-formed effect; in a Read bag they are deduplicated by UniqueVars.
type ConcreteVars struct {
	Names []string
}

func (ConcreteVars) isVars() {}

func (v ConcreteVars) String() string {
	return strings.Join(quotedSorted(v.Names), ", ")
}

// QuantifiedVars is a metavariable standing for an unknown bag.
type QuantifiedVars struct {
	Name string
}

func (QuantifiedVars) isVars() {}

func (v QuantifiedVars) String() string {
	return normalizeQuantifiedName(v.Name)
}

// UnionVars is an unresolved union of bags. FlattenUnions is the only
// producer of a canonical UnionVars: it guarantees a UnionVars never
// directly contains another UnionVars (the flattening invariant, §3).
type UnionVars struct {
	Children []Vars
}

func (UnionVars) isVars() {}

func (v UnionVars) String() string {
	parts := make([]string, len(v.Children))
	for i, c := range v.Children {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// bagInner renders the inside of a Read[...]/Update[...] pretty-print
// form: quoted comma-separated names for a concrete bag, a bare name for
// a quantified bag, and the concatenation of all members for a union —
// the "bags: names single-quoted, comma-separated; union bags
// comma-separated across all members" rule of §6.
func bagInner(v Vars) string {
	return v.String()
}

func quotedSorted(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	out := make([]string, len(sorted))
	for i, n := range sorted {
		out[i] = fmt.Sprintf("'%s'", n)
	}
	return out
}
