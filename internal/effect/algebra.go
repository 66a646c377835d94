package effect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vantalang/vanta/internal/errtree"
)

// FlattenUnions implements §4.1: ConcreteVars and QuantifiedVars pass
// through unchanged; a UnionVars has its children flattened recursively,
// split into a single merged concrete bag and the remaining non-concrete
// members, and reassembled per the shape rules below.
func FlattenUnions(v Vars) Vars {
	union, ok := v.(UnionVars)
	if !ok {
		return v
	}

	var nonConcrete []Vars
	var concreteNames []string

	for _, child := range union.Children {
		flattenInto(FlattenUnions(child), &nonConcrete, &concreteNames)
	}

	switch {
	case len(nonConcrete) > 0 && len(concreteNames) > 0:
		return UnionVars{Children: append(append([]Vars{}, nonConcrete...), ConcreteVars{Names: concreteNames})}
	case len(concreteNames) > 0:
		return ConcreteVars{Names: concreteNames}
	case len(nonConcrete) == 1:
		return nonConcrete[0]
	case len(nonConcrete) > 1:
		return UnionVars{Children: nonConcrete}
	default:
		return ConcreteVars{}
	}
}

// flattenInto splices an already-flattened Vars value into the running
// (nonConcrete, concreteNames) accumulators. Because its input already
// came out of FlattenUnions, any UnionVars it sees has no further nested
// unions (the flattening invariant), so one level of splicing suffices.
func flattenInto(v Vars, nonConcrete *[]Vars, concreteNames *[]string) {
	switch t := v.(type) {
	case ConcreteVars:
		*concreteNames = append(*concreteNames, t.Names...)
	case QuantifiedVars:
		*nonConcrete = append(*nonConcrete, t)
	case UnionVars:
		for _, gc := range t.Children {
			switch g := gc.(type) {
			case ConcreteVars:
				*concreteNames = append(*concreteNames, g.Names...)
			default:
				*nonConcrete = append(*nonConcrete, g)
			}
		}
	}
}

// UniqueVars deduplicates names inside each ConcreteVars leaf. It does not
// merge unions — that is FlattenUnions' job.
func UniqueVars(v Vars) Vars {
	switch t := v.(type) {
	case ConcreteVars:
		return ConcreteVars{Names: dedupe(t.Names)}
	case QuantifiedVars:
		return t
	case UnionVars:
		children := make([]Vars, len(t.Children))
		for i, c := range t.Children {
			children[i] = UniqueVars(c)
		}
		return UnionVars{Children: children}
	default:
		return v
	}
}

// SimplifyConcrete canonicalizes a Concrete effect per §4.1: Read is
// flattened and deduplicated, Update is flattened and checked for
// duplicate state-variable names across its entire (possibly
// union-shaped) structure — the canonical ill-formedness signal.
func SimplifyConcrete(c Concrete) (Concrete, *errtree.ErrorTree) {
	read := UniqueVars(FlattenUnions(c.Read))
	update := FlattenUnions(c.Update)

	if dups := duplicateNames(collectConcreteNames(update)); len(dups) > 0 {
		simplified := Concrete{Read: read, Update: update}
		loc := fmt.Sprintf("Trying to simplify effect %s", simplified.String())
		return Concrete{}, errtree.Wrap(loc, errtree.Leaf(
			fmt.Sprintf("Multiple updates of variable(s): %s", strings.Join(dups, ", "))))
	}

	return Concrete{Read: read, Update: update}, nil
}

// collectConcreteNames walks v, recursing into union leaves, and returns
// every concrete name reachable, duplicates included.
func collectConcreteNames(v Vars) []string {
	switch t := v.(type) {
	case ConcreteVars:
		return append([]string(nil), t.Names...)
	case UnionVars:
		var names []string
		for _, c := range t.Children {
			names = append(names, collectConcreteNames(c)...)
		}
		return names
	default:
		return nil
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// duplicateNames returns the sorted set of names occurring more than once.
func duplicateNames(names []string) []string {
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	var dups []string
	for n, c := range counts {
		if c > 1 {
			dups = append(dups, n)
		}
	}
	sort.Strings(dups)
	return dups
}

// sameVars compares two ConcreteVars bags in the "same-variables" sense of
// §4.1: the sorted list of names must match exactly (multiset equality).
func sameVars(a, b ConcreteVars) bool {
	if len(a.Names) != len(b.Names) {
		return false
	}
	sa := append([]string(nil), a.Names...)
	sb := append([]string(nil), b.Names...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
