// Package lint implements static checks over inferred Vanta IR, shaped
// after golang.org/x/tools/go/analysis's Analyzer/Pass convention (see
// sirkon-cerrful's cerrful.Analyzer) but adapted to our own IR: an
// Analyzer's Run receives a Pass carrying the module, its EffectMap, and
// inference failures, and returns Diagnostics rather than mutating a
// go/analysis.Pass tied to go/ast and go/types, which do not apply to a
// non-Go source language.
package lint

import (
	"fmt"
	"sort"

	"github.com/vantalang/vanta/internal/inferrer"
	"github.com/vantalang/vanta/internal/ir"
)

// Diagnostic reports one finding, keyed to the offending node.
type Diagnostic struct {
	Node    ir.NodeID
	Message string
}

// Pass is the input every Analyzer's Run receives.
type Pass struct {
	Module   *ir.Module
	Effects  inferrer.EffectMap
	Failures []inferrer.Failure
}

// Analyzer is one named static check.
type Analyzer struct {
	Name string
	Doc  string
	Run  func(*Pass) []Diagnostic
}

// UnresolvedEffect surfaces every inference failure as a one-line
// diagnostic keyed to the offending node, independent of the definition it
// happens to sit inside — a failure deep inside a definition's body does
// not fail the definition itself (its ancestors fall back to a fresh
// placeholder and keep going, SPEC_FULL.md §4.4), so this analyzer reports
// at the actual failing node rather than trying to attribute it upward.
var UnresolvedEffect = &Analyzer{
	Name: "unresolvedeffect",
	Doc:  "reports IR nodes whose effect could not be inferred",
	Run: func(p *Pass) []Diagnostic {
		diags := make([]Diagnostic, len(p.Failures))
		for i, f := range p.Failures {
			diags[i] = Diagnostic{
				Node:    f.Node,
				Message: fmt.Sprintf("unresolved effect: %s", firstLeaf(f.Tree)),
			}
		}
		return diags
	},
}

func firstLeaf(t interface{ Leaves() []string }) string {
	leaves := t.Leaves()
	if len(leaves) == 0 {
		return "unknown error"
	}
	return leaves[0]
}

// UnreadUpdate flags a definition whose effect updates a state variable
// that no definition in the module ever reads — a common sign of a dead
// assignment in a transition-relation specification, since an update with
// no reader can never influence anything observable.
var UnreadUpdate = &Analyzer{
	Name: "unreadupdate",
	Doc:  "reports state variables that are updated but never read anywhere in the module",
	Run: func(p *Pass) []Diagnostic {
		reads := map[string]bool{}
		updates := map[string][]ir.NodeID{}

		for _, def := range p.Module.Defs {
			e, ok := p.Effects[def.ID()]
			if !ok {
				continue
			}
			collectBags(e, reads, updates, def.ID())
		}

		names := make([]string, 0, len(updates))
		for name := range updates {
			names = append(names, name)
		}
		sort.Strings(names)

		var diags []Diagnostic
		for _, name := range names {
			if reads[name] {
				continue
			}
			for _, n := range updates[name] {
				diags = append(diags, Diagnostic{
					Node:    n,
					Message: fmt.Sprintf("state variable %q is updated but never read in this module", name),
				})
			}
		}
		return diags
	},
}

// All is every registered Analyzer, run in a fixed order for deterministic
// diagnostic ordering.
var All = []*Analyzer{UnresolvedEffect, UnreadUpdate}

// Run executes every analyzer in All against p and concatenates their
// diagnostics in registration order.
func Run(p *Pass) []Diagnostic {
	var all []Diagnostic
	for _, a := range All {
		all = append(all, a.Run(p)...)
	}
	return all
}
