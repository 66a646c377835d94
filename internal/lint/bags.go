package lint

import (
	"github.com/vantalang/vanta/internal/effect"
	"github.com/vantalang/vanta/internal/ir"
)

// collectBags records every concrete name reachable in e's read bag into
// reads, and every concrete name in its update bag into updates (keyed by
// name, valued by the nodes whose effect updates it). Arrow params and
// result are both walked, since a definition may itself be a lambda.
func collectBags(e effect.Effect, reads map[string]bool, updates map[string][]ir.NodeID, node ir.NodeID) {
	switch t := e.(type) {
	case effect.Concrete:
		for _, n := range concreteNames(t.Read) {
			reads[n] = true
		}
		for _, n := range concreteNames(t.Update) {
			updates[n] = append(updates[n], node)
		}
	case effect.Arrow:
		for _, p := range t.Params {
			collectBags(p, reads, updates, node)
		}
		collectBags(t.Result, reads, updates, node)
	}
}

func concreteNames(v effect.Vars) []string {
	switch t := v.(type) {
	case effect.ConcreteVars:
		return t.Names
	case effect.UnionVars:
		var names []string
		for _, c := range t.Children {
			names = append(names, concreteNames(c)...)
		}
		return names
	default:
		return nil
	}
}
