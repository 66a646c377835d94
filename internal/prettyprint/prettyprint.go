// Package prettyprint renders inference results for human consumers: the
// CLI's one-shot check mode and the REPL (SPEC_FULL.md §6, §12). It adds no
// formatting rules of its own —
// Effect.String() and ErrorTree.Render() already produce the stable
// on-screen grammar; this package only orders and labels them per node.
package prettyprint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vantalang/vanta/internal/inferrer"
	"github.com/vantalang/vanta/internal/ir"
)

// EffectMap renders every entry of m, one line per node, sorted by node ID
// string for deterministic output across runs.
func EffectMap(m inferrer.EffectMap) string {
	ids := make([]string, 0, len(m))
	byID := make(map[string]ir.NodeID, len(m))
	for id := range m {
		s := id.String()
		ids = append(ids, s)
		byID[s] = id
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, s := range ids {
		id := byID[s]
		fmt.Fprintf(&b, "%s: %s\n", s, m[id].String())
	}
	return b.String()
}

// Failures renders every failure's location chain and leaf messages.
func Failures(fs []inferrer.Failure) string {
	var b strings.Builder
	for _, f := range fs {
		fmt.Fprintf(&b, "%s:\n", f.Node.String())
		b.WriteString(f.Tree.Render())
	}
	return b.String()
}
