// Package errtree implements the ErrorTree used throughout the effect
// core (SPEC_FULL.md §3, §7): a nested, human-readable record of where and
// why unification or simplification failed, keyed by IR node identifier
// by its callers (internal/inferrer) rather than carrying one itself.
package errtree

import "strings"

// ErrorTree is a tree with an optional terminal message, a mandatory
// location string giving context ("Trying to unify E1 and E2"), and
// children. A leaf has a Message and no Children; an internal node has a
// Location and one or more Children and typically no Message.
type ErrorTree struct {
	Location string
	Message  string
	Children []*ErrorTree
}

// Leaf builds a terminal error with no location context of its own — the
// caller is expected to wrap it with Wrap before returning it further up.
func Leaf(message string) *ErrorTree {
	return &ErrorTree{Message: message}
}

// Wrap attaches a location to one or more children.
func Wrap(location string, children ...*ErrorTree) *ErrorTree {
	return &ErrorTree{Location: location, Children: children}
}

// WrapDedup wraps inner under location, unless inner already carries the
// exact same location string, in which case inner is returned unchanged.
// This is the §7 propagation-policy rule: "when an inner error's location
// equals the outer location (exact string equality), the outer is
// dropped to avoid redundant stack-like chains."
func WrapDedup(location string, inner *ErrorTree) *ErrorTree {
	if inner == nil {
		return nil
	}
	if inner.Location == location {
		return inner
	}
	return Wrap(location, inner)
}

// Render produces the depth-first, indented rendering consumers (LSP, CLI)
// are expected to show: the leaf message is the actionable line.
func (t *ErrorTree) Render() string {
	var b strings.Builder
	t.render(&b, 0)
	return b.String()
}

func (t *ErrorTree) render(b *strings.Builder, depth int) {
	if t == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch {
	case t.Location != "":
		b.WriteString(indent)
		b.WriteString(t.Location)
		b.WriteString("\n")
	case t.Message != "":
		b.WriteString(indent)
		b.WriteString(t.Message)
		b.WriteString("\n")
	}
	for _, c := range t.Children {
		c.render(b, depth+1)
	}
}

// Leaves collects every terminal (Message-bearing) node, depth-first.
func (t *ErrorTree) Leaves() []string {
	if t == nil {
		return nil
	}
	if t.Message != "" && len(t.Children) == 0 {
		return []string{t.Message}
	}
	var out []string
	for _, c := range t.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}
