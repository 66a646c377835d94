package inferrer

import (
	"fmt"

	"github.com/vantalang/vanta/internal/effect"
)

// freshenScheme renames every quantified name in scheme by suffixing it
// with this context's monotonic counter, consistently: two occurrences of
// the same scheme-level name map to the same fresh name within one
// instantiation, but distinct instantiations (distinct call sites) never
// share a name (SPEC_FULL.md §4.4, §3's freshening invariant).
func (c *Context) freshenScheme(scheme effect.Effect) effect.Effect {
	c.counter++
	suffix := fmt.Sprintf("$%d", c.counter)
	renamed := map[string]string{}
	return freshenEffect(scheme, suffix, renamed)
}

func freshenName(name, suffix string, renamed map[string]string) string {
	if fresh, ok := renamed[name]; ok {
		return fresh
	}
	fresh := name + suffix
	renamed[name] = fresh
	return fresh
}

func freshenEffect(e effect.Effect, suffix string, renamed map[string]string) effect.Effect {
	switch t := e.(type) {
	case effect.Quantified:
		return effect.Quantified{Name: freshenName(t.Name, suffix, renamed)}
	case effect.Arrow:
		params := make([]effect.Effect, len(t.Params))
		for i, p := range t.Params {
			params[i] = freshenEffect(p, suffix, renamed)
		}
		return effect.Arrow{Params: params, Result: freshenEffect(t.Result, suffix, renamed)}
	case effect.Concrete:
		return effect.Concrete{
			Read:   freshenVars(t.Read, suffix, renamed),
			Update: freshenVars(t.Update, suffix, renamed),
		}
	default:
		return e
	}
}

func freshenVars(v effect.Vars, suffix string, renamed map[string]string) effect.Vars {
	switch t := v.(type) {
	case effect.QuantifiedVars:
		return effect.QuantifiedVars{Name: freshenName(t.Name, suffix, renamed)}
	case effect.UnionVars:
		children := make([]effect.Vars, len(t.Children))
		for i, c := range t.Children {
			children[i] = freshenVars(c, suffix, renamed)
		}
		return effect.UnionVars{Children: children}
	default:
		return v
	}
}
