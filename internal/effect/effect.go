// Package effect implements the read/update effect algebra: the data
// language of Quantified/Arrow/Concrete effects and ConcreteVars/
// QuantifiedVars/UnionVars variable bags, their canonical forms, the
// unifier, and the substitution engine that composes and applies
// substitutions to them.
//
// This is the core of the toolchain (see SPEC_FULL.md §2-§4): the only
// subsystem whose correctness is not obvious from reading. Everything else
// in this repository (parser, REPL, LSP adapter, model-checker bridge) is
// a consumer of internal/ir + internal/sigtable through this package and
// internal/inferrer.
package effect

import (
	"fmt"
	"strings"

	"github.com/vantalang/vanta/internal/config"
)

// Effect is one of Quantified, Arrow, or Concrete. It is a closed sum
// type: every function that matches on it must cover all three variants,
// the same way the teacher's typesystem.Type is an exhaustively-matched
// closed set (TVar, TCon, TApp, ...).
type Effect interface {
	isEffect()
	String() string
}

// Quantified is a metavariable standing for an unknown effect.
type Quantified struct {
	Name string
}

func (Quantified) isEffect() {}

func (q Quantified) String() string {
	return normalizeQuantifiedName(q.Name)
}

// Arrow is the effect of an operator taking len(Params) arguments.
type Arrow struct {
	Params []Effect
	Result Effect
}

func (Arrow) isEffect() {}

func (a Arrow) String() string {
	parts := make([]string, len(a.Params))
	for i, p := range a.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(parts, ", "), a.Result.String())
}

// Concrete is a ground effect whose Read/Update are variable bags. A
// Concrete value is only guaranteed to be in simplified form (§3 invariants)
// immediately after SimplifyConcrete; callers that construct one by hand
// (e.g. the inferencer recording a state-variable read) must run it through
// SimplifyConcrete before it is unified against anything, same as the rest
// of this package assumes.
type Concrete struct {
	Read   Vars
	Update Vars
}

func (Concrete) isEffect() {}

func (c Concrete) String() string {
	readEmpty := isEmptyBag(c.Read)
	updateEmpty := isEmptyBag(c.Update)

	if readEmpty && updateEmpty {
		return "Pure"
	}

	var parts []string
	if !readEmpty {
		parts = append(parts, fmt.Sprintf("Read[%s]", bagInner(c.Read)))
	}
	if !updateEmpty {
		parts = append(parts, fmt.Sprintf("Update[%s]", bagInner(c.Update)))
	}
	return strings.Join(parts, " & ")
}

// Pure is the effect of a literal or constant: no reads, no updates.
func Pure() Effect {
	return Concrete{Read: ConcreteVars{}, Update: ConcreteVars{}}
}

// VarRead is the effect of reading a single state variable.
func VarRead(name string) Effect {
	return Concrete{Read: ConcreteVars{Names: []string{name}}, Update: ConcreteVars{}}
}

// VarUpdate is the effect of updating a single state variable.
func VarUpdate(name string) Effect {
	return Concrete{Read: ConcreteVars{}, Update: ConcreteVars{Names: []string{name}}}
}

func isEmptyBag(v Vars) bool {
	cv, ok := v.(ConcreteVars)
	return ok && len(cv.Names) == 0
}

// normalizeQuantifiedName mirrors the teacher's TVar.String() test/LSP
// normalization: auto-generated names like "e12" collapse to "e?" so that
// golden output and LSP hover text don't depend on the fresh-name counter's
// starting value, only on its determinism within one run.
func normalizeQuantifiedName(name string) string {
	if !config.IsTestMode && !config.IsLSPMode {
		return name
	}
	i := 0
	for i < len(name) && !(name[i] >= '0' && name[i] <= '9') {
		i++
	}
	if i == 0 || i == len(name) {
		return name
	}
	for _, c := range name[i:] {
		if c < '0' || c > '9' {
			return name
		}
	}
	return name[:i] + "?"
}
