// Package repl implements the interactive line-oriented Vanta REPL
// (SPEC_FULL.md §12): read a definition, run it through the pipeline, print
// its inferred effect or diagnostics. TTY detection follows the teacher's
// own use of go-isatty in internal/evaluator/builtins_term.go — only show
// the interactive prompt when stdout is actually a terminal, so piped
// input (e.g. `vanta repl < script.vnt`) doesn't get prompt noise mixed
// into its output.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/vantalang/vanta/internal/config"
	"github.com/vantalang/vanta/internal/inferrer"
	"github.com/vantalang/vanta/internal/pipeline"
	"github.com/vantalang/vanta/internal/prettyprint"
	"github.com/vantalang/vanta/internal/sigtable"
)

// REPL reads definitions from In, printing results to Out, optionally
// persisting each accepted line to History.
type REPL struct {
	In      io.Reader
	Out     io.Writer
	History History

	sigs *sigtable.Table
	ic   *inferrer.Context
}

// New builds a REPL sharing one inferrer.Context across the whole session,
// so fresh-name counters keep advancing and earlier definitions stay
// visible to later ones.
func New(in io.Reader, out io.Writer, history History) *REPL {
	sigs := sigtable.NewBuiltins()
	return &REPL{
		In:      in,
		Out:     out,
		History: history,
		sigs:    sigs,
		ic:      inferrer.New(sigs),
	}
}

// isPromptEnabled reports whether an interactive prompt should be shown:
// stdout must be a real terminal, and neither test mode (config.IsTestMode)
// nor language-server mode (config.IsLSPMode) may be set.
func isPromptEnabled() bool {
	if config.IsTestMode || config.IsLSPMode {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Run drives the read-eval-print loop until In is exhausted.
func (r *REPL) Run() error {
	scanner := bufio.NewScanner(r.In)
	prompt := isPromptEnabled()

	for {
		if prompt {
			fmt.Fprint(r.Out, "vanta> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" {
			return nil
		}

		r.evalLine(line)

		if r.History != nil {
			if err := r.History.Append(line); err != nil {
				fmt.Fprintf(r.Out, "warning: could not save history: %v\n", err)
			}
		}
	}
}

func (r *REPL) evalLine(line string) {
	ctx := pipeline.NewPipelineContext("<repl>", ensureDef(line))
	ctx = pipeline.ParseStage{}.Process(ctx)

	for _, err := range ctx.ParseErrors {
		fmt.Fprintf(r.Out, "parse error: %v\n", err)
	}
	if ctx.Module == nil {
		return
	}

	// Reuse r.ic across the whole session rather than a fresh inferrer
	// per line, so the fresh-name counter keeps advancing and earlier
	// definitions stay visible to later ones (SPEC_FULL.md §12).
	effects, failures := r.ic.InferModule(ctx.Module)
	if len(failures) > 0 {
		fmt.Fprint(r.Out, prettyprint.Failures(failures))
		return
	}
	fmt.Fprint(r.Out, prettyprint.EffectMap(effects))
}

// ensureDef wraps a bare expression typed at the prompt into an anonymous
// definition, so the REPL accepts both `def x := ...` and a shorthand
// `x := ...` / bare expression form without a definition keyword.
func ensureDef(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "def ") {
		return trimmed
	}
	return "def it := " + trimmed
}
