// Command vanta is the toolchain's CLI: check a file's effects in one shot,
// or drop into the interactive REPL with no arguments. Argument handling
// and the top-level panic recovery follow the teacher's cmd/funxy/main.go.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/vantalang/vanta/internal/config"
	"github.com/vantalang/vanta/internal/lint"
	"github.com/vantalang/vanta/internal/pipeline"
	"github.com/vantalang/vanta/internal/prettyprint"
	"github.com/vantalang/vanta/internal/repl"
	"github.com/vantalang/vanta/internal/sigtable"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if os.Getenv("VANTA_TEST_MODE") == "1" {
		config.IsTestMode = true
	}

	args := os.Args[1:]
	if len(args) == 0 {
		runREPL()
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp()
	case "check":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: vanta check <file>")
			os.Exit(1)
		}
		runCheck(args[1])
	case "repl":
		runREPL()
	default:
		runCheck(args[0])
	}
}

func printHelp() {
	fmt.Println(`vanta - a specification-language effect checker

Usage:
  vanta                 start the interactive REPL
  vanta check <file>    infer and print effects for every definition in <file>
  vanta repl            start the interactive REPL explicitly
  vanta help            show this message`)
}

func runCheck(path string) {
	if !strings.HasSuffix(path, config.SourceFileExt) {
		fmt.Fprintf(os.Stderr, "warning: %s does not have the %s extension\n", path, config.SourceFileExt)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", path, err)
		os.Exit(1)
	}

	sigs := sigtable.NewBuiltins()
	pl := pipeline.New(pipeline.ParseStage{}, pipeline.NewInferStage(sigs))
	ctx := pl.Run(pipeline.NewPipelineContext(path, string(data)))

	for _, perr := range ctx.ParseErrors {
		fmt.Fprintf(os.Stderr, "%s: parse error: %v\n", path, perr)
	}

	if ctx.Module != nil {
		diags := lint.Run(&lint.Pass{Module: ctx.Module, Effects: ctx.Effects, Failures: ctx.Failures})
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", path, d.Node, d.Message)
		}
	}

	fmt.Print(prettyprint.EffectMap(ctx.Effects))

	if ctx.HasErrors() {
		os.Exit(1)
	}
}

func runREPL() {
	var history repl.History
	if cfg, err := config.LoadProjectConfig("vanta.yaml"); err == nil && cfg.REPL.HistoryPath != "" {
		h, herr := repl.OpenSQLiteHistory(cfg.REPL.HistoryPath)
		if herr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open history at %s: %v\n", cfg.REPL.HistoryPath, herr)
		} else {
			history = h
			defer h.Close()
		}
	}

	r := repl.New(os.Stdin, os.Stdout, history)
	if err := r.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "repl error: %v\n", err)
		os.Exit(1)
	}
}
