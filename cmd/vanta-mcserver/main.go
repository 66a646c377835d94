// Command vanta-mcserver bridges a checked module's inferred effects to an
// external model checker (SPEC_FULL.md §13): it infers one effect per
// top-level definition, finds which pairs of definitions update a shared
// state variable, and forwards those conflicts to the checker configured in
// vanta.yaml over gRPC, following the teacher's cmd/funxy/main.go argument
// handling and internal/evaluator/builtins_grpc.go connection pattern.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vantalang/vanta/internal/config"
	"github.com/vantalang/vanta/internal/effect"
	"github.com/vantalang/vanta/internal/mcbridge"
	"github.com/vantalang/vanta/internal/pipeline"
	"github.com/vantalang/vanta/internal/sigtable"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: vanta-mcserver <file> [vanta.yaml]")
		os.Exit(1)
	}
	path := os.Args[1]
	cfgPath := "vanta.yaml"
	if len(os.Args) > 2 {
		cfgPath = os.Args[2]
	}

	cfg, err := config.LoadProjectConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	operators, err := inferOperators(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	conflicts := mcbridge.FindConflicts(operators)
	if len(conflicts) == 0 {
		fmt.Println("no update conflicts found")
		return
	}

	for _, c := range conflicts {
		fmt.Printf("%s and %s both update %s\n", c.OperatorA, c.OperatorB, c.Variable)
	}

	if cfg.ModelChecker.Target == "" {
		return
	}
	if err := forward(cfg.ModelChecker, conflicts); err != nil {
		fmt.Fprintf(os.Stderr, "reporting conflicts to model checker: %v\n", err)
		os.Exit(1)
	}
}

func inferOperators(path string) (map[string]effect.Effect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	sigs := sigtable.NewBuiltins()
	pl := pipeline.New(pipeline.ParseStage{}, pipeline.NewInferStage(sigs))
	ctx := pl.Run(pipeline.NewPipelineContext(path, string(data)))

	if ctx.Module == nil {
		return nil, fmt.Errorf("%s did not parse into any definitions", path)
	}

	operators := make(map[string]effect.Effect, len(ctx.Module.Defs))
	for _, def := range ctx.Module.Defs {
		if eff, ok := ctx.Effects[def.ID()]; ok {
			operators[def.Name] = eff
		}
	}
	return operators, nil
}

func forward(cfg config.ModelCheckerConfig, conflicts []mcbridge.Conflict) error {
	client, err := mcbridge.Dial(cfg.Target)
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.ProtoFile != "" {
		if err := client.LoadProto(cfg.ProtoFile); err != nil {
			return err
		}
	}

	_, err = client.ReportConflicts(context.Background(), cfg, conflicts)
	return err
}
