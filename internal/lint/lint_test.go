package lint

import (
	"testing"

	"github.com/vantalang/vanta/internal/inferrer"
	"github.com/vantalang/vanta/internal/parser"
	"github.com/vantalang/vanta/internal/sigtable"
)

func runPipeline(t *testing.T, src string) *Pass {
	t.Helper()
	p := parser.New(src)
	mod := p.ParseModule("test.vnt")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	ic := inferrer.New(sigtable.NewBuiltins())
	effects, failures := ic.InferModule(mod)
	return &Pass{Module: mod, Effects: effects, Failures: failures}
}

func TestUnreadUpdateFlagsOrphanUpdate(t *testing.T) {
	pass := runPipeline(t, "def step := x := 1")
	diags := UnreadUpdate.Run(pass)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
}

func TestUnreadUpdateAllowsReadElsewhereInModule(t *testing.T) {
	pass := runPipeline(t, "def step := x := 1\ndef obs := x")
	diags := UnreadUpdate.Run(pass)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestUnresolvedEffectFlagsFailedDefinition(t *testing.T) {
	pass := runPipeline(t, "def bad := unknownOp(x)")
	diags := UnresolvedEffect.Run(pass)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
}
