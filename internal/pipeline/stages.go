package pipeline

import (
	"github.com/vantalang/vanta/internal/inferrer"
	"github.com/vantalang/vanta/internal/parser"
	"github.com/vantalang/vanta/internal/sigtable"
)

// ParseStage runs the parser over ctx.Source and records ctx.Module plus
// any parse errors.
type ParseStage struct{}

func (ParseStage) Process(ctx *PipelineContext) *PipelineContext {
	p := parser.New(ctx.Source)
	ctx.Module = p.ParseModule(ctx.Path)
	ctx.ParseErrors = p.Errors()
	return ctx
}

// InferStage runs the effect inferencer over ctx.Module using sigs. It
// still runs on a partially-parsed module (best-effort defs collected so
// far), matching the "collect diagnostics from all stages" pipeline policy.
type InferStage struct {
	Sigs *sigtable.Table
}

// NewInferStage builds an InferStage that looks operators up in sigs; it
// adds no operators of its own.
func NewInferStage(sigs *sigtable.Table) InferStage {
	return InferStage{Sigs: sigs}
}

func (s InferStage) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Module == nil {
		return ctx
	}
	ic := inferrer.New(s.Sigs)
	ctx.Effects, ctx.Failures = ic.InferModule(ctx.Module)
	return ctx
}
