// Package pipeline sequences the toolchain's stages — parse (which builds
// the IR directly) and infer effects — over a shared PipelineContext, in the same
// Processor/Pipeline shape the teacher uses to sequence parse/analyze/
// evaluate stages. Each stage runs even if an earlier one recorded errors,
// so a single pass yields parse errors and inference failures together
// (useful for LSP diagnostics, which want everything in one response).
package pipeline

import (
	"github.com/vantalang/vanta/internal/errtree"
	"github.com/vantalang/vanta/internal/inferrer"
	"github.com/vantalang/vanta/internal/ir"
)

// PipelineContext carries one file's source through every stage and
// accumulates whatever each stage produces.
type PipelineContext struct {
	Source string
	Path   string

	Module *ir.Module

	ParseErrors []error

	Effects  inferrer.EffectMap
	Failures []inferrer.Failure
}

// NewPipelineContext seeds a context with source and no results yet.
func NewPipelineContext(path, source string) *PipelineContext {
	return &PipelineContext{Path: path, Source: source}
}

// HasErrors reports whether any stage recorded a problem.
func (c *PipelineContext) HasErrors() bool {
	return len(c.ParseErrors) > 0 || len(c.Failures) > 0
}

// ErrorTrees flattens every inference failure's tree, for callers that want
// a plain list rather than node-keyed failures.
func (c *PipelineContext) ErrorTrees() []*errtree.ErrorTree {
	trees := make([]*errtree.ErrorTree, len(c.Failures))
	for i, f := range c.Failures {
		trees[i] = f.Tree
	}
	return trees
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline runs a fixed sequence of Processors.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline from stages, run in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, continuing even if a stage recorded
// errors, so later stages can still contribute diagnostics.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
