package analyzer

import (
	"github.com/funvibe/tower/internal/pipeline"
)

type AnalyzerProcessor struct{}

func (ap *AnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module == nil {
		return ctx
	}

	analyzer := New(ctx.Builtins)
	analyzer.SetLogger(ctx.Logger)

	typed, err := analyzer.Analyze(ctx.Module)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Typed = typed
	return ctx
}
