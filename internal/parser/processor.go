package parser

import (
	"github.com/funvibe/tower/internal/pipeline"
	"github.com/funvibe/tower/internal/scanner"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Scanner == nil {
		ctx.Scanner = scanner.New(ctx.FilePath, ctx.SourceCode)
	}

	module, err := Parse(ctx.Scanner)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Module = module
	return ctx
}
