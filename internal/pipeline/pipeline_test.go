package pipeline_test

import (
	"testing"

	"github.com/funvibe/tower/internal/analyzer"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/parser"
	"github.com/funvibe/tower/internal/pipeline"
)

type countingProcessor struct{ calls int }

func (c *countingProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	c.calls++
	return ctx
}

func TestRunFrontEnd(t *testing.T) {
	ctx := pipeline.NewPipelineContext("demo.tower", "fn main { 1u32 __println_u32 }")
	p := pipeline.New(&parser.ParserProcessor{}, &analyzer.AnalyzerProcessor{})

	ctx = p.Run(ctx)
	if ctx.Failed() {
		t.Fatalf("unexpected error: %v", ctx.Err())
	}
	if ctx.Module == nil || ctx.Typed == nil {
		t.Fatal("expected both trees to be set")
	}
	if _, ok := ctx.Typed.Function("main"); !ok {
		t.Error("main missing from typed module")
	}
}

func TestRunStopsAtFirstError(t *testing.T) {
	after := &countingProcessor{}
	ctx := pipeline.NewPipelineContext("bad.tower", "fn main {")
	p := pipeline.New(&parser.ParserProcessor{}, after, &analyzer.AnalyzerProcessor{})

	ctx = p.Run(ctx)
	if !ctx.Failed() {
		t.Fatal("expected a parse error")
	}
	if after.calls != 0 {
		t.Errorf("stage after the failing one ran %d times", after.calls)
	}
	if ctx.Typed != nil {
		t.Error("analysis should not have run")
	}
	err := ctx.Err()
	if err.Phase() != diagnostics.PhaseSyntax {
		t.Errorf("phase = %v, want syntax", err.Phase())
	}
	if err.File != "bad.tower" {
		t.Errorf("File = %q, want bad.tower", err.File)
	}
}

func TestRunAnalysisError(t *testing.T) {
	ctx := pipeline.NewPipelineContext("bad.tower", "fn main { nope }")
	ctx = pipeline.New(&parser.ParserProcessor{}, &analyzer.AnalyzerProcessor{}).Run(ctx)

	if len(ctx.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(ctx.Errors))
	}
	if got := ctx.Err().Code(); got != diagnostics.ErrA004 {
		t.Errorf("code = %s, want %s", got, diagnostics.ErrA004)
	}
}
