// Package pipeline chains the front-end stages over a shared context.
package pipeline

import (
	"log"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/builtins"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/scanner"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one source file through the stages.
type PipelineContext struct {
	FilePath   string
	SourceCode string

	// Scanner is kept after parsing so diagnostics can be rendered
	// against it.
	Scanner *scanner.Scanner

	// Builtins is read-only for the whole run. Nil means builtins.Default().
	Builtins *builtins.Table

	// Logger receives progress output; nil is silent.
	Logger *log.Logger

	Module *ast.Module
	Typed  *ast.TypedModule

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(filePath, source string) *PipelineContext {
	return &PipelineContext{
		FilePath:   filePath,
		SourceCode: source,
		Scanner:    scanner.New(filePath, source),
	}
}

// Failed reports whether any stage recorded an error.
func (c *PipelineContext) Failed() bool { return len(c.Errors) > 0 }

// Err returns the first recorded error, or nil.
func (c *PipelineContext) Err() *diagnostics.DiagnosticError {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors[0]
}

// AddError records err, filling in the file when missing.
func (c *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = c.FilePath
	}
	c.Errors = append(c.Errors, err)
}
