// Package diagnostics defines the positioned errors of both front-end phases
// and renders them against their source.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/scanner"
)

type ErrorCode string

// Syntax errors
const (
	ErrP000 ErrorCode = "P000" // empty
	ErrP001 ErrorCode = "P001" // expected
	ErrP002 ErrorCode = "P002" // unexpected input
	ErrP003 ErrorCode = "P003" // integer literal overflow
	ErrP004 ErrorCode = "P004" // invalid integer size
	ErrP005 ErrorCode = "P005" // negative unsigned literal
	ErrP006 ErrorCode = "P006" // duplicate definition
	ErrP007 ErrorCode = "P007" // invalid float literal
)

// Analysis errors
const (
	ErrA001 ErrorCode = "A001" // incompatible types
	ErrA002 ErrorCode = "A002" // type is not a function
	ErrA003 ErrorCode = "A003" // function is not a type
	ErrA004 ErrorCode = "A004" // no such function
	ErrA005 ErrorCode = "A005" // no such type
	ErrA006 ErrorCode = "A006" // unconstructable type
	ErrA007 ErrorCode = "A007" // no such field
	ErrA008 ErrorCode = "A008" // cannot infer type
	ErrA009 ErrorCode = "A009" // unresolvable dependency
	ErrA010 ErrorCode = "A010" // unsupported generic
	ErrA011 ErrorCode = "A011" // unsupported sum type
)

// Phase is the front-end stage an error belongs to.
type Phase uint8

const (
	PhaseSyntax Phase = iota
	PhaseAnalysis
)

func (p Phase) String() string {
	if p == PhaseAnalysis {
		return "Analysis"
	}
	return "Syntax"
}

// Phase derives the phase from the code prefix.
func (c ErrorCode) Phase() Phase {
	if len(c) > 0 && c[0] == 'A' {
		return PhaseAnalysis
	}
	return PhaseSyntax
}

// Kind is the payload of a DiagnosticError. Concrete kinds are the structs
// in kinds.go; switch on them to inspect details.
type Kind interface {
	Code() ErrorCode
	Message() string
}

// DiagnosticError is a hard error anchored at a source position.
type DiagnosticError struct {
	Kind  Kind
	Pos   scanner.Pos
	File  string
	While ast.Construct
}

// NewError creates an error of kind at pos.
func NewError(kind Kind, pos scanner.Pos) *DiagnosticError {
	return &DiagnosticError{Kind: kind, Pos: pos}
}

// NewSyntaxError creates an error raised while parsing construct.
func NewSyntaxError(kind Kind, while ast.Construct, pos scanner.Pos) *DiagnosticError {
	return &DiagnosticError{Kind: kind, Pos: pos, While: while}
}

func (e *DiagnosticError) Code() ErrorCode { return e.Kind.Code() }
func (e *DiagnosticError) Phase() Phase    { return e.Kind.Code().Phase() }

// Message is the human readable text, prefixed with the construct being
// parsed when there is one.
func (e *DiagnosticError) Message() string {
	if e.While != ast.ConstructNone {
		return "while parsing " + e.While.String() + ", " + e.Kind.Message()
	}
	return e.Kind.Message()
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s at %s:%d: %s", e.Code(), e.Phase(), e.File, e.Pos, e.Message())
	}
	return fmt.Sprintf("%s: %s", e.Code(), e.Message())
}
