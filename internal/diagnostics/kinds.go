package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/typesystem"
)

// Empty is the placeholder kind for internal plumbing.
type Empty struct{}

func (Empty) Code() ErrorCode { return ErrP000 }
func (Empty) Message() string { return "empty error" }

// Expected lists the categories that would have been accepted.
type Expected struct {
	Categories []ast.Category
}

func (Expected) Code() ErrorCode { return ErrP001 }
func (k Expected) Message() string {
	names := make([]string, len(k.Categories))
	for i, c := range k.Categories {
		names[i] = c.String()
	}
	return "expected [" + strings.Join(names, ", ") + "]"
}

// Unexpected is trailing or unrecognised input.
type Unexpected struct{}

func (Unexpected) Code() ErrorCode { return ErrP002 }
func (Unexpected) Message() string { return "unexpected input" }

// LiteralIntegerOverflow is a literal that does not fit its target type.
type LiteralIntegerOverflow struct {
	Digits string
	Target typesystem.Opaque
}

func (LiteralIntegerOverflow) Code() ErrorCode { return ErrP003 }
func (k LiteralIntegerOverflow) Message() string {
	return fmt.Sprintf("integer literal %s doesn't fit in target type %s", k.Digits, k.Target)
}

// InvalidIntegerSize is a suffix width other than 8, 16, 32, 64 or 128.
type InvalidIntegerSize struct {
	Size string
}

func (InvalidIntegerSize) Code() ErrorCode { return ErrP004 }
func (k InvalidIntegerSize) Message() string {
	if k.Size == "" {
		return "invalid integer size"
	}
	return fmt.Sprintf("invalid integer size %s", k.Size)
}

type NegativeUnsignedLiteral struct{}

func (NegativeUnsignedLiteral) Code() ErrorCode { return ErrP005 }
func (NegativeUnsignedLiteral) Message() string { return "negative unsigned integer literal" }

// DuplicateDefinition is a second top-level element with a taken name.
type DuplicateDefinition struct {
	Name string
}

func (DuplicateDefinition) Code() ErrorCode { return ErrP006 }
func (k DuplicateDefinition) Message() string {
	return fmt.Sprintf("%s is already defined in this module", k.Name)
}

type InvalidFloatLiteral struct {
	Text string
}

func (InvalidFloatLiteral) Code() ErrorCode { return ErrP007 }
func (k InvalidFloatLiteral) Message() string {
	return fmt.Sprintf("invalid float literal %s", k.Text)
}

// IncompatibleTypes is a pushed value that cannot satisfy a pop.
type IncompatibleTypes struct {
	Source typesystem.Type
	Dest   typesystem.Type
}

func (IncompatibleTypes) Code() ErrorCode { return ErrA001 }
func (k IncompatibleTypes) Message() string {
	return fmt.Sprintf("source type %s is incompatible with dest type %s", k.Source, k.Dest)
}

type TypeIsNotFunction struct {
	Name string
}

func (TypeIsNotFunction) Code() ErrorCode { return ErrA002 }
func (k TypeIsNotFunction) Message() string {
	return fmt.Sprintf("expected function instead of type name %s", k.Name)
}

type FunctionIsNotType struct {
	Name string
}

func (FunctionIsNotType) Code() ErrorCode { return ErrA003 }
func (k FunctionIsNotType) Message() string {
	return fmt.Sprintf("expected type name instead of function %s", k.Name)
}

type NoSuchFunction struct {
	Name string
}

func (NoSuchFunction) Code() ErrorCode { return ErrA004 }
func (k NoSuchFunction) Message() string {
	return fmt.Sprintf("function %s was not found in scope", k.Name)
}

type NoSuchType struct {
	Name string
}

func (NoSuchType) Code() ErrorCode { return ErrA005 }
func (k NoSuchType) Message() string {
	return fmt.Sprintf("type %s was not found in scope", k.Name)
}

type UnconstructableType struct {
	Name string
}

func (UnconstructableType) Code() ErrorCode { return ErrA006 }
func (k UnconstructableType) Message() string {
	return fmt.Sprintf("type %s cannot be constructed (is not a struct)", k.Name)
}

type NoSuchField struct {
	Type typesystem.Type
	Name string
}

func (NoSuchField) Code() ErrorCode { return ErrA007 }
func (k NoSuchField) Message() string {
	return fmt.Sprintf("type %s has no field %s", k.Type, k.Name)
}

// CannotInferType is a field access with nothing pushed before it.
type CannotInferType struct{}

func (CannotInferType) Code() ErrorCode { return ErrA008 }
func (CannotInferType) Message() string {
	return "cannot infer the type on top of the stack"
}

// UnresolvableDependency is a set of definitions that wait on each other,
// directly or through a cycle.
type UnresolvableDependency struct {
	Names []string
}

func (UnresolvableDependency) Code() ErrorCode { return ErrA009 }
func (k UnresolvableDependency) Message() string {
	return "cannot resolve " + strings.Join(k.Names, ", ") + ": definitions depend on each other"
}

type UnsupportedGeneric struct {
	Source typesystem.Type
	Dest   typesystem.Type
}

func (UnsupportedGeneric) Code() ErrorCode { return ErrA010 }
func (k UnsupportedGeneric) Message() string {
	return fmt.Sprintf("cannot combine %s with %s: generic types are not supported", k.Source, k.Dest)
}

type UnsupportedSumType struct {
	Name string
}

func (UnsupportedSumType) Code() ErrorCode { return ErrA011 }
func (k UnsupportedSumType) Message() string {
	return fmt.Sprintf("enum %s: sum types are not supported", k.Name)
}
