// Package ast defines the parse tree produced by the grammar and the typed
// tree produced by the analyzer. Nodes of both trees are immutable once
// built.
package ast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/funvibe/tower/internal/scanner"
	"github.com/funvibe/tower/internal/typesystem"
)

// Base records where a node came from.
type Base struct {
	Source string
	Pos    scanner.Pos
}

func (b Base) Position() scanner.Pos { return b.Pos }
func (b Base) SourceName() string    { return b.Source }

// Node is any parse tree node.
type Node interface {
	Position() scanner.Pos
	SourceName() string
	String() string
}

// Element is a named top-level definition of a module.
type Element interface {
	Node
	ElementName() string
	elementNode()
}

// Word is one node of a function body.
type Word interface {
	Node
	wordNode()
}

// Module is the root of a parse tree. Elements keep declaration order and
// their names are unique.
type Module struct {
	Base
	Name     string
	Elements []Element
}

// Lookup finds an element by name.
func (m *Module) Lookup(name string) (Element, bool) {
	for _, e := range m.Elements {
		if e.ElementName() == name {
			return e, true
		}
	}
	return nil, false
}

func (m *Module) String() string {
	parts := make([]string, len(m.Elements))
	for i, e := range m.Elements {
		parts[i] = e.String()
	}
	return strings.Join(parts, "\n")
}

// Function is `fn name { body }`.
type Function struct {
	Base
	Name string
	Body []Word
}

func (f *Function) ElementName() string { return f.Name }
func (f *Function) elementNode()        {}

func (f *Function) String() string {
	words := make([]string, len(f.Body))
	for i, w := range f.Body {
		words[i] = w.String()
	}
	if len(words) == 0 {
		return "fn " + f.Name + " { }"
	}
	return "fn " + f.Name + " { " + strings.Join(words, " ") + " }"
}

// FieldDecl is one `name: type` entry of a struct or enum. TypeName is the
// type text as written, including any leading '&'.
type FieldDecl struct {
	Pos      scanner.Pos
	Name     string
	TypeName string
}

// Struct is `struct Name { field: type ... }`.
type Struct struct {
	Base
	Name   string
	Fields []FieldDecl
}

func (s *Struct) ElementName() string { return s.Name }
func (s *Struct) elementNode()        {}
func (s *Struct) String() string      { return "struct " + s.Name + " " + fieldList(s.Fields) }

// Enum is declared with the same field syntax as a struct but is never
// analysed.
type Enum struct {
	Base
	Name     string
	Variants []FieldDecl
}

func (e *Enum) ElementName() string { return e.Name }
func (e *Enum) elementNode()        {}
func (e *Enum) String() string      { return "enum " + e.Name + " " + fieldList(e.Variants) }

func fieldList(fields []FieldDecl) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name + ": " + f.TypeName
	}
	if len(parts) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Identifier is a call by name.
type Identifier struct {
	Base
	Name string
}

func (i *Identifier) wordNode()      {}
func (i *Identifier) String() string { return i.Name }

// Constructor is `-> Name`.
type Constructor struct {
	Base
	TypeName string
}

func (c *Constructor) wordNode()      {}
func (c *Constructor) String() string { return "-> " + c.TypeName }

// FieldAccess is `.name`.
type FieldAccess struct {
	Base
	Field string
}

func (f *FieldAccess) wordNode()      {}
func (f *FieldAccess) String() string { return "." + f.Field }

// LiteralKind tags the value held by a Literal.
type LiteralKind uint8

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	BoolLiteral
	StrLiteral
	FnPtrLiteral
)

// Literal is a constant pushed by a function body. Only the field matching
// Kind is meaningful.
type Literal struct {
	Base
	Kind LiteralKind

	Int     *big.Int
	IntType typesystem.Opaque // width and signedness of Int

	Float     float64
	FloatBits int // 32 or 64

	Bool bool
	Str  string

	FnName string // target of &name
}

func (l *Literal) wordNode() {}

// Type is the intrinsic type of the literal. Function pointers have no
// intrinsic type: they need their target resolved first, so ok is false.
func (l *Literal) Type() (t typesystem.Type, ok bool) {
	switch l.Kind {
	case IntLiteral:
		return l.IntType, true
	case FloatLiteral:
		return typesystem.NewFloat(l.FloatBits), true
	case BoolLiteral:
		return typesystem.NewBool(), true
	case StrLiteral:
		return typesystem.NewStrRef(len(l.Str)), true
	}
	return nil, false
}

func (l *Literal) String() string {
	switch l.Kind {
	case IntLiteral:
		return l.Int.String() + l.IntType.String()
	case FloatLiteral:
		return strconv.FormatFloat(l.Float, 'g', -1, l.FloatBits) + fmt.Sprintf("f%d", l.FloatBits)
	case BoolLiteral:
		return strconv.FormatBool(l.Bool)
	case StrLiteral:
		return strconv.Quote(l.Str)
	case FnPtrLiteral:
		return "&" + l.FnName
	}
	return "?"
}
