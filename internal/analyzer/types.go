package analyzer

import (
	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/scanner"
	"github.com/funvibe/tower/internal/typesystem"
)

// fieldDecl anchors errors at a struct field.
type fieldDecl struct {
	ast.FieldDecl
	source string
}

func (f fieldDecl) Position() scanner.Pos { return f.Pos }
func (f fieldDecl) SourceName() string    { return f.source }

// analyzeStruct resolves every field type in declaration order. A field
// naming a struct that is not resolved yet defers the whole struct.
func (a *Analyzer) analyzeStruct(s *ast.Struct, sc *scope) scanner.Result[ast.TypedElement] {
	fields := make([]typesystem.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		r := sc.lookupType(f.TypeName, fieldDecl{FieldDecl: f, source: s.Source})
		if !r.IsMatched() {
			return scanner.Propagate[ast.TypedElement](r)
		}
		fields = append(fields, typesystem.Field{Name: f.Name, Type: r.Value()})
	}

	return scanner.Match[ast.TypedElement](&ast.TypeDecl{
		Base: s.Base,
		Name: s.Name,
		Type: typesystem.NewStruct(s.Name, fields),
	})
}
