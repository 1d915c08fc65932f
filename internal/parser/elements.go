package parser

import (
	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/scanner"
)

// function is `fn name { body }`.
func (p *parser) function(s *scanner.Scanner) scanner.Result[ast.Element] {
	start := s.Cursor()
	if !keyword(s, "fn") {
		return scanner.Absent[ast.Element]()
	}
	if !skipSpace(s) {
		return scanner.Fail[ast.Element](p.expected(ast.ConstructFunction, s.Cursor(), ast.CatWhitespace))
	}

	name, ok := identifier(s)
	if !ok {
		return scanner.Fail[ast.Element](p.expected(ast.ConstructFunction, s.Cursor(), ast.CatIdentifier))
	}

	skipSpace(s)
	body := scanner.Require(p.block(s), p.expected(ast.ConstructFunction, s.Cursor(), ast.CatLCurly))
	if !body.IsMatched() {
		return scanner.Propagate[ast.Element](body)
	}

	return scanner.Match[ast.Element](&ast.Function{
		Base: p.base(start),
		Name: name,
		Body: body.Value(),
	})
}

// structure is `struct Name { field: type ... }`.
func (p *parser) structure(s *scanner.Scanner) scanner.Result[ast.Element] {
	start := s.Cursor()
	if !keyword(s, "struct") {
		return scanner.Absent[ast.Element]()
	}
	name, fields, err := p.aggregate(s, ast.ConstructStruct)
	if err != nil {
		return scanner.Fail[ast.Element](err)
	}
	return scanner.Match[ast.Element](&ast.Struct{Base: p.base(start), Name: name, Fields: fields})
}

// enum shares the struct syntax.
func (p *parser) enum(s *scanner.Scanner) scanner.Result[ast.Element] {
	start := s.Cursor()
	if !keyword(s, "enum") {
		return scanner.Absent[ast.Element]()
	}
	name, variants, err := p.aggregate(s, ast.ConstructEnum)
	if err != nil {
		return scanner.Fail[ast.Element](err)
	}
	return scanner.Match[ast.Element](&ast.Enum{Base: p.base(start), Name: name, Variants: variants})
}

// aggregate parses everything after the struct or enum keyword.
func (p *parser) aggregate(s *scanner.Scanner, while ast.Construct) (string, []ast.FieldDecl, error) {
	if !skipSpace(s) {
		return "", nil, p.expected(while, s.Cursor(), ast.CatWhitespace)
	}
	name, ok := identifier(s)
	if !ok {
		return "", nil, p.expected(while, s.Cursor(), ast.CatIdentifier)
	}

	skipSpace(s)
	if !s.Take('{') {
		return "", nil, p.expected(while, s.Cursor(), ast.CatLCurly)
	}

	fields, err := scanner.ZeroOrMore[ast.FieldDecl](s, func(s *scanner.Scanner) scanner.Result[ast.FieldDecl] {
		return p.field(s, while)
	})
	if err != nil {
		return "", nil, err
	}

	skipSpace(s)
	if !s.Take('}') {
		return "", nil, p.expected(while, s.Cursor(), ast.CatIdentifier, ast.CatRCurly)
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return "", nil, p.errorAt(diagnostics.DuplicateDefinition{Name: name + "." + f.Name}, while, f.Pos)
		}
		seen[f.Name] = struct{}{}
	}
	return name, fields, nil
}

// field is `name: type`, optionally followed by a comma.
func (p *parser) field(s *scanner.Scanner, while ast.Construct) scanner.Result[ast.FieldDecl] {
	skipSpace(s)
	pos := s.Cursor()
	name, ok := identifier(s)
	if !ok {
		return scanner.Absent[ast.FieldDecl]()
	}

	skipSpace(s)
	if !s.Take(':') {
		return scanner.Fail[ast.FieldDecl](p.expected(while, s.Cursor(), ast.CatColon))
	}

	skipSpace(s)
	typ, ok := typeName(s)
	if !ok {
		return scanner.Fail[ast.FieldDecl](p.expected(while, s.Cursor(), ast.CatTypeName))
	}

	skipSpace(s)
	s.Take(',')

	return scanner.Match(ast.FieldDecl{Pos: pos, Name: name, TypeName: typ})
}
