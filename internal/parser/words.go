package parser

import (
	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/scanner"
)

// block is `{ word* }`.
func (p *parser) block(s *scanner.Scanner) scanner.Result[[]ast.Word] {
	if !s.Take('{') {
		return scanner.Absent[[]ast.Word]()
	}

	words, err := scanner.ZeroOrMore[ast.Word](s, p.word)
	if err != nil {
		return scanner.Fail[[]ast.Word](err)
	}

	skipSpace(s)
	if !s.Take('}') {
		return scanner.Fail[[]ast.Word](p.expected(ast.ConstructFunction, s.Cursor(),
			ast.CatIdentifier, ast.CatLiteral, ast.CatRCurly))
	}
	return scanner.Match(words)
}

// word is one body node. Literals come first so `true` is not read as a
// name.
func (p *parser) word(s *scanner.Scanner) scanner.Result[ast.Word] {
	skipSpace(s)
	return scanner.Choice[ast.Word](s, p.literal, p.constructor, p.fieldAccess, p.identifierWord)
}

func (p *parser) identifierWord(s *scanner.Scanner) scanner.Result[ast.Word] {
	start := s.Cursor()
	name, ok := identifier(s)
	if !ok {
		return scanner.Absent[ast.Word]()
	}
	return scanner.Match[ast.Word](&ast.Identifier{Base: p.base(start), Name: name})
}

// constructor is `-> Name`.
func (p *parser) constructor(s *scanner.Scanner) scanner.Result[ast.Word] {
	start := s.Cursor()
	if !s.TakeString("->") {
		return scanner.Absent[ast.Word]()
	}
	skipSpace(s)
	name, ok := typeName(s)
	if !ok {
		return scanner.Fail[ast.Word](p.expected(ast.ConstructConstructor, s.Cursor(), ast.CatTypeName))
	}
	return scanner.Match[ast.Word](&ast.Constructor{Base: p.base(start), TypeName: name})
}

// fieldAccess is `.name`.
func (p *parser) fieldAccess(s *scanner.Scanner) scanner.Result[ast.Word] {
	start := s.Cursor()
	if !s.Take('.') {
		return scanner.Absent[ast.Word]()
	}
	name, ok := identifier(s)
	if !ok {
		return scanner.Fail[ast.Word](p.expected(ast.ConstructFieldAccess, s.Cursor(), ast.CatIdentifier))
	}
	return scanner.Match[ast.Word](&ast.FieldAccess{Base: p.base(start), Field: name})
}
