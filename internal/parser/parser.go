// Package parser implements the recursive-descent grammar. Every rule is a
// scanner.Rule built from the scanner combinators; a rule that starts to
// match and then finds malformed input commits to its error.
package parser

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/scanner"
)

type parser struct {
	source string
}

// Parse reads a whole module from sc. Either the module or the first syntax
// error is returned.
func Parse(sc *scanner.Scanner) (*ast.Module, *diagnostics.DiagnosticError) {
	p := &parser{source: sc.Name()}
	r := p.module(sc)
	if r.IsInvalid() {
		return nil, asDiagnostic(r.Err())
	}
	return r.Value(), nil
}

// ParseString is Parse over an in-memory source.
func ParseString(name, source string) (*ast.Module, *diagnostics.DiagnosticError) {
	return Parse(scanner.New(name, source))
}

func asDiagnostic(err error) *diagnostics.DiagnosticError {
	var de *diagnostics.DiagnosticError
	if errors.As(err, &de) {
		return de
	}
	return diagnostics.NewError(diagnostics.Empty{}, 0)
}

// ModuleName derives a module name from a source path: the base name
// without its extension.
func ModuleName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (p *parser) base(pos scanner.Pos) ast.Base {
	return ast.Base{Source: p.source, Pos: pos}
}

func (p *parser) errorAt(kind diagnostics.Kind, while ast.Construct, pos scanner.Pos) error {
	return &diagnostics.DiagnosticError{Kind: kind, Pos: pos, While: while, File: p.source}
}

func (p *parser) expected(while ast.Construct, pos scanner.Pos, cats ...ast.Category) error {
	return p.errorAt(diagnostics.Expected{Categories: cats}, while, pos)
}

// module matches top-level elements until none apply and then requires the
// input to be exhausted.
func (p *parser) module(s *scanner.Scanner) scanner.Result[*ast.Module] {
	start := s.Cursor()

	// Names are checked as elements are collected, so a duplicate is
	// reported before any later syntax error.
	seen := make(map[string]struct{})
	unique := func(s *scanner.Scanner) scanner.Result[ast.Element] {
		r := p.element(s)
		if !r.IsMatched() {
			return r
		}
		e := r.Value()
		if _, dup := seen[e.ElementName()]; dup {
			return scanner.Fail[ast.Element](p.errorAt(
				diagnostics.DuplicateDefinition{Name: e.ElementName()}, ast.ConstructModule, e.Position()))
		}
		seen[e.ElementName()] = struct{}{}
		return r
	}

	elems, err := scanner.ZeroOrMore[ast.Element](s, unique)
	if err != nil {
		return scanner.Fail[*ast.Module](err)
	}

	skipSpace(s)
	if s.HasNext() {
		return scanner.Fail[*ast.Module](p.errorAt(diagnostics.Unexpected{}, ast.ConstructModule, s.Cursor()))
	}

	return scanner.Match(&ast.Module{
		Base:     p.base(start),
		Name:     ModuleName(p.source),
		Elements: elems,
	})
}

func (p *parser) element(s *scanner.Scanner) scanner.Result[ast.Element] {
	skipSpace(s)
	return scanner.Choice[ast.Element](s, p.function, p.structure, p.enum)
}

// skipSpace consumes whitespace and line comments. It reports whether it
// consumed anything.
func skipSpace(s *scanner.Scanner) bool {
	consumed := false
	for {
		if s.TakeWhile(unicode.IsSpace) != "" {
			consumed = true
			continue
		}
		if s.TakeString("//") {
			s.TakeWhile(func(c rune) bool { return c != '\n' })
			consumed = true
			continue
		}
		return consumed
	}
}

// keyword matches kw only when it is not the prefix of a longer identifier.
func keyword(s *scanner.Scanner, kw string) bool {
	if !s.TakeString(kw) {
		return false
	}
	if c, ok := s.Peek(); ok && isIdentContinue(c) {
		return false
	}
	return true
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentContinue(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c) ||
		unicode.In(c, unicode.Mn, unicode.Mc, unicode.Pc)
}

func identifier(s *scanner.Scanner) (string, bool) {
	first, ok := s.TakeIf(isIdentStart)
	if !ok {
		return "", false
	}
	return string(first) + s.TakeWhile(isIdentContinue), true
}

// typeName is an identifier with any number of leading '&'.
func typeName(s *scanner.Scanner) (string, bool) {
	refs := s.TakeWhile(func(c rune) bool { return c == '&' })
	name, ok := identifier(s)
	if !ok {
		return "", false
	}
	return refs + name, true
}
