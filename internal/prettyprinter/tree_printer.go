// Package prettyprinter renders typed modules for the dump command.
package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/tower/internal/ast"
)

// TreePrinter prints a typed module: one line per element with its
// signature and, when Bodies is set, one indented line per body word with
// the word's own stack effect.
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
	Bodies bool

	// width of the word column of the function being printed
	wordWidth int
}

func NewTreePrinter(bodies bool) *TreePrinter {
	return &TreePrinter{Bodies: bodies}
}

// Print renders m and returns the text.
func Print(m *ast.TypedModule, bodies bool) string {
	p := NewTreePrinter(bodies)
	m.Accept(p)
	return p.String()
}

func (p *TreePrinter) String() string { return p.buf.String() }

func (p *TreePrinter) line(s string) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

func (p *TreePrinter) VisitTypedModule(m *ast.TypedModule) {
	p.line("module " + m.Name)
	for _, name := range m.Names {
		if e, ok := m.Elements[name]; ok {
			e.Accept(p)
		}
	}
}

func (p *TreePrinter) VisitTypedFunction(f *ast.TypedFunction) {
	p.line(f.String())
	if !p.Bodies {
		return
	}
	p.wordWidth = 0
	for _, w := range f.Body {
		p.wordWidth = max(p.wordWidth, len([]rune(w.String())))
	}
	p.indent++
	for _, w := range f.Body {
		w.Accept(p)
	}
	p.indent--
}

func (p *TreePrinter) VisitTypeDecl(t *ast.TypeDecl) {
	p.line(t.String())
}

func (p *TreePrinter) word(w ast.TypedWord, note string) {
	text := w.String()
	pad := strings.Repeat(" ", p.wordWidth-len([]rune(text)))
	s := text + pad + "  " + w.WordEffect().String()
	if note != "" {
		s += "  " + note
	}
	p.line(s)
}

func (p *TreePrinter) VisitCallWord(w *ast.CallWord)                 { p.word(w, "") }
func (p *TreePrinter) VisitBuiltinWord(w *ast.BuiltinWord)           { p.word(w, "builtin") }
func (p *TreePrinter) VisitTypedLiteral(l *ast.TypedLiteral)         { p.word(l, "") }
func (p *TreePrinter) VisitTypedConstructor(c *ast.TypedConstructor) { p.word(c, "") }
func (p *TreePrinter) VisitTypedFieldAccess(f *ast.TypedFieldAccess) { p.word(f, "") }
