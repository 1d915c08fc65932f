// Package analyzer resolves a parsed module into a typed module. Top-level
// definitions are resolved by a fixpoint worklist, so they may reference
// each other in any declaration order.
package analyzer

import (
	"errors"
	"log"
	"slices"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/builtins"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/scanner"
	"github.com/funvibe/tower/internal/symbols"
)

// Analyzer performs stack-effect analysis against one builtin table.
type Analyzer struct {
	builtins *builtins.Table
	logger   *log.Logger
}

// New creates an analyzer. A nil table means builtins.Default().
func New(table *builtins.Table) *Analyzer {
	if table == nil {
		table = builtins.Default()
	}
	return &Analyzer{builtins: table}
}

// SetLogger enables per-pass progress output.
func (a *Analyzer) SetLogger(l *log.Logger) {
	a.logger = l
}

func (a *Analyzer) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

type workItem struct {
	name string
	elem ast.Element
}

// Analyze resolves every element of m. It returns the typed module, or the
// first error encountered; there is no partial result.
func (a *Analyzer) Analyze(m *ast.Module) (*ast.TypedModule, *diagnostics.DiagnosticError) {
	sc := &scope{
		resolved: symbols.Empty[ast.TypedElement](),
		pending:  symbols.Empty[ast.Element](),
		builtins: a.builtins,
	}

	work := make([]workItem, 0, len(m.Elements))
	names := make([]string, 0, len(m.Elements))
	for _, e := range m.Elements {
		name := e.ElementName()
		if sc.pending.Contains(name) {
			return nil, &diagnostics.DiagnosticError{
				Kind: diagnostics.DuplicateDefinition{Name: name},
				Pos:  e.Position(),
				File: e.SourceName(),
			}
		}
		work = append(work, workItem{name: name, elem: e})
		names = append(names, name)
		sc.pending = sc.pending.Put(name, e)
	}

	for pass := 1; len(work) > 0; pass++ {
		progress := 0
		for i := 0; i < len(work); {
			r := a.analyzeElement(work[i].elem, sc)
			switch r.Outcome() {
			case scanner.Matched:
				sc.resolved = sc.resolved.Put(work[i].name, r.Value())
				sc.pending = sc.pending.Remove(work[i].name)
				work = slices.Delete(work, i, i+1)
				progress++
			case scanner.Invalid:
				return nil, toDiagnostic(r.Err(), work[i].elem)
			default:
				i++
			}
		}
		a.logf("pass %d: resolved %d, deferred %d", pass, progress, len(work))

		// A pass that resolves nothing will never resolve anything. A name
		// that is not defined anywhere is reported before the cycle.
		if progress == 0 {
			waiting := make([]string, len(work))
			for i, w := range work {
				if err := undefinedName(w.elem, sc); err != nil {
					return nil, err
				}
				waiting[i] = w.name
			}
			first := work[0].elem
			return nil, &diagnostics.DiagnosticError{
				Kind: diagnostics.UnresolvableDependency{Names: waiting},
				Pos:  first.Position(),
				File: first.SourceName(),
			}
		}
	}

	typed := &ast.TypedModule{
		Base:     m.Base,
		Name:     m.Name,
		Names:    names,
		Elements: make(map[string]ast.TypedElement, len(names)),
	}
	sc.resolved.Range(func(name string, e ast.TypedElement) bool {
		typed.Elements[name] = e
		return true
	})
	return typed, nil
}

func (a *Analyzer) analyzeElement(e ast.Element, sc *scope) scanner.Result[ast.TypedElement] {
	switch e := e.(type) {
	case *ast.Function:
		return a.analyzeFunction(e, sc)
	case *ast.Struct:
		return a.analyzeStruct(e, sc)
	case *ast.Enum:
		return fail[ast.TypedElement](e, diagnostics.UnsupportedSumType{Name: e.Name})
	}
	return fail[ast.TypedElement](e, diagnostics.Empty{})
}

// undefinedName checks every name e refers to, including those after the
// word that deferred it, and returns the first lookup that fails outright.
// Field access depends on the stack contents and is skipped.
func undefinedName(e ast.Element, sc *scope) *diagnostics.DiagnosticError {
	var err error
	switch e := e.(type) {
	case *ast.Function:
		for _, w := range e.Body {
			switch w := w.(type) {
			case *ast.Identifier:
				err = hardError(sc.lookupFunction(w.Name, w))
			case *ast.Literal:
				if w.Kind == ast.FnPtrLiteral {
					err = hardError(sc.lookupFunction(w.FnName, w))
				}
			case *ast.Constructor:
				err = hardError(sc.lookupType(w.TypeName, w))
			}
			if err != nil {
				break
			}
		}
	case *ast.Struct:
		for _, f := range e.Fields {
			if err = hardError(sc.lookupType(f.TypeName, fieldDecl{FieldDecl: f, source: e.Source})); err != nil {
				break
			}
		}
	}
	if err == nil {
		return nil
	}
	return toDiagnostic(err, e)
}

func hardError[T any](r scanner.Result[T]) error {
	if r.IsInvalid() {
		return r.Err()
	}
	return nil
}

// positioned is anything an error can be anchored at.
type positioned interface {
	Position() scanner.Pos
	SourceName() string
}

// fail anchors an analysis error at node.
func fail[T any](node positioned, kind diagnostics.Kind) scanner.Result[T] {
	return scanner.Fail[T](&diagnostics.DiagnosticError{
		Kind: kind,
		Pos:  node.Position(),
		File: node.SourceName(),
	})
}

func toDiagnostic(err error, at positioned) *diagnostics.DiagnosticError {
	var de *diagnostics.DiagnosticError
	if errors.As(err, &de) {
		return de
	}
	return &diagnostics.DiagnosticError{Kind: diagnostics.Empty{}, Pos: at.Position(), File: at.SourceName()}
}
