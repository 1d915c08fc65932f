package analyzer

import (
	"strings"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/builtins"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/scanner"
	"github.com/funvibe/tower/internal/symbols"
	"github.com/funvibe/tower/internal/typesystem"
)

// scope is what an element can see while it is being analysed: the
// elements already resolved, the elements still pending, and the builtins.
// A pending name defers the lookup.
type scope struct {
	resolved symbols.Map[ast.TypedElement]
	pending  symbols.Map[ast.Element]
	builtins *builtins.Table
}

func (sc *scope) pendingElement(name string) ast.Element {
	e, _ := sc.pending.Get(name)
	return e
}

// callee is a resolved call target.
type callee struct {
	name    string
	effect  typesystem.StackEffect
	builtin bool
}

// lookupFunction resolves a call by name. at anchors any error.
func (sc *scope) lookupFunction(name string, at positioned) scanner.Result[callee] {
	if builtins.IsBuiltinName(name) {
		entry, ok := sc.builtins.Lookup(name)
		if !ok {
			return fail[callee](at, diagnostics.NoSuchFunction{Name: name})
		}
		return scanner.Match(callee{name: name, effect: entry.Effect, builtin: true})
	}

	if e, ok := sc.resolved.Get(name); ok {
		fn, isFn := e.(*ast.TypedFunction)
		if !isFn {
			return fail[callee](at, diagnostics.TypeIsNotFunction{Name: name})
		}
		return scanner.Match(callee{name: name, effect: fn.Effect})
	}

	switch sc.pendingElement(name).(type) {
	case *ast.Function:
		return scanner.Absent[callee]()
	case *ast.Struct, *ast.Enum:
		return fail[callee](at, diagnostics.TypeIsNotFunction{Name: name})
	}
	return fail[callee](at, diagnostics.NoSuchFunction{Name: name})
}

// lookupType resolves a type name: a primitive, a reference to any
// resolvable type, or a struct of the module.
func (sc *scope) lookupType(name string, at positioned) scanner.Result[typesystem.Type] {
	if t, ok := typesystem.FromName(name); ok {
		return scanner.Match(t)
	}
	if inner, ok := strings.CutPrefix(name, "&"); ok {
		return scanner.Map(sc.lookupType(inner, at), func(t typesystem.Type) typesystem.Type {
			return typesystem.Reference{To: t}
		})
	}

	if e, ok := sc.resolved.Get(name); ok {
		decl, isType := e.(*ast.TypeDecl)
		if !isType {
			return fail[typesystem.Type](at, diagnostics.FunctionIsNotType{Name: name})
		}
		return scanner.Match[typesystem.Type](decl.Type)
	}

	switch sc.pendingElement(name).(type) {
	case *ast.Struct, *ast.Enum:
		return scanner.Absent[typesystem.Type]()
	case *ast.Function:
		return fail[typesystem.Type](at, diagnostics.FunctionIsNotType{Name: name})
	}
	return fail[typesystem.Type](at, diagnostics.NoSuchType{Name: name})
}
