package analyzer

import (
	"errors"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/scanner"
	"github.com/funvibe/tower/internal/typesystem"
)

// analyzeFunction folds the effect of every body word, left to right, into
// the function's net effect. A word whose dependency is not resolved yet
// defers the whole function.
func (a *Analyzer) analyzeFunction(fn *ast.Function, sc *scope) scanner.Result[ast.TypedElement] {
	effect := typesystem.None()
	body := make([]ast.TypedWord, 0, len(fn.Body))

	for _, w := range fn.Body {
		r := a.analyzeWord(w, effect, sc)
		if !r.IsMatched() {
			return scanner.Propagate[ast.TypedElement](r)
		}
		tw := r.Value()

		next, err := typesystem.Combine(effect, tw.WordEffect())
		if err != nil {
			return fail[ast.TypedElement](w, combineErrorKind(err))
		}
		effect = next
		body = append(body, tw)
	}

	return scanner.Match[ast.TypedElement](&ast.TypedFunction{
		Base:   fn.Base,
		Name:   fn.Name,
		Effect: effect,
		Body:   body,
	})
}

func combineErrorKind(err error) diagnostics.Kind {
	var incompatible *typesystem.IncompatibleError
	if errors.As(err, &incompatible) {
		return diagnostics.IncompatibleTypes{Source: incompatible.Source, Dest: incompatible.Dest}
	}
	var generic *typesystem.UnsupportedGenericError
	if errors.As(err, &generic) {
		return diagnostics.UnsupportedGeneric{Source: generic.Source, Dest: generic.Dest}
	}
	return diagnostics.Empty{}
}

// analyzeWord types one body word. acc is the effect of the words before
// it, which field access inspects.
func (a *Analyzer) analyzeWord(w ast.Word, acc typesystem.StackEffect, sc *scope) scanner.Result[ast.TypedWord] {
	switch w := w.(type) {
	case *ast.Identifier:
		return analyzeCall(w, sc)
	case *ast.Literal:
		return analyzeLiteral(w, sc)
	case *ast.Constructor:
		return analyzeConstructor(w, sc)
	case *ast.FieldAccess:
		return analyzeFieldAccess(w, acc)
	}
	return fail[ast.TypedWord](w, diagnostics.Empty{})
}

func analyzeCall(id *ast.Identifier, sc *scope) scanner.Result[ast.TypedWord] {
	r := sc.lookupFunction(id.Name, id)
	if !r.IsMatched() {
		return scanner.Propagate[ast.TypedWord](r)
	}
	c := r.Value()
	if c.builtin {
		return scanner.Match[ast.TypedWord](&ast.BuiltinWord{Base: id.Base, Name: c.name, Effect: c.effect})
	}
	return scanner.Match[ast.TypedWord](&ast.CallWord{Base: id.Base, Name: c.name, Effect: c.effect})
}

// analyzeLiteral gives constants their intrinsic type. A function pointer
// pushes a Function value carrying the target's whole effect, so the
// target must be resolved first.
func analyzeLiteral(lit *ast.Literal, sc *scope) scanner.Result[ast.TypedWord] {
	if t, ok := lit.Type(); ok {
		return scanner.Match[ast.TypedWord](&ast.TypedLiteral{Base: lit.Base, Type: t, Value: lit})
	}

	r := sc.lookupFunction(lit.FnName, lit)
	if !r.IsMatched() {
		return scanner.Propagate[ast.TypedWord](r)
	}
	c := r.Value()
	return scanner.Match[ast.TypedWord](&ast.TypedLiteral{
		Base:  lit.Base,
		Type:  typesystem.NewFunction(c.name, c.effect),
		Value: lit,
	})
}

func analyzeConstructor(ctor *ast.Constructor, sc *scope) scanner.Result[ast.TypedWord] {
	r := sc.lookupType(ctor.TypeName, ctor)
	if !r.IsMatched() {
		return scanner.Propagate[ast.TypedWord](r)
	}

	t, ok := r.Value().(typesystem.Transparent)
	if !ok || t.Sum {
		return fail[ast.TypedWord](ctor, diagnostics.UnconstructableType{Name: ctor.TypeName})
	}
	return scanner.Match[ast.TypedWord](&ast.TypedConstructor{
		Base:   ctor.Base,
		Type:   t,
		Effect: typesystem.ConstructorEffect(t),
	})
}

// analyzeFieldAccess projects a field out of whatever the preceding words
// left on top of the stack. The aggregate stays below the field value.
func analyzeFieldAccess(fa *ast.FieldAccess, acc typesystem.StackEffect) scanner.Result[ast.TypedWord] {
	top, ok := acc.LastPushed()
	if !ok {
		return fail[ast.TypedWord](fa, diagnostics.CannotInferType{})
	}

	t, ok := top.(typesystem.Transparent)
	if !ok || t.Sum {
		return fail[ast.TypedWord](fa, diagnostics.NoSuchField{Type: top, Name: fa.Field})
	}
	fieldType, ok := t.Field(fa.Field)
	if !ok {
		return fail[ast.TypedWord](fa, diagnostics.NoSuchField{Type: top, Name: fa.Field})
	}

	return scanner.Match[ast.TypedWord](&ast.TypedFieldAccess{
		Base:   fa.Base,
		Field:  fa.Field,
		Effect: typesystem.FieldAccessEffect(t, fieldType),
	})
}
