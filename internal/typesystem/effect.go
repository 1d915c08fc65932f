package typesystem

import (
	"slices"
	"strings"
)

// StackEffect describes code that consumes Popped off the top of the operand
// stack in order (Popped[0] is the top), then produces Pushed in order (the
// last element ends up on top).
//
// Effects are values. Neither Combine nor any constructor here mutates a
// slice it was given, so effects can share backing arrays freely.
type StackEffect struct {
	Popped []Type
	Pushed []Type
}

// None is the effect of doing nothing.
func None() StackEffect { return StackEffect{} }

func NewEffect(popped, pushed []Type) StackEffect {
	return StackEffect{Popped: popped, Pushed: pushed}
}

func Pushing(ts ...Type) StackEffect { return StackEffect{Pushed: ts} }
func Popping(ts ...Type) StackEffect { return StackEffect{Popped: ts} }

// ConstructorEffect pops one value per field, in declaration order, and
// pushes one instance of t.
func ConstructorEffect(t Transparent) StackEffect {
	popped := make([]Type, len(t.Fields))
	for i, f := range t.Fields {
		popped[i] = f.Type
	}
	return StackEffect{Popped: popped, Pushed: []Type{t}}
}

// FieldAccessEffect leaves the aggregate in place and pushes the field's
// value on top of it.
func FieldAccessEffect(of Type, field Type) StackEffect {
	return StackEffect{Popped: []Type{of}, Pushed: []Type{of, field}}
}

// LastPushed returns the type on top of the stack after the effect runs, if
// the effect itself put it there.
func (e StackEffect) LastPushed() (Type, bool) {
	if len(e.Pushed) == 0 {
		return nil, false
	}
	return e.Pushed[len(e.Pushed)-1], true
}

func (e StackEffect) IsNone() bool { return len(e.Popped) == 0 && len(e.Pushed) == 0 }

func (e StackEffect) Equal(o StackEffect) bool {
	return typesEqual(e.Popped, o.Popped) && typesEqual(e.Pushed, o.Pushed)
}

func typesEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// String renders the effect as "( a, b -> c )"; the empty effect is "( -> )".
func (e StackEffect) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	if len(e.Popped) > 0 {
		sb.WriteString(" ")
		sb.WriteString(joinTypes(e.Popped))
	}
	sb.WriteString(" -> ")
	if len(e.Pushed) > 0 {
		sb.WriteString(joinTypes(e.Pushed))
		sb.WriteString(" ")
	}
	sb.WriteString(")")
	return sb.String()
}

func joinTypes(ts []Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// Combine returns the net effect of running effect and then next on one
// stack. The most recently pushed value of effect is matched against the
// first value next pops, and so on until either side runs out; each matched
// pair must coerce and cancels out. Unmatched pops of next become net inputs
// after effect's own pops; unmatched pushes of effect stay below next's
// pushes.
func Combine(effect, next StackEffect) (StackEffect, error) {
	remaining := len(effect.Pushed)
	consumed := 0
	for remaining > 0 && consumed < len(next.Popped) {
		src := effect.Pushed[remaining-1]
		dst := next.Popped[consumed]
		if ContainsGeneric(src) || ContainsGeneric(dst) {
			return StackEffect{}, &UnsupportedGenericError{Source: src, Dest: dst}
		}
		if !CoercesTo(src, dst) {
			return StackEffect{}, &IncompatibleError{Source: src, Dest: dst}
		}
		remaining--
		consumed++
	}

	return StackEffect{
		Popped: slices.Concat(effect.Popped, next.Popped[consumed:]),
		Pushed: slices.Concat(effect.Pushed[:remaining], next.Pushed),
	}, nil
}
