package typesystem

import (
	"fmt"
	"strings"
)

// Type is the closed sum of value types a stack slot can hold.
type Type interface {
	String() string
	typeNode()
}

// OpaqueKind classifies a primitive type.
type OpaqueKind uint8

const (
	UnsignedInt OpaqueKind = iota
	SignedInt
	Float
	Bool
	Str
	Array
)

func (k OpaqueKind) String() string {
	switch k {
	case UnsignedInt:
		return "UnsignedInt"
	case SignedInt:
		return "SignedInt"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case Str:
		return "Str"
	case Array:
		return "Array"
	}
	return fmt.Sprintf("OpaqueKind(%d)", uint8(k))
}

// Unsized marks an opaque type whose byte width is not statically known,
// e.g. a string of unknown length.
const Unsized = -1

// Opaque is a primitive type identified by its byte width and kind.
type Opaque struct {
	Size int // byte width, or Unsized
	Kind OpaqueKind
}

// Field is one named member of a Transparent type.
type Field struct {
	Name string
	Type Type
}

// Transparent is a named structural type. Fields keep declaration order.
// Sum is true for enums, which are declared but not analysed.
type Transparent struct {
	Name   string
	Fields []Field
	Sum    bool
}

// Reference points at another type.
type Reference struct {
	To Type
}

// Generic is an unbound type variable. It never takes part in unification.
type Generic struct {
	Name string
}

// Function is the type of a first-class function value and carries the
// whole signature of the function.
type Function struct {
	Name   string
	Effect StackEffect
}

func (Opaque) typeNode()      {}
func (Transparent) typeNode() {}
func (Reference) typeNode()   {}
func (Generic) typeNode()     {}
func (Function) typeNode()    {}

func (t Opaque) Sized() bool { return t.Size != Unsized }

func (t Opaque) String() string {
	switch t.Kind {
	case UnsignedInt:
		return fmt.Sprintf("u%d", t.Size*8)
	case SignedInt:
		return fmt.Sprintf("i%d", t.Size*8)
	case Float:
		return fmt.Sprintf("f%d", t.Size*8)
	case Bool:
		return "bool"
	case Str:
		if t.Sized() {
			return fmt.Sprintf("str(byte_len: %d)", t.Size)
		}
		return "str"
	case Array:
		if t.Sized() {
			return fmt.Sprintf("array(byte_len: %d)", t.Size)
		}
		return "array"
	}
	return t.Kind.String()
}

func (t Transparent) String() string { return t.Name }

// Describe renders the full declaration, e.g. "struct Point { x: u32 }".
func (t Transparent) Describe() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	keyword := "struct"
	if t.Sum {
		keyword = "enum"
	}
	if len(parts) == 0 {
		return keyword + " " + t.Name + " { }"
	}
	return keyword + " " + t.Name + " { " + strings.Join(parts, ", ") + " }"
}

// Field looks a member up by name.
func (t Transparent) Field(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

func (t Reference) String() string { return "&" + t.To.String() }

func (t Generic) String() string { return "<" + t.Name + ">" }

func (t Function) String() string { return "fn " + t.Name + " " + t.Effect.String() }

func NewUint(bits int) Opaque  { return Opaque{Size: bits / 8, Kind: UnsignedInt} }
func NewInt(bits int) Opaque   { return Opaque{Size: bits / 8, Kind: SignedInt} }
func NewFloat(bits int) Opaque { return Opaque{Size: bits / 8, Kind: Float} }
func NewBool() Opaque          { return Opaque{Size: 1, Kind: Bool} }

// NewStr returns a string of lenBytes bytes, or of unknown length when
// lenBytes is Unsized.
func NewStr(lenBytes int) Opaque { return Opaque{Size: lenBytes, Kind: Str} }

// NewStrRef returns a reference to a string, the type string literals push.
func NewStrRef(lenBytes int) Reference { return Reference{To: NewStr(lenBytes)} }

func NewStruct(name string, fields []Field) Transparent {
	return Transparent{Name: name, Fields: fields}
}

func NewEnum(name string, fields []Field) Transparent {
	return Transparent{Name: name, Fields: fields, Sum: true}
}

func NewFunction(name string, effect StackEffect) Function {
	return Function{Name: name, Effect: effect}
}

// Equal reports structural identity.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case Opaque:
		y, ok := b.(Opaque)
		return ok && x == y
	case Transparent:
		y, ok := b.(Transparent)
		if !ok || x.Name != y.Name || x.Sum != y.Sum || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !Equal(x.Fields[i].Type, y.Fields[i].Type) {
				return false
			}
		}
		return true
	case Reference:
		y, ok := b.(Reference)
		return ok && Equal(x.To, y.To)
	case Generic:
		y, ok := b.(Generic)
		return ok && x.Name == y.Name
	case Function:
		y, ok := b.(Function)
		return ok && x.Name == y.Name && x.Effect.Equal(y.Effect)
	}
	return a == nil && b == nil
}

// CoercesTo reports whether a value of type src may be consumed where dst is
// expected. Identical types always coerce; a reference to a string of known
// length coerces to a reference to a string of unknown length. Nothing else
// does.
func CoercesTo(src, dst Type) bool {
	if Equal(src, dst) {
		return true
	}
	srcRef, ok := src.(Reference)
	if !ok {
		return false
	}
	dstRef, ok := dst.(Reference)
	if !ok {
		return false
	}
	from, ok := srcRef.To.(Opaque)
	if !ok {
		return false
	}
	to, ok := dstRef.To.(Opaque)
	if !ok {
		return false
	}
	return from.Kind == Str && to.Kind == Str && from.Sized() && !to.Sized()
}

// ContainsGeneric reports whether t mentions a type variable anywhere.
func ContainsGeneric(t Type) bool {
	switch x := t.(type) {
	case Generic:
		return true
	case Reference:
		return ContainsGeneric(x.To)
	case Transparent:
		for _, f := range x.Fields {
			if ContainsGeneric(f.Type) {
				return true
			}
		}
	case Function:
		for _, p := range x.Effect.Popped {
			if ContainsGeneric(p) {
				return true
			}
		}
		for _, p := range x.Effect.Pushed {
			if ContainsGeneric(p) {
				return true
			}
		}
	}
	return false
}
