package typesystem

import "strings"

var primitives = map[string]Type{
	"u8":   NewUint(8),
	"u16":  NewUint(16),
	"u32":  NewUint(32),
	"u64":  NewUint(64),
	"u128": NewUint(128),
	"i8":   NewInt(8),
	"i16":  NewInt(16),
	"i32":  NewInt(32),
	"i64":  NewInt(64),
	"i128": NewInt(128),
	"f32":  NewFloat(32),
	"f64":  NewFloat(64),
	"bool": NewBool(),
	"str":  NewStr(Unsized),
}

// FromName resolves a primitive type name. A leading '&' makes a reference
// to the named type, so "&str" is a reference to a string of unknown length.
func FromName(name string) (Type, bool) {
	if rest, ok := strings.CutPrefix(name, "&"); ok {
		to, ok := FromName(rest)
		if !ok {
			return nil, false
		}
		return Reference{To: to}, true
	}
	t, ok := primitives[name]
	return t, ok
}

// IsPrimitiveName reports whether name (without any '&') is a builtin type.
func IsPrimitiveName(name string) bool {
	_, ok := primitives[strings.TrimLeft(name, "&")]
	return ok
}
