package typesystem

import (
	"errors"
	"testing"
)

var (
	u32   = NewUint(32)
	i8    = NewInt(8)
	point = NewStruct("Point", []Field{{"x", NewUint(32)}, {"y", NewUint(32)}})
)

func sampleEffects() []StackEffect {
	return []StackEffect{
		None(),
		Pushing(u32),
		Popping(u32, i8),
		NewEffect([]Type{NewBool()}, []Type{u32, NewStrRef(5)}),
		ConstructorEffect(point),
		FieldAccessEffect(point, u32),
		Pushing(Generic{Name: "T"}),
		Popping(NewFunction("f", Pushing(u32))),
	}
}

func TestCombineIdentityLaw(t *testing.T) {
	for _, x := range sampleEffects() {
		left, err := Combine(None(), x)
		if err != nil {
			t.Fatalf("Combine(none, %s): %v", x, err)
		}
		if !left.Equal(x) {
			t.Errorf("Combine(none, %s) = %s", x, left)
		}

		right, err := Combine(x, None())
		if err != nil {
			t.Fatalf("Combine(%s, none): %v", x, err)
		}
		if !right.Equal(x) {
			t.Errorf("Combine(%s, none) = %s", x, right)
		}
	}
}

func TestCombineCancelsAndCarries(t *testing.T) {
	tests := []struct {
		name       string
		effect     StackEffect
		next       StackEffect
		wantPopped []Type
		wantPushed []Type
	}{
		{
			name:       "push then pop cancels",
			effect:     Pushing(u32),
			next:       Popping(u32),
			wantPopped: nil,
			wantPushed: nil,
		},
		{
			name:       "extra pops become net inputs",
			effect:     Pushing(u32),
			next:       Popping(u32, i8),
			wantPopped: []Type{i8},
			wantPushed: nil,
		},
		{
			name:       "extra pushes stay below",
			effect:     Pushing(i8, u32),
			next:       NewEffect([]Type{u32}, []Type{NewBool()}),
			wantPopped: nil,
			wantPushed: []Type{i8, NewBool()},
		},
		{
			name:       "existing pops stay first",
			effect:     NewEffect([]Type{i8}, nil),
			next:       Popping(u32),
			wantPopped: []Type{i8, u32},
			wantPushed: nil,
		},
		{
			name:       "constructor consumes top first",
			effect:     Pushing(u32, u32),
			next:       ConstructorEffect(point),
			wantPopped: nil,
			wantPushed: []Type{point},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Combine(tt.effect, tt.next)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := NewEffect(tt.wantPopped, tt.wantPushed)
			if !got.Equal(want) {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestCombineDoesNotMutateInputs(t *testing.T) {
	effect := Pushing(i8, u32)
	next := NewEffect([]Type{u32}, []Type{NewBool()})
	if _, err := Combine(effect, next); err != nil {
		t.Fatal(err)
	}
	if len(effect.Pushed) != 2 || !Equal(effect.Pushed[1], u32) {
		t.Errorf("effect mutated: %s", effect)
	}
	if len(next.Popped) != 1 || len(next.Pushed) != 1 {
		t.Errorf("next mutated: %s", next)
	}
}

func TestCombineIncompatible(t *testing.T) {
	_, err := Combine(Pushing(NewBool()), Popping(u32))
	var inc *IncompatibleError
	if !errors.As(err, &inc) {
		t.Fatalf("err = %v, want IncompatibleError", err)
	}
	if !Equal(inc.Source, NewBool()) || !Equal(inc.Dest, u32) {
		t.Errorf("source %s dest %s", inc.Source, inc.Dest)
	}
}

func TestCoercionAsymmetry(t *testing.T) {
	sized := NewStrRef(5)
	unsized := NewStrRef(Unsized)

	if _, err := Combine(Pushing(sized), Popping(unsized)); err != nil {
		t.Errorf("&str(5) into &str: %v", err)
	}

	_, err := Combine(Pushing(unsized), Popping(sized))
	var inc *IncompatibleError
	if !errors.As(err, &inc) {
		t.Errorf("&str into &str(5): err = %v, want IncompatibleError", err)
	}
}

func TestCoercesTo(t *testing.T) {
	tests := []struct {
		src, dst Type
		want     bool
	}{
		{u32, u32, true},
		{u32, i8, false},
		{NewStrRef(3), NewStrRef(Unsized), true},
		{NewStrRef(Unsized), NewStrRef(3), false},
		{NewStrRef(3), NewStrRef(4), false},
		{NewStr(3), NewStr(Unsized), false},
		{Reference{To: Opaque{Size: 4, Kind: Array}}, Reference{To: Opaque{Size: Unsized, Kind: Array}}, false},
		{point, point, true},
		{point, NewStruct("Point", nil), false},
	}
	for _, tt := range tests {
		if got := CoercesTo(tt.src, tt.dst); got != tt.want {
			t.Errorf("CoercesTo(%s, %s) = %v, want %v", tt.src, tt.dst, got, tt.want)
		}
	}
}

func TestCombineRejectsGenerics(t *testing.T) {
	g := Generic{Name: "T"}
	for _, pair := range [][2]StackEffect{
		{Pushing(g), Popping(u32)},
		{Pushing(u32), Popping(g)},
		{Pushing(g), Popping(g)},
		{Pushing(Reference{To: g}), Popping(Reference{To: g})},
	} {
		_, err := Combine(pair[0], pair[1])
		var unsupported *UnsupportedGenericError
		if !errors.As(err, &unsupported) {
			t.Errorf("Combine(%s, %s) err = %v, want UnsupportedGenericError", pair[0], pair[1], err)
		}
	}
}

func TestEffectString(t *testing.T) {
	tests := []struct {
		effect StackEffect
		want   string
	}{
		{None(), "( -> )"},
		{Pushing(u32), "( -> u32 )"},
		{Popping(NewStrRef(Unsized)), "( &str -> )"},
		{FieldAccessEffect(point, u32), "( Point -> Point, u32 )"},
		{Pushing(NewStrRef(5)), "( -> &str(byte_len: 5) )"},
	}
	for _, tt := range tests {
		if got := tt.effect.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFromName(t *testing.T) {
	tests := []struct {
		name string
		want Type
		ok   bool
	}{
		{"u32", u32, true},
		{"i128", NewInt(128), true},
		{"f32", NewFloat(32), true},
		{"bool", NewBool(), true},
		{"&str", NewStrRef(Unsized), true},
		{"&&u8", Reference{To: Reference{To: NewUint(8)}}, true},
		{"Point", nil, false},
		{"&Point", nil, false},
	}
	for _, tt := range tests {
		got, ok := FromName(tt.name)
		if ok != tt.ok || (ok && !Equal(got, tt.want)) {
			t.Errorf("FromName(%q) = %v, %v", tt.name, got, ok)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := point.Describe(); got != "struct Point { x: u32, y: u32 }" {
		t.Errorf("Describe() = %q", got)
	}
	if ft, ok := point.Field("y"); !ok || !Equal(ft, u32) {
		t.Errorf("Field(y) = %v, %v", ft, ok)
	}
	if _, ok := point.Field("z"); ok {
		t.Errorf("Field(z) should be missing")
	}
}
