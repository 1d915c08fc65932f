package builtins

import (
	"strings"
	"testing"

	"github.com/funvibe/tower/internal/config"
	"github.com/funvibe/tower/internal/typesystem"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}

	e, ok := tbl.Lookup("__println_str")
	if !ok {
		t.Fatalf("__println_str missing")
	}
	want := typesystem.Popping(typesystem.NewStrRef(typesystem.Unsized))
	if !e.Effect.Equal(want) {
		t.Errorf("__println_str effect = %s, want %s", e.Effect, want)
	}
	if e, _ := tbl.Lookup("__hello"); !e.Effect.IsNone() {
		t.Errorf("__hello effect = %s", e.Effect)
	}
	if _, ok := tbl.Lookup("__nope"); ok {
		t.Errorf("unknown builtin found")
	}

	names := []string{}
	for _, e := range tbl.Entries() {
		names = append(names, e.Name)
	}
	if strings.Join(names, ",") != "__println_str,__println_u32,__hello" {
		t.Errorf("order = %v", names)
	}
}

func TestRegisterRejectsPlainNames(t *testing.T) {
	if err := New().Register("print", typesystem.None(), nil); err == nil {
		t.Errorf("expected error for name without prefix")
	}
}

func TestMerge(t *testing.T) {
	tbl := Default()
	err := tbl.Merge([]config.BuiltinDecl{
		{Name: "__add_u32", Pops: []string{"u32", "u32"}, Pushes: []string{"u32"}},
		{Name: "__hello", Pushes: []string{"&str"}},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if tbl.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tbl.Len())
	}
	add, _ := tbl.Lookup("__add_u32")
	if add.Effect.String() != "( u32, u32 -> u32 )" {
		t.Errorf("__add_u32 = %s", add.Effect)
	}
	hello, _ := tbl.Lookup("__hello")
	if hello.Effect.String() != "( -> &str )" {
		t.Errorf("__hello not replaced: %s", hello.Effect)
	}
	if !strings.HasPrefix(tbl.Signature(), "__println_str ( &str -> )\n") {
		t.Errorf("Signature() = %q", tbl.Signature())
	}

	if err := tbl.Merge([]config.BuiltinDecl{{Name: "__bad", Pops: []string{"Point"}}}); err == nil {
		t.Errorf("expected unknown type error")
	}
}
