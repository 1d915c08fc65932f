// Package builtins provides the table of primitive operations the analyzer
// resolves `__`-prefixed identifiers against.
package builtins

import (
	"fmt"
	"strings"

	"github.com/funvibe/tower/internal/config"
	"github.com/funvibe/tower/internal/typesystem"
)

// Entry is one builtin. Handle is opaque to the front end; only the
// interpreter or a backend gives it meaning.
type Entry struct {
	Name   string
	Effect typesystem.StackEffect
	Handle any
}

// Table is an ordered name to entry mapping. It is built once before
// analysis and only read afterwards.
type Table struct {
	entries []Entry
	index   map[string]int
}

func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Default returns the table every program can use.
func Default() *Table {
	t := New()
	t.mustRegister(config.PrintlnStrName, typesystem.Popping(typesystem.NewStrRef(typesystem.Unsized)), "println_str")
	t.mustRegister(config.PrintlnU32Name, typesystem.Popping(typesystem.NewUint(32)), "println_u32")
	t.mustRegister(config.HelloName, typesystem.None(), "hello")
	return t
}

// IsBuiltinName reports whether name follows the builtin naming convention.
func IsBuiltinName(name string) bool {
	return strings.HasPrefix(name, config.BuiltinPrefix)
}

// Register adds or replaces a builtin. Replacing keeps its position.
func (t *Table) Register(name string, effect typesystem.StackEffect, handle any) error {
	if !IsBuiltinName(name) {
		return fmt.Errorf("builtin %q must start with %q", name, config.BuiltinPrefix)
	}
	e := Entry{Name: name, Effect: effect, Handle: handle}
	if i, ok := t.index[name]; ok {
		t.entries[i] = e
		return nil
	}
	t.index[name] = len(t.entries)
	t.entries = append(t.entries, e)
	return nil
}

func (t *Table) mustRegister(name string, effect typesystem.StackEffect, handle any) {
	if err := t.Register(name, effect, handle); err != nil {
		panic(err)
	}
}

// Lookup returns the builtin called name.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.index[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

func (t *Table) Len() int { return len(t.entries) }

// Entries returns the builtins in registration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Merge registers every builtin declared in a project config. Declared type names must
// be primitive.
func (t *Table) Merge(decls []config.BuiltinDecl) error {
	for _, decl := range decls {
		effect, err := effectOf(decl)
		if err != nil {
			return err
		}
		if err := t.Register(decl.Name, effect, nil); err != nil {
			return err
		}
	}
	return nil
}

func effectOf(decl config.BuiltinDecl) (typesystem.StackEffect, error) {
	popped, err := resolveNames(decl.Name, decl.Pops)
	if err != nil {
		return typesystem.StackEffect{}, err
	}
	pushed, err := resolveNames(decl.Name, decl.Pushes)
	if err != nil {
		return typesystem.StackEffect{}, err
	}
	return typesystem.NewEffect(popped, pushed), nil
}

func resolveNames(builtin string, names []string) ([]typesystem.Type, error) {
	types := make([]typesystem.Type, 0, len(names))
	for _, n := range names {
		t, ok := typesystem.FromName(n)
		if !ok {
			return nil, fmt.Errorf("builtin %s: unknown type %q", builtin, n)
		}
		types = append(types, t)
	}
	return types, nil
}

// Signature renders the table one builtin per line, in order. It is stable
// across runs and used as part of cache keys.
func (t *Table) Signature() string {
	var sb strings.Builder
	for _, e := range t.entries {
		sb.WriteString(e.Name)
		sb.WriteByte(' ')
		sb.WriteString(e.Effect.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
