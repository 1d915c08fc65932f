package parser_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/parser"
	"github.com/funvibe/tower/internal/pipeline"
	"github.com/funvibe/tower/internal/typesystem"
)

func parseWithErrors(input string) (*ast.Module, []*diagnostics.DiagnosticError) {
	ctx := pipeline.NewPipelineContext("test.tower", input)
	pp := &parser.ParserProcessor{}
	ctx = pp.Process(ctx)
	return ctx.Module, ctx.Errors
}

// expectError asserts parsing fails with the given code and returns the error.
func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	_, errs := parseWithErrors(input)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(errs))
	}
	if errs[0].Code() != code {
		t.Fatalf("expected error %s, got %s\ninput: %s", code, errs[0].Error(), input)
	}
	return errs[0]
}

// expectModule asserts parsing succeeds and returns the module.
func expectModule(t *testing.T, input string) *ast.Module {
	t.Helper()
	m, errs := parseWithErrors(input)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", errs[0].Error(), input)
	}
	return m
}

func bodyOf(t *testing.T, input string) []ast.Word {
	t.Helper()
	m := expectModule(t, "fn main { "+input+" }")
	fn, ok := m.Elements[0].(*ast.Function)
	if !ok {
		t.Fatalf("element is %T", m.Elements[0])
	}
	return fn.Body
}

func TestModuleElements(t *testing.T) {
	src := `// entry point
fn main { 3u32 4u32 -> Point .x __println_u32 }

struct Point { x: u32, y: u32 }

struct Named {
	label: &str
	count: i64
}

enum Shape { circle: u32 }
fn helper {}
`
	m := expectModule(t, src)
	if m.Name != "test" {
		t.Errorf("module name = %q, want test", m.Name)
	}

	var names []string
	for _, e := range m.Elements {
		names = append(names, e.ElementName())
	}
	if strings.Join(names, ",") != "main,Point,Named,Shape,helper" {
		t.Fatalf("elements = %v", names)
	}

	main := m.Elements[0].(*ast.Function)
	if main.String() != "fn main { 3u32 4u32 -> Point .x __println_u32 }" {
		t.Errorf("main = %s", main)
	}
	if main.Pos != 15 {
		t.Errorf("main pos = %d, want 15", main.Pos)
	}

	named := m.Elements[2].(*ast.Struct)
	if named.String() != "struct Named { label: &str, count: i64 }" {
		t.Errorf("Named = %s", named)
	}
	if _, ok := m.Elements[3].(*ast.Enum); !ok {
		t.Errorf("Shape is %T", m.Elements[3])
	}
	if body := m.Elements[4].(*ast.Function).Body; len(body) != 0 {
		t.Errorf("helper body = %v", body)
	}
	if _, ok := m.Lookup("Point"); !ok {
		t.Errorf("Lookup(Point) failed")
	}
}

func TestEmptyModule(t *testing.T) {
	m := expectModule(t, "  // nothing here\n\n")
	if len(m.Elements) != 0 {
		t.Errorf("elements = %d", len(m.Elements))
	}
}

func TestIntegerLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want string
		typ  typesystem.Opaque
	}{
		{"42", "42", typesystem.NewInt(32)},
		{"-7", "-7", typesystem.NewInt(32)},
		{"0x1F", "31", typesystem.NewUint(32)},
		{"0b101", "5", typesystem.NewUint(32)},
		{"0o17", "15", typesystem.NewUint(32)},
		{"-0x10", "-16", typesystem.NewInt(32)},
		{"255u8", "255", typesystem.NewUint(8)},
		{"-128i8", "-128", typesystem.NewInt(8)},
		{"127i8", "127", typesystem.NewInt(8)},
		{"3u", "3", typesystem.NewUint(32)},
		{"3i", "3", typesystem.NewInt(32)},
		{"340282366920938463463374607431768211455u128", "340282366920938463463374607431768211455", typesystem.NewUint(128)},
		{"-170141183460469231731687303715884105728i128", "-170141183460469231731687303715884105728", typesystem.NewInt(128)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			body := bodyOf(t, tt.src)
			if len(body) != 1 {
				t.Fatalf("body = %v", body)
			}
			lit, ok := body[0].(*ast.Literal)
			if !ok || lit.Kind != ast.IntLiteral {
				t.Fatalf("word is %#v", body[0])
			}
			want, _ := new(big.Int).SetString(tt.want, 10)
			if lit.Int.Cmp(want) != 0 {
				t.Errorf("value = %s, want %s", lit.Int, tt.want)
			}
			if lit.IntType != tt.typ {
				t.Errorf("type = %s, want %s", lit.IntType, tt.typ)
			}
		})
	}
}

func TestOtherLiterals(t *testing.T) {
	body := bodyOf(t, `"hi\n\x41\"" 1.5 -0.25f32 2f64 true false &helper`)
	if len(body) != 7 {
		t.Fatalf("body = %v", body)
	}

	str := body[0].(*ast.Literal)
	if str.Kind != ast.StrLiteral || str.Str != "hi\nA\"" {
		t.Errorf("string = %q", str.Str)
	}
	if typ, _ := str.Type(); !typesystem.Equal(typ, typesystem.NewStrRef(5)) {
		t.Errorf("string type = %s", typ)
	}

	f := body[1].(*ast.Literal)
	if f.Kind != ast.FloatLiteral || f.Float != 1.5 || f.FloatBits != 64 {
		t.Errorf("1.5 = %+v", f)
	}
	f32 := body[2].(*ast.Literal)
	if f32.Float != -0.25 || f32.FloatBits != 32 {
		t.Errorf("-0.25f32 = %+v", f32)
	}
	if f64 := body[3].(*ast.Literal); f64.Kind != ast.FloatLiteral || f64.Float != 2 || f64.FloatBits != 64 {
		t.Errorf("2f64 = %+v", f64)
	}

	if b := body[4].(*ast.Literal); b.Kind != ast.BoolLiteral || !b.Bool {
		t.Errorf("true = %+v", b)
	}
	if b := body[5].(*ast.Literal); b.Kind != ast.BoolLiteral || b.Bool {
		t.Errorf("false = %+v", b)
	}
	fp := body[6].(*ast.Literal)
	if fp.Kind != ast.FnPtrLiteral || fp.FnName != "helper" {
		t.Errorf("&helper = %+v", fp)
	}
	if _, ok := fp.Type(); ok {
		t.Errorf("function pointers have no intrinsic type")
	}
}

func TestWordsBacktrack(t *testing.T) {
	body := bodyOf(t, "trueish ->Point -> &str .y _under")
	want := []string{"*ast.Identifier trueish", "*ast.Constructor -> Point", "*ast.Constructor -> &str", "*ast.FieldAccess .y", "*ast.Identifier _under"}
	if len(body) != len(want) {
		t.Fatalf("body = %v", body)
	}
	for i, w := range body {
		got := typeName(w) + " " + w.String()
		if got != want[i] {
			t.Errorf("word %d = %q, want %q", i, got, want[i])
		}
	}
}

func typeName(w ast.Word) string {
	switch w.(type) {
	case *ast.Identifier:
		return "*ast.Identifier"
	case *ast.Constructor:
		return "*ast.Constructor"
	case *ast.FieldAccess:
		return "*ast.FieldAccess"
	case *ast.Literal:
		return "*ast.Literal"
	}
	return "?"
}

func TestWordPositions(t *testing.T) {
	body := bodyOf(t, "a\n  -> P")
	// "fn main { " is 10 code points
	if body[0].Position() != 10 || body[1].Position() != 14 {
		t.Errorf("positions = %d, %d", body[0].Position(), body[1].Position())
	}
	if body[1].SourceName() != "test.tower" {
		t.Errorf("source = %q", body[1].SourceName())
	}
}

func TestP001_Expected(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
		while ast.Construct
		cats  string
	}{
		{"fn without space", "fn{}", 2, ast.ConstructFunction, "expected [whitespace]"},
		{"fn without name", "fn {}", 3, ast.ConstructFunction, "expected [identifier]"},
		{"fn without body", "fn main", 7, ast.ConstructFunction, "expected ['{']"},
		{"unclosed body", "fn main { a", 11, ast.ConstructFunction, "expected [identifier, literal, '}']"},
		{"bad body word", "fn main { a ) }", 12, ast.ConstructFunction, "expected [identifier, literal, '}']"},
		{"struct without brace", "struct P x", 9, ast.ConstructStruct, "expected ['{']"},
		{"field without colon", "struct P { x u32 }", 13, ast.ConstructStruct, "expected [':']"},
		{"field without type", "struct P { x: }", 14, ast.ConstructStruct, "expected [type name]"},
		{"unclosed struct", "struct P { x: u32 ", 18, ast.ConstructStruct, "expected [identifier, '}']"},
		{"enum without name", "enum  {", 6, ast.ConstructEnum, "expected [identifier]"},
		{"unterminated string", `fn main { "abc`, 14, ast.ConstructLiteral, `expected ['"']`},
		{"bad escape", `fn main { "\q" }`, 12, ast.ConstructLiteral, "expected [escape sequence]"},
		{"short hex escape", `fn main { "\x4" }`, 14, ast.ConstructLiteral, "expected [escape sequence]"},
		{"prefix without digits", "fn main { 0x }", 12, ast.ConstructLiteral, "expected [number]"},
		{"constructor without name", "fn main { -> }", 13, ast.ConstructConstructor, "expected [type name]"},
		{"field access without name", "fn main { . }", 11, ast.ConstructFieldAccess, "expected [identifier]"},
		{"pointer without name", "fn main { & }", 11, ast.ConstructLiteral, "expected [identifier]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := expectError(t, tt.input, diagnostics.ErrP001)
			if int(err.Pos) != tt.pos {
				t.Errorf("pos = %d, want %d", err.Pos, tt.pos)
			}
			if err.While != tt.while {
				t.Errorf("while = %s, want %s", err.While, tt.while)
			}
			if err.Kind.Message() != tt.cats {
				t.Errorf("message = %q, want %q", err.Kind.Message(), tt.cats)
			}
		})
	}
}

func TestP002_Unexpected(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"fn main { } }", 12},
		{"fnord main { }", 0},
		{"fn main {}\n  42", 13},
	}
	for _, tt := range tests {
		err := expectError(t, tt.input, diagnostics.ErrP002)
		if int(err.Pos) != tt.pos {
			t.Errorf("%q: pos = %d, want %d", tt.input, err.Pos, tt.pos)
		}
		if err.While != ast.ConstructModule {
			t.Errorf("%q: while = %s", tt.input, err.While)
		}
	}
}

func TestP003_Overflow(t *testing.T) {
	tests := []struct {
		input  string
		digits string
		target string
		pos    int
	}{
		{"fn main { 256u8 }", "256", "u8", 10},
		{"fn main { 128i8 }", "128", "i8", 10},
		{"fn main { -129i8 }", "-129", "i8", 11},
		{"fn main { 4294967296 }", "4294967296", "i32", 10},
		{"fn main { 0x1FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFu128 }", "0x1FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF", "u128", 10},
	}
	for _, tt := range tests {
		err := expectError(t, tt.input, diagnostics.ErrP003)
		k := err.Kind.(diagnostics.LiteralIntegerOverflow)
		if k.Digits != tt.digits || k.Target.String() != tt.target {
			t.Errorf("%q: kind = %+v", tt.input, k)
		}
		if int(err.Pos) != tt.pos {
			t.Errorf("%q: pos = %d, want %d", tt.input, err.Pos, tt.pos)
		}
	}
}

func TestP004_InvalidIntegerSize(t *testing.T) {
	err := expectError(t, "fn main { 5u7 }", diagnostics.ErrP004)
	// one past the start of the suffix
	if err.Pos != 12 {
		t.Errorf("pos = %d, want 12", err.Pos)
	}
}

func TestP005_NegativeUnsigned(t *testing.T) {
	for _, src := range []string{"fn main { -1u8 }", "fn main { -1u }", "fn main { -1u7 }"} {
		err := expectError(t, src, diagnostics.ErrP005)
		if err.Pos != 12 {
			t.Errorf("%q: pos = %d, want 12", src, err.Pos)
		}
	}
}

func TestP006_Duplicate(t *testing.T) {
	err := expectError(t, "fn a {}\nstruct a { }", diagnostics.ErrP006)
	if err.Pos != 8 {
		t.Errorf("pos = %d, want 8", err.Pos)
	}
	expectError(t, "struct P { x: u32 x: u8 }", diagnostics.ErrP006)

	// an earlier duplicate wins over a later syntax error
	src := "fn a {}\nfn a {}\nfn broken { ) }"
	err = expectError(t, src, diagnostics.ErrP006)
	if err.Pos != 8 {
		t.Errorf("pos = %d, want 8", err.Pos)
	}
}

func TestP007_InvalidFloat(t *testing.T) {
	err := expectError(t, "fn main { 1.5f16 }", diagnostics.ErrP007)
	if err.Pos != 13 {
		t.Errorf("pos = %d, want 13", err.Pos)
	}
	expectError(t, "fn main { 1.5f }", diagnostics.ErrP007)
}

func TestParseStringDirect(t *testing.T) {
	m, err := parser.ParseString("dir/prog.tower", "fn x { }")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if m.Name != "prog" {
		t.Errorf("name = %q", m.Name)
	}
	_, err = parser.ParseString("dir/prog.tower", "}")
	if err == nil || err.File != "dir/prog.tower" {
		t.Errorf("err = %v", err)
	}
}

func TestBoolNeedsWordBoundary(t *testing.T) {
	body := bodyOf(t, "truefalse false_ true")
	if len(body) != 3 {
		t.Fatalf("body = %v", body)
	}
	for i, want := range []string{"truefalse", "false_"} {
		id, ok := body[i].(*ast.Identifier)
		if !ok || id.Name != want {
			t.Errorf("word %d = %#v, want identifier %s", i, body[i], want)
		}
	}
	if lit, ok := body[2].(*ast.Literal); !ok || lit.Kind != ast.BoolLiteral {
		t.Errorf("word 2 = %#v", body[2])
	}
}
