package parser

import (
	"math/big"
	"strconv"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/scanner"
	"github.com/funvibe/tower/internal/typesystem"
)

func (p *parser) literal(s *scanner.Scanner) scanner.Result[ast.Word] {
	r := scanner.Choice[*ast.Literal](s,
		p.stringLiteral,
		p.floatLiteral,
		p.integerLiteral,
		p.boolLiteral,
		p.fnPointer,
	)
	return scanner.Map(r, func(l *ast.Literal) ast.Word { return l })
}

// stringLiteral is a double-quoted string with backslash escapes.
func (p *parser) stringLiteral(s *scanner.Scanner) scanner.Result[*ast.Literal] {
	start := s.Cursor()
	if !s.Take('"') {
		return scanner.Absent[*ast.Literal]()
	}

	chars, err := scanner.ZeroOrMore[rune](s, func(s *scanner.Scanner) scanner.Result[rune] {
		return scanner.Choice[rune](s, p.escape, plainChar)
	})
	if err != nil {
		return scanner.Fail[*ast.Literal](err)
	}
	if !s.Take('"') {
		return scanner.Fail[*ast.Literal](p.expected(ast.ConstructLiteral, s.Cursor(), ast.CatQuote))
	}

	return scanner.Match(&ast.Literal{Base: p.base(start), Kind: ast.StrLiteral, Str: string(chars)})
}

func plainChar(s *scanner.Scanner) scanner.Result[rune] {
	c, ok := s.Pop()
	if !ok || c == '"' {
		return scanner.Absent[rune]()
	}
	return scanner.Match(c)
}

var simpleEscapes = map[rune]rune{
	'\\': '\\',
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'"':  '"',
}

func (p *parser) escape(s *scanner.Scanner) scanner.Result[rune] {
	if !s.Take('\\') {
		return scanner.Absent[rune]()
	}
	return scanner.Require(
		scanner.Choice[rune](s, simpleEscape, p.hexEscape),
		p.expected(ast.ConstructLiteral, s.Cursor(), ast.CatEscapeSequence),
	)
}

func simpleEscape(s *scanner.Scanner) scanner.Result[rune] {
	c, ok := s.Pop()
	if !ok {
		return scanner.Absent[rune]()
	}
	r, ok := simpleEscapes[c]
	return scanner.FromOK(r, ok)
}

// hexEscape is `\xHH`.
func (p *parser) hexEscape(s *scanner.Scanner) scanner.Result[rune] {
	if !s.Take('x') {
		return scanner.Absent[rune]()
	}
	var v rune
	for range 2 {
		c, ok := s.TakeIf(isHexDigit)
		if !ok {
			return scanner.Fail[rune](p.expected(ast.ConstructLiteral, s.Cursor(), ast.CatEscapeSequence))
		}
		d, _ := strconv.ParseUint(string(c), 16, 8)
		v = v*16 + rune(d)
	}
	return scanner.Match(v)
}

func (p *parser) boolLiteral(s *scanner.Scanner) scanner.Result[*ast.Literal] {
	start := s.Cursor()
	v := true
	if !keyword(s, "true") {
		s.Reset(start)
		if !keyword(s, "false") {
			return scanner.Absent[*ast.Literal]()
		}
		v = false
	}
	return scanner.Match(&ast.Literal{Base: p.base(start), Kind: ast.BoolLiteral, Bool: v})
}

// fnPointer is `&name`.
func (p *parser) fnPointer(s *scanner.Scanner) scanner.Result[*ast.Literal] {
	start := s.Cursor()
	if !s.Take('&') {
		return scanner.Absent[*ast.Literal]()
	}
	name, ok := identifier(s)
	if !ok {
		return scanner.Fail[*ast.Literal](p.expected(ast.ConstructLiteral, s.Cursor(), ast.CatIdentifier))
	}
	return scanner.Match(&ast.Literal{Base: p.base(start), Kind: ast.FnPtrLiteral, FnName: name})
}

// floatLiteral needs either a fraction (`1.5`) or a float suffix (`2f32`);
// anything else is left to integerLiteral.
func (p *parser) floatLiteral(s *scanner.Scanner) scanner.Result[*ast.Literal] {
	start := s.Cursor()
	text := ""
	if s.Take('-') {
		text = "-"
	}
	whole := s.TakeWhile(isDecDigit)
	if whole == "" {
		return scanner.Absent[*ast.Literal]()
	}
	text += whole

	hasFraction := false
	mark := s.Cursor()
	if s.Take('.') {
		if frac := s.TakeWhile(isDecDigit); frac != "" {
			text += "." + frac
			hasFraction = true
		} else {
			s.Reset(mark)
		}
	}

	bits := 64
	suffixStart := s.Cursor()
	if s.Take('f') {
		switch w := s.TakeWhile(isDecDigit); w {
		case "32":
			bits = 32
		case "64":
		case "":
			if !hasFraction {
				return scanner.Absent[*ast.Literal]()
			}
			return scanner.Fail[*ast.Literal](p.errorAt(
				diagnostics.InvalidFloatLiteral{Text: text + "f"}, ast.ConstructLiteral, suffixStart))
		default:
			return scanner.Fail[*ast.Literal](p.errorAt(
				diagnostics.InvalidFloatLiteral{Text: text + "f" + w}, ast.ConstructLiteral, suffixStart))
		}
	} else if !hasFraction {
		return scanner.Absent[*ast.Literal]()
	}

	v, err := strconv.ParseFloat(text, bits)
	if err != nil {
		return scanner.Fail[*ast.Literal](p.errorAt(
			diagnostics.InvalidFloatLiteral{Text: text}, ast.ConstructLiteral, start))
	}
	return scanner.Match(&ast.Literal{Base: p.base(start), Kind: ast.FloatLiteral, Float: v, FloatBits: bits})
}

// number is the digits of an integer literal before any suffix.
type number struct {
	value    *big.Int
	text     string // as written, prefix included
	prefixed bool
}

type intSuffix struct {
	signed bool
	bits   int
}

// integerLiteral is `-?(0b|0o|0x)?digits([ui](8|16|32|64|128)?)?`.
// Without a suffix a prefixed literal is u32 and any other is i32.
func (p *parser) integerLiteral(s *scanner.Scanner) scanner.Result[*ast.Literal] {
	start := s.Cursor()
	negative := s.Take('-')
	intStart := s.Cursor()

	num := scanner.Choice[number](s, p.radix(2), p.radix(8), p.radix(16), p.radix(10))
	if !num.IsMatched() {
		return scanner.Propagate[*ast.Literal](num)
	}
	n := num.Value()

	suffix, hasSuffix, err := scanner.Optional[intSuffix](s, p.intSuffix(negative))
	if err != nil {
		return scanner.Fail[*ast.Literal](err)
	}

	var typ typesystem.Opaque
	switch {
	case hasSuffix && suffix.signed:
		typ = typesystem.NewInt(suffix.bits)
	case hasSuffix:
		typ = typesystem.NewUint(suffix.bits)
	case n.prefixed && !negative:
		typ = typesystem.NewUint(32)
	default:
		typ = typesystem.NewInt(32)
	}

	value := n.value
	text := n.text
	if negative {
		value = new(big.Int).Neg(value)
		text = "-" + text
	}
	if !fits(value, typ) {
		return scanner.Fail[*ast.Literal](p.errorAt(
			diagnostics.LiteralIntegerOverflow{Digits: text, Target: typ}, ast.ConstructLiteral, intStart))
	}

	return scanner.Match(&ast.Literal{Base: p.base(start), Kind: ast.IntLiteral, Int: value, IntType: typ})
}

var radixPrefixes = map[int]string{2: "0b", 8: "0o", 10: "", 16: "0x"}

// radix matches the digits of one base. A prefix with no digits after it is
// an error; no digits at all without a prefix is not a number.
func (p *parser) radix(base int) scanner.Rule[number] {
	prefix := radixPrefixes[base]
	return func(s *scanner.Scanner) scanner.Result[number] {
		start := s.Cursor()
		if !s.TakeString(prefix) {
			return scanner.Absent[number]()
		}
		digits := s.TakeWhile(func(c rune) bool { return isDigitOf(c, base) })
		if digits == "" {
			if prefix == "" {
				return scanner.Absent[number]()
			}
			return scanner.Fail[number](p.expected(ast.ConstructLiteral, s.Cursor(), ast.CatNumber))
		}

		v, _ := new(big.Int).SetString(digits, base)
		if v.BitLen() > 128 {
			return scanner.Fail[number](p.errorAt(
				diagnostics.LiteralIntegerOverflow{Digits: prefix + digits, Target: typesystem.NewUint(128)},
				ast.ConstructLiteral, start))
		}
		return scanner.Match(number{value: v, text: prefix + digits, prefixed: prefix != ""})
	}
}

// intSuffix is `[ui](8|16|32|64|128)?`; the width defaults to 32. A
// negative literal cannot take an unsigned suffix.
func (p *parser) intSuffix(negative bool) scanner.Rule[intSuffix] {
	return func(s *scanner.Scanner) scanner.Result[intSuffix] {
		start := s.Cursor()
		c, ok := s.TakeOf('u', 'i')
		if !ok {
			return scanner.Absent[intSuffix]()
		}
		if negative && c == 'u' {
			return scanner.Fail[intSuffix](p.errorAt(
				diagnostics.NegativeUnsignedLiteral{}, ast.ConstructLiteral, start))
		}

		suffix := intSuffix{signed: c == 'i', bits: 32}
		switch size := s.TakeWhile(isDecDigit); size {
		case "":
		case "8", "16", "32", "64", "128":
			suffix.bits, _ = strconv.Atoi(size)
		default:
			return scanner.Fail[intSuffix](p.errorAt(
				diagnostics.InvalidIntegerSize{Size: size}, ast.ConstructLiteral, start+1))
		}
		return scanner.Match(suffix)
	}
}

// fits reports whether v is representable in the integer type t.
func fits(v *big.Int, t typesystem.Opaque) bool {
	bits := uint(t.Size * 8)
	if t.Kind == typesystem.UnsignedInt {
		return v.Sign() >= 0 && v.BitLen() <= int(bits)
	}
	limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
	if v.Sign() < 0 {
		return new(big.Int).Neg(v).Cmp(limit) <= 0
	}
	return v.Cmp(limit) < 0
}

func isDecDigit(c rune) bool { return c >= '0' && c <= '9' }

func isHexDigit(c rune) bool {
	return isDecDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isDigitOf(c rune, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return isHexDigit(c)
	}
	return isDecDigit(c)
}
