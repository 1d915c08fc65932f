// Package scanner provides the cursor over source text and the backtracking
// combinators the grammar is built from.
package scanner

// Pos is a code-point offset into the source text. Positions are never
// mutated once handed out.
type Pos int

// Scanner is an indexable view over one source text with a mutable read
// position.
type Scanner struct {
	name   string
	text   []rune
	cursor int
}

// New creates a scanner over source. name identifies the source in
// diagnostics.
func New(name, source string) *Scanner {
	return &Scanner{name: name, text: []rune(source)}
}

func (s *Scanner) Name() string { return s.name }

// Cursor returns the current read position.
func (s *Scanner) Cursor() Pos { return Pos(s.cursor) }

// Len returns the number of code points in the source.
func (s *Scanner) Len() int { return len(s.text) }

// Reset moves the cursor back to p. It is how Atomic rewinds.
func (s *Scanner) Reset(p Pos) {
	s.cursor = s.clamp(int(p))
}

func (s *Scanner) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(s.text) {
		return len(s.text)
	}
	return i
}

func (s *Scanner) HasNext() bool { return s.cursor < len(s.text) }

// Peek returns the next code point without consuming it.
func (s *Scanner) Peek() (rune, bool) {
	if !s.HasNext() {
		return 0, false
	}
	return s.text[s.cursor], true
}

// Advance moves the cursor forward by n, stopping at the end of input.
func (s *Scanner) Advance(n int) {
	s.cursor = s.clamp(s.cursor + n)
}

// Pop consumes and returns the next code point.
func (s *Scanner) Pop() (rune, bool) {
	c, ok := s.Peek()
	if ok {
		s.cursor++
	}
	return c, ok
}

// Take consumes c if it is the next code point.
func (s *Scanner) Take(c rune) bool {
	if n, ok := s.Peek(); ok && n == c {
		s.cursor++
		return true
	}
	return false
}

// TakeString consumes str if the input continues with it.
func (s *Scanner) TakeString(str string) bool {
	want := []rune(str)
	if s.cursor+len(want) > len(s.text) {
		return false
	}
	for i, c := range want {
		if s.text[s.cursor+i] != c {
			return false
		}
	}
	s.cursor += len(want)
	return true
}

// TakeOf consumes the first of cs that matches the next code point.
func (s *Scanner) TakeOf(cs ...rune) (rune, bool) {
	for _, c := range cs {
		if s.Take(c) {
			return c, true
		}
	}
	return 0, false
}

// TakeIf consumes the next code point when pred accepts it.
func (s *Scanner) TakeIf(pred func(rune) bool) (rune, bool) {
	c, ok := s.Peek()
	if !ok || !pred(c) {
		return 0, false
	}
	s.cursor++
	return c, true
}

// TakeWhile greedily consumes code points accepted by pred and returns them.
func (s *Scanner) TakeWhile(pred func(rune) bool) string {
	start := s.cursor
	for s.cursor < len(s.text) && pred(s.text[s.cursor]) {
		s.cursor++
	}
	return string(s.text[start:s.cursor])
}

// Context returns the source line containing p: everything after the
// previous newline up to the next newline or carriage return.
func (s *Scanner) Context(p Pos) string {
	at := s.clamp(int(p))

	start := 0
	for i := at - 1; i >= 0; i-- {
		if s.text[i] == '\n' {
			start = i + 1
			break
		}
	}

	end := len(s.text)
	for i := at; i < len(s.text); i++ {
		if s.text[i] == '\n' || s.text[i] == '\r' {
			end = i
			break
		}
	}

	return string(s.text[start:end])
}

// ColRow returns the 1-based column and row of p, both counted in code
// points.
func (s *Scanner) ColRow(p Pos) (col, row int) {
	at := s.clamp(int(p))
	row, col = 1, 1
	for _, c := range s.text[:at] {
		if c == '\n' {
			row++
			col = 1
			continue
		}
		col++
	}
	return col, row
}
