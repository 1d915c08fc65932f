package scanner

// Rule is a matching function over a scanner.
type Rule[T any] func(*Scanner) Result[T]

// Atomic runs f and rewinds the cursor if f reports NotPresent, so a failed
// attempt never leaks partially consumed input. Matched and Invalid leave
// the cursor wherever f left it: an Invalid is a commitment.
func Atomic[T any](s *Scanner, f Rule[T]) Result[T] {
	start := s.Cursor()
	r := f(s)
	if r.IsAbsent() {
		s.Reset(start)
	}
	return r
}

// ZeroOrMore runs Atomic(f) until it stops matching. It returns the matched
// values and, if the repetition ended on an Invalid, that error.
func ZeroOrMore[T any](s *Scanner, f Rule[T]) ([]T, error) {
	var items []T
	for {
		r := Atomic(s, f)
		switch r.Outcome() {
		case Matched:
			items = append(items, r.Value())
		case Invalid:
			return items, r.Err()
		default:
			return items, nil
		}
	}
}

// OneOrMore is ZeroOrMore that reports NotPresent when nothing matched.
func OneOrMore[T any](s *Scanner, f Rule[T]) Result[[]T] {
	items, err := ZeroOrMore(s, f)
	if err != nil {
		return Fail[[]T](err)
	}
	if len(items) == 0 {
		return Absent[[]T]()
	}
	return Match(items)
}

// Choice tries each alternative in order through Atomic. The first Matched
// or Invalid result wins; NotPresent from every alternative is NotPresent.
func Choice[T any](s *Scanner, alternatives ...Rule[T]) Result[T] {
	for _, f := range alternatives {
		if r := Atomic(s, f); !r.IsAbsent() {
			return r
		}
	}
	return Absent[T]()
}

// Optional runs Atomic(f) and turns NotPresent into a match with ok false.
// Invalid still propagates.
func Optional[T any](s *Scanner, f Rule[T]) (v T, ok bool, err error) {
	r := Atomic(s, f)
	switch r.Outcome() {
	case Matched:
		return r.Value(), true, nil
	case Invalid:
		return v, false, r.Err()
	}
	return v, false, nil
}
