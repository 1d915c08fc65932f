package scanner

// Outcome is the three-valued state of a match attempt.
type Outcome uint8

const (
	// NotPresent means the rule does not apply here. The caller may try
	// another alternative; Atomic guarantees the input is untouched.
	NotPresent Outcome = iota
	// Matched means the rule applied and produced a value.
	Matched
	// Invalid means the rule applied but the input is malformed. No sibling
	// alternative may be tried.
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case NotPresent:
		return "NotPresent"
	case Matched:
		return "Matched"
	case Invalid:
		return "Invalid"
	}
	return "Outcome(?)"
}

// Result carries the outcome of a rule together with its value (Matched)
// or its error (Invalid).
type Result[T any] struct {
	outcome Outcome
	value   T
	err     error
}

// Match wraps a successfully matched value.
func Match[T any](v T) Result[T] {
	return Result[T]{outcome: Matched, value: v}
}

// Fail commits to an error.
func Fail[T any](err error) Result[T] {
	return Result[T]{outcome: Invalid, err: err}
}

// Absent reports that the rule does not apply.
func Absent[T any]() Result[T] {
	return Result[T]{outcome: NotPresent}
}

// FromBool turns a primitive matcher's boolean into a Result.
func FromBool(ok bool) Result[struct{}] {
	if ok {
		return Match(struct{}{})
	}
	return Absent[struct{}]()
}

// FromOK turns a (value, ok) pair into a Result.
func FromOK[T any](v T, ok bool) Result[T] {
	if ok {
		return Match(v)
	}
	return Absent[T]()
}

func (r Result[T]) Outcome() Outcome { return r.outcome }
func (r Result[T]) IsMatched() bool  { return r.outcome == Matched }
func (r Result[T]) IsInvalid() bool  { return r.outcome == Invalid }
func (r Result[T]) IsAbsent() bool   { return r.outcome == NotPresent }

// Value returns the matched value, or the zero value when not matched.
func (r Result[T]) Value() T { return r.value }

// Err returns the committed error, or nil unless the result is Invalid.
func (r Result[T]) Err() error { return r.err }

// Propagate re-types a non-matched result so it can be returned from a rule
// producing a different value type. Calling it on a Matched result is a bug.
func Propagate[U, T any](r Result[T]) Result[U] {
	if r.outcome == Matched {
		panic("scanner: Propagate called on a matched result")
	}
	return Result[U]{outcome: r.outcome, err: r.err}
}

// Require upgrades NotPresent to Invalid(err). Matched and Invalid pass
// through unchanged.
func Require[T any](r Result[T], err error) Result[T] {
	if r.outcome == NotPresent {
		return Fail[T](err)
	}
	return r
}

// Map transforms a matched value, leaving other outcomes as they are.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.outcome == Matched {
		return Match(f(r.value))
	}
	return Result[U]{outcome: r.outcome, err: r.err}
}
