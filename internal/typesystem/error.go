package typesystem

import "fmt"

// IncompatibleError reports a pushed value that cannot satisfy the pop it
// was matched against.
type IncompatibleError struct {
	Source Type
	Dest   Type
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("source type %s is incompatible with dest type %s", e.Source, e.Dest)
}

// UnsupportedGenericError reports a combination step that involves a type
// variable. Generic unification is not implemented.
type UnsupportedGenericError struct {
	Source Type
	Dest   Type
}

func (e *UnsupportedGenericError) Error() string {
	return fmt.Sprintf("cannot combine %s with %s: generic types are not supported", e.Source, e.Dest)
}
