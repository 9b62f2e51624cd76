package tst

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Tree operations. Callers should compare with
// errors.Is; StillReferencedError is returned as a pointer, to be extracted
// with errors.As, since it carries the post-decrement refcnt.
var (
	// ErrKeyTooLong is returned when a key's payload plus implicit
	// terminator would exceed the tree's maximum depth.
	ErrKeyTooLong = errors.New("tst: key exceeds maximum length")

	// ErrNotFound is returned by Delete when the key is absent.
	ErrNotFound = errors.New("tst: key not found")

	// ErrInvalidKey is returned when a key contains an embedded NUL byte.
	// A NUL has no representation other than the implicit terminator a
	// key walk appends past its last byte, so embedding one would make
	// the walk ambiguous between "key ends here" and "key continues with
	// a literal zero byte".
	ErrInvalidKey = errors.New("tst: key must not contain a NUL byte")
)

// StillReferencedError is returned by Delete when decrementing refcnt
// leaves it above zero: the key remains present and findable.
type StillReferencedError struct {
	Refcnt uint32
}

func (e *StillReferencedError) Error() string {
	return fmt.Sprintf("tst: key still referenced (refcnt=%d)", e.Refcnt)
}
