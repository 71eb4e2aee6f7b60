package panicerr

import (
	"errors"
	"fmt"
)

// Halt aborts the calling goroutine by panicking with err marked as a
// deliberate halt. Under Recover the halt comes back as err itself; left
// uncaught it crashes the program, printing err.
func Halt(err error) {
	panic(haltError{err})
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}

func (err haltError) Unwrap() error { return err.error }

// IsHalt returns true if err is an unrecovered halt, as seen by code that
// recovers panics itself rather than going through Recover.
func IsHalt(err error) bool {
	var he haltError
	return errors.As(err, &he)
}
