package hastack

import (
	"errors"
	"fmt"
)

// Errors that halt a running program.
var (
	ErrOverflow     = errors.New("stack overflow")
	ErrUnderflow    = errors.New("stack underflow")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrDivideByZero = errors.New("divide by zero")
	ErrCallDepth    = errors.New("call depth exceeded")
)

// TypeError is the ErrTypeMismatch raised when an operation pops a value of
// the wrong kind.
type TypeError struct {
	Op   string
	Want Kind
	Got  Kind
}

func (te TypeError) Error() string {
	return fmt.Sprintf("%v: %v expected %v, got %v", ErrTypeMismatch, te.Op, te.Want, te.Got)
}

// Is makes TypeError match ErrTypeMismatch under errors.Is.
func (te TypeError) Is(target error) bool { return target == ErrTypeMismatch }
