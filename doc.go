/*
Package hastack implements a small stack machine over tagged values.

A Stack holds up to a fixed capacity of Values: Int, Bool, Char, List (a
nested Stack, owned by its slot) and *Quote (a procedure over the stack,
shared by reference). Programs are ordinary Go calls that push values and
apply primitive operations, each a func(*Stack):

	s := hastack.New()
	err := s.Run(ctx, func(s *hastack.Stack) {
		s.PushInt(3)
		s.PushInt(4)
		hastack.Add(s)
		hastack.Print(s) // 7
	})

Because a primitive is just a func(*Stack), a Quote may wrap one, or any
other procedure, and Eval runs whatever Quote is on top of the stack:

	s.PushQuote(hastack.Print)
	hastack.Eval(s)

Failures halt the running program: overflow, underflow, a value of the wrong
kind, division by zero, or quotes calling each other too deeply. Run recovers
the halt and returns it as an error (ErrOverflow, ErrUnderflow, a TypeError
matching ErrTypeMismatch, ErrDivideByZero, or ErrCallDepth). Outside of Run a halt is an uncaught panic, which
terminates the process after printing the error.

Source text may be compiled into Quotes with package script; command hastack
runs such source, or an interactive shell.
*/
package hastack
