package hastack

import (
	"context"

	"github.com/jcorbin/hastack/internal/panicerr"
)

// New creates an empty stack, with storage reserved for its full capacity.
func New(opts ...Option) *Stack {
	var s Stack
	if opt := Options(opts...); opt != nil {
		opt.apply(&s)
	}
	s.setup()
	s.output()
	return &s
}

// Run calls proc with the stack, returning any halt as an error: ErrOverflow,
// ErrUnderflow, a TypeError, ErrDivideByZero, ErrCallDepth, or ctx's error if
// it is done before an eval. Any other panic is returned as an error carrying its stack
// trace. Output is flushed before Run returns.
//
// The stack is left as the halt found it; Run does not roll back.
func (s *Stack) Run(ctx context.Context, proc func(s *Stack)) error {
	if proc == nil {
		return nil
	}
	defer func(prior context.Context) { s.ctx = prior }(s.ctx)
	s.ctx = ctx
	return panicerr.Recover("hastack", func() error {
		proc(s)
		return s.output().Flush()
	})
}
