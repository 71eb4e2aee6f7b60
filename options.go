package hastack

import (
	"io"

	"github.com/jcorbin/hastack/internal/flushio"
)

// Option configures a Stack created by New.
type Option interface{ apply(s *Stack) }

// Options combines any number of options into one, applied in order.
func Options(opts ...Option) Option {
	var all options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			all = append(all, impl...)
		default:
			all = append(all, opt)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return all
	}
}

type options []Option

func (opts options) apply(s *Stack) {
	for _, opt := range opts {
		opt.apply(s)
	}
}

// WithCapacity sets the number of values the stack can hold; values less than
// 1 mean DefaultCapacity.
func WithCapacity(n int) Option { return capacityOption(n) }

// WithOutput directs print output to w, rather than standard output.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithTee copies print output to w, in addition to any prior output.
func WithTee(w io.Writer) Option { return teeOption{w} }

// WithCallDepth bounds how deeply quotes may call one another before halting
// with ErrCallDepth; values less than 1 mean DefaultCallDepth.
func WithCallDepth(n int) Option { return callDepthOption(n) }

// WithLogf enables trace logging of every operation through logfn.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return logfnOption(logfn) }

type capacityOption int
type callDepthOption int
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type logfnOption func(mess string, args ...interface{})

func (n capacityOption) apply(s *Stack) {
	size := int(n)
	if size < 1 {
		size = DefaultCapacity
	}
	if size < len(s.values) {
		size = len(s.values)
	}
	values := make([]Value, len(s.values), size)
	copy(values, s.values)
	s.values = values
}

func (n callDepthOption) apply(s *Stack) {
	s.maxDepth = 0
	if n > 0 {
		s.maxDepth = int(n)
	}
}

func (o outputOption) apply(s *Stack) {
	if s.out != nil {
		s.out.Flush()
	}
	s.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(s *Stack) {
	s.out = flushio.WriteFlushers(s.output(), flushio.NewWriteFlusher(o.Writer))
}

func (logfn logfnOption) apply(s *Stack) {
	s.logfn = logfn
}
