package hastack

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jcorbin/hastack/internal/flushio"
	"github.com/jcorbin/hastack/internal/panicerr"
	"github.com/jcorbin/hastack/internal/runeio"
)

// core is the machinery shared by a stack and the lists nested within it.
type core struct {
	logging
	out flushio.WriteFlusher
	ctx context.Context

	depth    int
	maxDepth int

	pops   int
	pushes int
}

func (c *core) output() flushio.WriteFlusher {
	if c.out == nil {
		c.out = flushio.NewWriteFlusher(os.Stdout)
	}
	return c.out
}

func (c *core) writeLine(s string) error {
	out := c.output()
	if _, err := runeio.WriteLine(out, s); err != nil {
		return err
	}
	return out.Flush()
}

func (s *Stack) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if s.out != nil {
			if ferr := s.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		s.logf("#", "halt error: %v", err)
	}()

	panicerr.Halt(err)
}

func (s *Stack) haltif(err error) {
	if err != nil {
		s.halt(err)
	}
}

// checkpoint halts if the context of the current Run is done.
func (s *Stack) checkpoint() {
	if s.ctx != nil {
		s.haltif(s.ctx.Err())
	}
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
