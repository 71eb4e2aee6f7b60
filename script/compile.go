package script

import (
	"strings"

	"github.com/jcorbin/hastack"
	"github.com/jcorbin/hastack/internal/fileinput"
)

func compile(nodes []*node) func(s *hastack.Stack) {
	procs := make([]func(s *hastack.Stack), 0, len(nodes))
	for _, n := range nodes {
		procs = append(procs, n.compile())
	}
	return func(s *hastack.Stack) {
		for _, proc := range procs {
			proc(s)
		}
	}
}

func (n *node) compile() func(s *hastack.Stack) {
	switch n.typ {
	case literalNode:
		v := n.value
		return func(s *hastack.Stack) { s.Push(v) }

	case wordNode:
		return n.word.Proc

	case quoteNode:
		q := n.quote()
		return func(s *hastack.Stack) { s.Push(q) }

	case listNode:
		body := compile(n.body)
		return func(s *hastack.Stack) {
			list := s.Nest()
			body(list)
			s.PushList(list)
		}
	}
	panic("invalid script node")
}

// quote builds the Quote pushed by a quote literal; every evaluation of the
// literal pushes the same Quote.
func (n *node) quote() *hastack.Quote {
	return &hastack.Quote{Name: n.String(), Proc: compile(n.body)}
}

func (n *node) String() string {
	switch n.typ {
	case literalNode:
		return hastack.Literal(n.value)
	case wordNode:
		return n.word.Name
	case quoteNode:
		return "{" + render(n.body) + "}"
	case listNode:
		return "[" + render(n.body) + "]"
	}
	return "<invalid>"
}

func render(nodes []*node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(n.String())
	}
	return sb.String()
}

// Step is one top-level term of a program, for running a program piecewise.
type Step struct {
	Loc    fileinput.Location
	Source string
	Proc   func(s *hastack.Stack)
}

// Steps returns the program's top-level terms in order, with any macros
// expanded.
func (prog *Program) Steps() []Step {
	steps := make([]Step, len(prog.body))
	for i, n := range prog.body {
		steps[i] = Step{Loc: n.loc, Source: n.String(), Proc: n.compile()}
	}
	return steps
}
