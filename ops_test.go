package hastack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOps(t *testing.T) {
	var (
		yes = &Quote{Name: "yes", Proc: func(s *Stack) { s.PushChar('y') }}
		no  = &Quote{Name: "no", Proc: func(s *Stack) { s.PushChar('n') }}

		positive  = &Quote{Name: "positive", Proc: func(s *Stack) { Dup(s); s.PushInt(0); Gt(s) }}
		countdown = &Quote{Name: "countdown", Proc: func(s *Stack) { Dup(s); Print(s); s.PushInt(1); Sub(s) }}
		forever   = &Quote{Name: "forever", Proc: func(s *Stack) { s.PushBool(true) }}
		nothing   = &Quote{Name: "nothing"}
		selfEval  = &Quote{Name: "{. ~}", Proc: func(s *Stack) { Dup(s); Eval(s) }}
	)

	stackTestCases{
		// binary integer operations on the stack
		stackTest("add").withInts(3, 4).do(Add).expectValues(Int(7)),
		stackTest("add under").withInts(1, 3, 4).do(Add).expectValues(Int(1), Int(7)).expectLen(2),
		stackTest("sub").withInts(5, 3, 1).do(Sub).expectValues(Int(5), Int(2)),
		stackTest("mul").withInts(11, 5, 6).do(Mul).expectValues(Int(11), Int(30)),
		stackTest("div").withInts(7, 13, 3).do(Div).expectValues(Int(7), Int(4)),
		stackTest("div negative").withInts(-7, 2).do(Div).expectValues(Int(-3)),
		stackTest("div by zero").withInts(1, 0).do(Div).expectError(ErrDivideByZero),

		// integer operations only take integers
		stackTest("add bool").withValues(Int(3), Bool(true)).do(Add).expectError(ErrTypeMismatch),
		stackTest("add char under").withValues(Char('a'), Int(3)).do(Add).expectError(ErrTypeMismatch),
		stackTest("add quote").withValues(Int(3), yes).do(Add).expectError(ErrTypeMismatch),
		stackTest("add one").withInts(3).do(Add).expectError(ErrUnderflow),

		// comparisons
		stackTest("lt").withInts(1, 2).do(Lt).expectValues(Bool(true)),
		stackTest("lt equal").withInts(2, 2).do(Lt).expectValues(Bool(false)),
		stackTest("gt").withInts(1, 2).do(Gt).expectValues(Bool(false)),
		stackTest("lte").withInts(2, 2).do(Lte).expectValues(Bool(true)),
		stackTest("gte").withInts(1, 2).do(Gte).expectValues(Bool(false)),
		stackTest("lt char").withValues(Char('a'), Char('b')).do(Lt).expectError(ErrTypeMismatch),

		stackTest("eq ints").withInts(4, 4).do(Eq).expectValues(Bool(true)),
		stackTest("eq kinds").withValues(Int(97), Char('a')).do(Eq).expectValues(Bool(false)),
		stackTest("eq chars").withValues(Char('a'), Char('a')).do(Eq).expectValues(Bool(true)),
		stackTest("eq lists").do(pushList(Int(1), Char('x')), pushList(Int(1), Char('x')), Eq).expectValues(Bool(true)),
		stackTest("eq lists differ").do(pushList(Int(1)), pushList(Int(1), Int(2)), Eq).expectValues(Bool(false)),
		stackTest("eq same quote").withValues(yes, yes).do(Eq).expectValues(Bool(true)),
		stackTest("eq other quote").withValues(yes, no).do(Eq).expectValues(Bool(false)),

		stackTest("not").withValues(Bool(false)).do(Not).expectValues(Bool(true)),
		stackTest("not int").withInts(0).do(Not).expectError(ErrTypeMismatch),

		// stack shuffling
		stackTest("dup").withInts(1, 2).do(Dup).expectValues(Int(1), Int(2), Int(2)),
		stackTest("dup empty").do(Dup).expectError(ErrUnderflow),
		stackTest("dup full").withCapacity(2).withInts(1, 2).do(Dup).expectError(ErrOverflow),
		stackTest("dup list owns a copy").do(pushList(Int(1)), Dup, func(s *Stack) {
			list := s.Pop().(List)
			list.PushInt(2)
			s.Push(list)
		}).expectRepr("[[1] [1 2]]"),

		stackTest("cons").do(push(Int(1)), pushList(Int(2), Int(3)), Cons).expectRepr("[[1 2 3]]"),
		stackTest("cons empty").do(push(Char('a')), pushList(), Cons).expectRepr("[['a']]"),
		stackTest("cons list").do(pushList(Int(1)), pushList(), Cons).expectRepr("[[[1]]]"),
		stackTest("cons onto int").withInts(1, 2).do(Cons).expectError(ErrTypeMismatch),
		stackTest("cons full").withCapacity(2).do(push(Int(1)), pushList(Int(2), Int(3)), Cons).expectError(ErrOverflow),

		// output
		stackTest("print int").withInts(5).do(Print).expectOutput("5\n").expectLen(0),
		stackTest("print negative").withInts(-12).do(Print).expectOutput("-12\n"),
		stackTest("print true").withValues(Bool(true)).do(Print).expectOutput("True\n"),
		stackTest("print false").withValues(Bool(false)).do(Print).expectOutput("False\n"),
		stackTest("print char").withValues(Char('x')).do(Print).expectOutput("x\n"),
		stackTest("print wide char").withValues(Char('世')).do(Print).expectOutput("世\n"),
		stackTest("print list").do(pushList(Int(1)), Print).expectOutput("").expectLen(0),
		stackTest("print quote").withValues(yes).do(Print).expectOutput("").expectLen(0),
		stackTest("print empty").do(Print).expectError(ErrUnderflow).expectOutput(""),
		stackTest("print then halt").withInts(1, 2).do(Print, Print, Print).expectError(ErrUnderflow).expectOutput("2\n1\n"),

		stackTest("type").withInts(4).do(TypeOf).expectOutput("Int\n").expectValues(Int(4)),
		stackTest("type list").do(pushList(), TypeOf).expectOutput("List\n").expectLen(1),

		// execution
		stackTest("eval builtin").withInts(3, 4).do(push(Lookup("+")), Eval).expectValues(Int(7)),
		stackTest("eval int").withInts(1).do(Eval).expectError(ErrTypeMismatch),
		stackTest("eval empty quote").withInts(1).do(push(nothing), Eval).expectValues(Int(1)),
		stackTest("eval nested").withInts(2).do(
			push(&Quote{Name: "outer", Proc: func(s *Stack) { s.Push(yes); Eval(s) }}),
			Eval,
		).expectValues(Int(2), Char('y')),

		stackTest("eval self").withValues(selfEval).do(Dup, Eval).expectError(ErrCallDepth),
		stackTest("eval self shallow").withOptions(WithCallDepth(10)).withValues(selfEval).do(Dup, Eval).
			expectError(ErrCallDepth),

		stackTest("if then").withValues(Bool(true), yes, no).do(If).expectValues(Char('y')),
		stackTest("if else").withValues(Bool(false), yes, no).do(If).expectValues(Char('n')),
		stackTest("if int").withValues(Int(1), yes, no).do(If).expectError(ErrTypeMismatch),

		stackTest("while countdown").withInts(3).withValues(positive, countdown).do(While).
			expectOutput("3\n2\n1\n").expectValues(Int(0)),
		stackTest("while never").withInts(0).withValues(positive, countdown).do(While).
			expectOutput("").expectValues(Int(0)),
		stackTest("while int condition").withValues(&Quote{Name: "one", Proc: func(s *Stack) { s.PushInt(1) }}, nothing).
			do(While).expectError(ErrTypeMismatch),
		stackTest("while forever").withValues(forever, nothing).do(While).
			withTimeout(20*time.Millisecond).expectError(context.DeadlineExceeded),
	}.run(t)
}

func TestOps_callDepth(t *testing.T) {
	var deepen *Quote
	deepen = &Quote{Name: "deepen", Proc: func(s *Stack) {
		s.PushInt(1)
		Add(s)
		s.Push(deepen)
		Eval(s)
	}}

	s := New(WithCallDepth(3))
	s.PushInt(0)
	s.Push(deepen)
	err := s.Run(context.Background(), Eval)
	require.True(t, errors.Is(err, ErrCallDepth), "expected call depth error, got %v", err)
	assert.Equal(t, []Value{Int(3)}, s.Values(), "three calls ran before the bound")

	s.Reset()
	s.Push(&Quote{Name: "{1}", Proc: func(s *Stack) { s.PushInt(1) }})
	require.NoError(t, s.Run(context.Background(), Eval), "depth unwinds after a halt")
	assert.Equal(t, []Value{Int(1)}, s.Values())
}

func TestStack_counts(t *testing.T) {
	s := New()
	require.NoError(t, s.Run(context.Background(), func(s *Stack) {
		s.PushInt(1)
		s.PushInt(2)
		Add(s)
		Dup(s)
	}))
	pops, pushes := s.Counts()
	assert.Equal(t, 3, pops)
	assert.Equal(t, 5, pushes)

	s.ResetCounts()
	pops, pushes = s.Counts()
	assert.Equal(t, 0, pops)
	assert.Equal(t, 0, pushes)
}
