package hastack

import "errors"

// DefaultCapacity is the capacity of a stack created without WithCapacity.
const DefaultCapacity = 100

// DefaultCallDepth bounds how deeply quotes may call one another, unless
// changed by WithCallDepth.
const DefaultCallDepth = 1000

// Stack is a bounded LIFO sequence of values. Its storage is allocated once,
// with room for exactly its capacity; pushing past that halts with
// ErrOverflow rather than growing.
//
// Push and Pop, along with every operation, halt by panicking: run them
// under Stack.Run to receive the halt as an error. A stack has one owner at
// a time, embedders sharing one must synchronize externally.
type Stack struct {
	core
	values []Value
}

var errNilValue = errors.New("cannot push a nil value")

func (s *Stack) setup() {
	if s.values == nil {
		s.values = make([]Value, 0, DefaultCapacity)
	}
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int { return len(s.values) }

// Cap returns the stack's capacity.
func (s *Stack) Cap() int {
	s.setup()
	return cap(s.values)
}

// Values returns a copy of the stack's values, bottom first.
func (s *Stack) Values() []Value {
	return append([]Value(nil), s.values...)
}

// Reset drops all values from the stack.
func (s *Stack) Reset() {
	for i := range s.values {
		s.values[i] = nil
	}
	s.values = s.values[:0]
}

// Counts returns how many values have been popped from and pushed onto the
// stack since it was created, or since the last ResetCounts.
func (s *Stack) Counts() (pops, pushes int) { return s.pops, s.pushes }

// ResetCounts zeroes the counts returned by Counts.
func (s *Stack) ResetCounts() { s.pops, s.pushes = 0, 0 }

// Nest returns an empty stack, for use as a List, sharing s's capacity and
// output.
func (s *Stack) Nest() *Stack {
	s.setup()
	return &Stack{
		core:   s.core,
		values: make([]Value, 0, cap(s.values)),
	}
}

// Push puts v on top of the stack, halting with ErrOverflow if the stack is
// full; a full stack is left unchanged.
func (s *Stack) Push(v Value) {
	s.setup()
	if v == nil {
		s.halt(errNilValue)
	}
	if len(s.values) >= cap(s.values) {
		s.halt(ErrOverflow)
	}
	s.values = append(s.values, v)
	s.pushes++
}

// Pop removes and returns the top value, halting with ErrUnderflow if the
// stack is empty.
func (s *Stack) Pop() Value {
	i := len(s.values) - 1
	if i < 0 {
		s.halt(ErrUnderflow)
	}
	v := s.values[i]
	s.values[i] = nil
	s.values = s.values[:i]
	s.pops++
	return v
}

// PushInt pushes an Int.
func (s *Stack) PushInt(n int) { s.Push(Int(n)) }

// PushBool pushes a Bool.
func (s *Stack) PushBool(b bool) { s.Push(Bool(b)) }

// PushChar pushes a Char.
func (s *Stack) PushChar(r rune) { s.Push(Char(r)) }

// PushQuote pushes proc as a Quote named after its Go function.
func (s *Stack) PushQuote(proc func(*Stack)) { s.Push(NewQuote(proc)) }

// PushList pushes list as a List value; the pushed value takes ownership of
// list, which the caller must not use afterward. A nil list pushes an empty
// List.
func (s *Stack) PushList(list *Stack) {
	if list == nil {
		list = s.Nest()
	}
	s.Push(List{list})
}

func (s *Stack) popInt(op string) int {
	v := s.Pop()
	n, ok := v.(Int)
	if !ok {
		s.halt(TypeError{op, IntKind, v.Kind()})
	}
	return int(n)
}

func (s *Stack) popBool(op string) bool {
	v := s.Pop()
	b, ok := v.(Bool)
	if !ok {
		s.halt(TypeError{op, BoolKind, v.Kind()})
	}
	return bool(b)
}

func (s *Stack) popQuote(op string) *Quote {
	v := s.Pop()
	q, ok := v.(*Quote)
	if !ok {
		s.halt(TypeError{op, QuoteKind, v.Kind()})
	}
	return q
}

func (s *Stack) popList(op string) *Stack {
	v := s.Pop()
	l, ok := v.(List)
	if !ok {
		s.halt(TypeError{op, ListKind, v.Kind()})
	}
	if l.Stack == nil {
		return s.Nest()
	}
	return l.Stack
}
