package hastack

//// Primitive operations
//
// Every primitive is an ordinary func(*Stack), so each one may also be held
// on the stack as a Quote; see Builtins for their names in source.

func (s *Stack) trace(op string) {
	if s.logfn != nil {
		s.logf(">", "%v -- s:%v", op, s.values)
	}
}

//// Integer Operations

// Symbol   Name   Function
//    +     add    pop top 2 elements of stack, add, push
func Add(s *Stack) { s.trace("add"); b, a := s.popInt("add"), s.popInt("add"); s.PushInt(a + b) }

// Symbol   Name   Function
//    -     sub    pop top 2 elements of stack, subtract, push
func Sub(s *Stack) { s.trace("sub"); b, a := s.popInt("sub"), s.popInt("sub"); s.PushInt(a - b) }

// Symbol   Name   Function
//    *     mul    pop top 2 elements of stack, multiply, push
func Mul(s *Stack) { s.trace("mul"); b, a := s.popInt("mul"), s.popInt("mul"); s.PushInt(a * b) }

// Symbol   Name   Function
//    /     div    pop top 2 elements of stack, divide truncating toward zero, push
func Div(s *Stack) {
	s.trace("div")
	b, a := s.popInt("div"), s.popInt("div")
	if b == 0 {
		s.halt(ErrDivideByZero)
	}
	s.PushInt(a / b)
}

//// Comparison Operations

// Symbol   Name   Function
//    <     lt     pop top 2 integers, push True if 2nd < top
func Lt(s *Stack) { s.trace("lt"); b, a := s.popInt("lt"), s.popInt("lt"); s.PushBool(a < b) }

// Symbol   Name   Function
//    >     gt     pop top 2 integers, push True if 2nd > top
func Gt(s *Stack) { s.trace("gt"); b, a := s.popInt("gt"), s.popInt("gt"); s.PushBool(a > b) }

// Symbol   Name   Function
//   <=     lte    pop top 2 integers, push True if 2nd <= top
func Lte(s *Stack) { s.trace("lte"); b, a := s.popInt("lte"), s.popInt("lte"); s.PushBool(a <= b) }

// Symbol   Name   Function
//   >=     gte    pop top 2 integers, push True if 2nd >= top
func Gte(s *Stack) { s.trace("gte"); b, a := s.popInt("gte"), s.popInt("gte"); s.PushBool(a >= b) }

// Symbol   Name   Function
//    =     eq     pop top 2 values of any kind, push True if they are Equal
func Eq(s *Stack) { s.trace("eq"); b, a := s.Pop(), s.Pop(); s.PushBool(Equal(a, b)) }

// Symbol   Name   Function
//   not    not    pop a Bool, push its negation
func Not(s *Stack) { s.trace("not"); s.PushBool(!s.popBool("not")) }

//// Stack Operations

// Symbol   Name   Function
//    .     dup    copy the top of stack; a List is copied deeply, so that
//                 each slot owns its nested stack
func Dup(s *Stack) { s.trace("dup"); a := s.Pop(); s.Push(a); s.Push(clone(a)) }

// Symbol   Name   Function
//   <:     cons   pop a List, then any value; push the List with that value
//                 added at its bottom
func Cons(s *Stack) {
	s.trace("cons")
	list := s.popList("cons")
	a := s.Pop()
	if len(list.values) >= cap(list.values) {
		s.halt(ErrOverflow)
	}
	list.values = append(list.values, nil)
	copy(list.values[1:], list.values)
	list.values[0] = a
	s.Push(List{list})
}

//// Output Operations

// Symbol   Name   Function
//  print   print  pop top of stack and write it on its own line: Int in
//                 decimal, Bool as True or False, Char as its glyph; a List
//                 or Quote is consumed without output
func Print(s *Stack) {
	s.trace("print")
	switch v := s.Pop().(type) {
	case Int, Bool, Char:
		s.haltif(s.writeLine(v.String()))
	}
}

// Symbol   Name   Function
//  type?   type   write the kind of the top of stack on its own line,
//                 leaving the stack unchanged
func TypeOf(s *Stack) {
	s.trace("type")
	v := s.Pop()
	s.Push(v)
	s.haltif(s.writeLine(v.Kind().String()))
}

//// Execution Operations

// Symbol   Name   Function
//    ~     eval   pop a Quote and run it on the stack
func Eval(s *Stack) { s.trace("eval"); s.call(s.popQuote("eval")) }

// Symbol   Name   Function
//   if     if     pop an else Quote, a then Quote, and a Bool; run then if
//                 the Bool is True, else otherwise
func If(s *Stack) {
	s.trace("if")
	otherwise, then := s.popQuote("if"), s.popQuote("if")
	if s.popBool("if") {
		s.call(then)
	} else {
		s.call(otherwise)
	}
}

// Symbol   Name   Function
//  while   while  pop a body Quote and a condition Quote; run the condition,
//                 pop a Bool, and while it is True run the body and repeat
func While(s *Stack) {
	s.trace("while")
	body, cond := s.popQuote("while"), s.popQuote("while")
	for {
		s.call(cond)
		if !s.popBool("while") {
			return
		}
		s.call(body)
	}
}

func (s *Stack) call(q *Quote) {
	s.checkpoint()
	if q == nil || q.Proc == nil {
		return
	}
	limit := s.maxDepth
	if limit == 0 {
		limit = DefaultCallDepth
	}
	if s.depth >= limit {
		s.halt(ErrCallDepth)
	}
	s.depth++
	defer func() { s.depth-- }()
	if s.logfn != nil {
		s.logf("@", "call %v", q)
		defer s.withLogPrefix("	")()
	}
	q.Proc(s)
}
