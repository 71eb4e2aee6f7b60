package script

import (
	"errors"
	"fmt"

	"github.com/jcorbin/hastack"
	"github.com/jcorbin/hastack/internal/fileinput"
)

// ErrUnhandledData is reported for programs that leave values on the stack.
var ErrUnhandledData = errors.New("unhandled data on the stack")

// CheckError reports a failure that Check found before running a program.
type CheckError struct {
	Loc fileinput.Location
	Err error
}

func (ce *CheckError) Error() string {
	if ce.Loc == (fileinput.Location{}) {
		return ce.Err.Error()
	}
	return fmt.Sprintf("%v: %v", ce.Loc, ce.Err)
}

func (ce *CheckError) Unwrap() error { return ce.Err }

// Check follows quote evaluation at most maxCheckDepth deep, and visits at
// most maxCheckWork terms in all; past either, as with any quote whose source
// is unknown, checking gives up.
const (
	maxCheckDepth = 64
	maxCheckWork  = 100000
)

// anyKind stands for a value whose kind is not known statically.
const anyKind hastack.Kind = 0xff

// shape is the static view of one stack value.
type shape struct {
	kind  hastack.Kind
	quote *node // source of a quote literal
	loc   fileinput.Location
}

// Residue is the stack Check expects a program to leave behind.
type Residue struct {
	known  bool
	shapes []shape
}

// Known reports whether checking followed the whole program; it does not
// when the program evaluates a quote of unknown source.
func (r Residue) Known() bool { return r.known }

// Kinds returns the kinds expected on the stack, bottom first.
func (r Residue) Kinds() []hastack.Kind {
	kinds := make([]hastack.Kind, len(r.shapes))
	for i, sh := range r.shapes {
		kinds[i] = sh.kind
	}
	return kinds
}

// Leftover returns an error located at the top value left behind, if any.
func (r Residue) Leftover() error {
	if !r.known || len(r.shapes) == 0 {
		return nil
	}
	return &CheckError{Loc: r.shapes[len(r.shapes)-1].loc, Err: ErrUnhandledData}
}

// Check runs the program over the kinds of its values rather than the values
// themselves, starting from a stack holding vals. It finds type mismatches
// and underflows without running anything; evaluated quote literals are
// followed inline, other quotes stop the check with an unknown Residue.
func (prog *Program) Check(vals []hastack.Value) (Residue, error) {
	work := maxCheckWork
	ck := checker{work: &work}
	for _, v := range vals {
		ck.stack = append(ck.stack, shape{kind: v.Kind()})
	}
	if err := ck.exprs(prog.body); err != nil {
		return Residue{}, err
	}
	return Residue{known: !ck.lost, shapes: ck.stack}, nil
}

type checker struct {
	stack []shape
	lost  bool
	depth int
	work  *int
}

func (ck *checker) sub(stack []shape) *checker {
	return &checker{stack: stack, depth: ck.depth, work: ck.work}
}

func (ck *checker) exprs(nodes []*node) error {
	for _, n := range nodes {
		if *ck.work--; *ck.work < 0 {
			ck.lost = true
		}
		if ck.lost {
			return nil
		}
		if err := ck.node(n); err != nil {
			return err
		}
	}
	return nil
}

func (ck *checker) push(shs ...shape) { ck.stack = append(ck.stack, shs...) }

func (ck *checker) node(n *node) error {
	switch n.typ {
	case literalNode:
		ck.push(shape{kind: n.value.Kind(), loc: n.loc})
	case quoteNode:
		ck.push(shape{kind: hastack.QuoteKind, quote: n, loc: n.loc})
	case listNode:
		list := ck.sub(nil)
		if err := list.exprs(n.body); err != nil {
			return err
		}
		ck.push(shape{kind: hastack.ListKind, loc: n.loc})
	case wordNode:
		return ck.word(n)
	}
	return nil
}

// pop removes len(want) values, checking them from the top down as the
// operations themselves do.
func (ck *checker) pop(n *node, want ...hastack.Kind) ([]shape, error) {
	for j := range want {
		i := len(ck.stack) - 1 - j
		if i < 0 {
			return nil, &CheckError{Loc: n.loc, Err: fmt.Errorf("%w: %v expected %v values, got %v",
				hastack.ErrUnderflow, n.word.Name, len(want), len(ck.stack))}
		}
		w, got := want[len(want)-1-j], ck.stack[i].kind
		if w != anyKind && got != anyKind && got != w {
			return nil, &CheckError{Loc: n.loc, Err: hastack.TypeError{Op: n.word.Name, Want: w, Got: got}}
		}
	}
	i := len(ck.stack) - len(want)
	args := append([]shape(nil), ck.stack[i:]...)
	ck.stack = ck.stack[:i]
	return args, nil
}

func (ck *checker) word(n *node) error {
	var (
		args []shape
		err  error
		at   = shape{loc: n.loc}
	)
	switch n.word.Name {
	case "+", "-", "*", "/":
		_, err = ck.pop(n, hastack.IntKind, hastack.IntKind)
		at.kind = hastack.IntKind
	case "<", ">", "<=", ">=":
		_, err = ck.pop(n, hastack.IntKind, hastack.IntKind)
		at.kind = hastack.BoolKind
	case "=":
		_, err = ck.pop(n, anyKind, anyKind)
		at.kind = hastack.BoolKind
	case "not":
		_, err = ck.pop(n, hastack.BoolKind)
		at.kind = hastack.BoolKind
	case "<:":
		_, err = ck.pop(n, anyKind, hastack.ListKind)
		at.kind = hastack.ListKind
	case ".":
		if args, err = ck.pop(n, anyKind); err == nil {
			ck.push(args[0], args[0])
		}
		return err
	case "type?":
		if args, err = ck.pop(n, anyKind); err == nil {
			ck.push(args[0])
		}
		return err
	case "print":
		_, err = ck.pop(n, anyKind)
		return err
	case "~":
		if args, err = ck.pop(n, hastack.QuoteKind); err == nil {
			err = ck.eval(args[0])
		}
		return err
	case "if":
		if args, err = ck.pop(n, hastack.BoolKind, hastack.QuoteKind, hastack.QuoteKind); err == nil {
			err = ck.ifElse(args[1], args[2])
		}
		return err
	case "while":
		if args, err = ck.pop(n, hastack.QuoteKind, hastack.QuoteKind); err == nil {
			err = ck.while(n, args[0], args[1])
		}
		return err
	default:
		ck.lost = true
		return nil
	}
	if err == nil {
		ck.push(at)
	}
	return err
}

// branch checks q evaluated on a copy of the current stack.
func (ck *checker) branch(q shape) (*checker, error) {
	sub := ck.sub(append([]shape(nil), ck.stack...))
	return sub, sub.eval(q)
}

func (ck *checker) eval(q shape) error {
	if q.quote == nil || ck.depth >= maxCheckDepth {
		ck.lost = true
		return nil
	}
	ck.depth++
	defer func() { ck.depth-- }()
	return ck.exprs(q.quote.body)
}

func (ck *checker) ifElse(then, otherwise shape) error {
	a, err := ck.branch(then)
	if err != nil {
		return err
	}
	b, err := ck.branch(otherwise)
	if err != nil {
		return err
	}
	if a.lost || b.lost || len(a.stack) != len(b.stack) {
		ck.lost = true
		return nil
	}
	ck.stack = a.stack
	for i := range ck.stack {
		if ck.stack[i].kind != b.stack[i].kind {
			ck.stack[i] = shape{kind: anyKind, loc: ck.stack[i].loc}
		} else if ck.stack[i].quote != b.stack[i].quote {
			ck.stack[i].quote = nil
		}
	}
	return nil
}

// while checks one pass through the loop; the stack after the loop is known
// only when the body leaves the stack as the condition found it.
func (ck *checker) while(n *node, cond, body shape) error {
	c, err := ck.branch(cond)
	if err != nil || c.lost {
		ck.lost = c.lost
		return err
	}
	if _, err := c.pop(n, hastack.BoolKind); err != nil {
		return err
	}
	b, err := c.branch(body)
	if err != nil {
		return err
	}
	if b.lost || !sameShapes(b.stack, ck.stack) {
		ck.lost = true
		return nil
	}
	ck.stack = c.stack
	return nil
}

func sameShapes(a, b []shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].kind != b[i].kind || a[i].quote != b[i].quote {
			return false
		}
	}
	return true
}
