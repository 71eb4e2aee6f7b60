package hastack

import (
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/jcorbin/hastack/internal/runeio"
)

// Kind discriminates the variants of Value.
type Kind uint8

// Value kinds.
const (
	IntKind Kind = iota
	BoolKind
	CharKind
	ListKind
	QuoteKind
)

var kindNames = [...]string{
	IntKind:   "Int",
	BoolKind:  "Bool",
	CharKind:  "Char",
	ListKind:  "List",
	QuoteKind: "Quote",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged stack value: one of Int, Bool, Char, List, or *Quote.
// The set is closed; no other package may add variants.
type Value interface {
	Kind() Kind
	String() string
	value()
}

// Int is an integer value.
type Int int

// Bool is a boolean value.
type Bool bool

// Char is a single character value.
type Char rune

// List is a stack nested as a value. The nested stack is owned by whichever
// stack slot holds the List.
type List struct{ *Stack }

// Quote is deferred behavior over a stack. Quotes are shared by reference,
// never owned by the stack that holds them.
type Quote struct {
	Name string
	Proc func(s *Stack)
}

func (Int) Kind() Kind    { return IntKind }
func (Bool) Kind() Kind   { return BoolKind }
func (Char) Kind() Kind   { return CharKind }
func (List) Kind() Kind   { return ListKind }
func (*Quote) Kind() Kind { return QuoteKind }

func (Int) value()    {}
func (Bool) value()   {}
func (Char) value()   {}
func (List) value()   {}
func (*Quote) value() {}

func (n Int) String() string { return strconv.Itoa(int(n)) }

func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}

func (c Char) String() string { return string(rune(c)) }

func (l List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range l.elems() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(Literal(v))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (q *Quote) String() string {
	if q.Name != "" {
		return q.Name
	}
	return "{?}"
}

// Literal renders v the way it would be written in source.
func Literal(v Value) string {
	if c, ok := v.(Char); ok {
		return runeio.QuoteRune(rune(c))
	}
	return v.String()
}

// NewQuote wraps a procedure as a Quote named after its Go function.
func NewQuote(proc func(s *Stack)) *Quote {
	return &Quote{Name: funcName(proc), Proc: proc}
}

func funcName(proc func(s *Stack)) string {
	if proc == nil {
		return ""
	}
	name := runtime.FuncForPC(reflect.ValueOf(proc).Pointer()).Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Equal reports whether two values are structurally equal: scalars by value,
// lists element-wise, and quotes by identity.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case List:
		bv, ok := b.(List)
		if !ok {
			return false
		}
		as, bs := av.elems(), bv.elems()
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func (l List) elems() []Value {
	if l.Stack == nil {
		return nil
	}
	return l.Stack.values
}

// clone deep copies a value, so that a copied List owns its own nested stack.
func clone(v Value) Value {
	l, ok := v.(List)
	if !ok || l.Stack == nil {
		return v
	}
	dup := l.Stack.Nest()
	dup.values = dup.values[:len(l.Stack.values)]
	for i, el := range l.Stack.values {
		dup.values[i] = clone(el)
	}
	return List{dup}
}
