package hastack

// Builtins are the primitive operations as named Quotes, under the words
// that invoke them in source.
var Builtins = []*Quote{
	{Name: "+", Proc: Add},
	{Name: "-", Proc: Sub},
	{Name: "*", Proc: Mul},
	{Name: "/", Proc: Div},
	{Name: "<", Proc: Lt},
	{Name: ">", Proc: Gt},
	{Name: "<=", Proc: Lte},
	{Name: ">=", Proc: Gte},
	{Name: "=", Proc: Eq},
	{Name: "not", Proc: Not},
	{Name: ".", Proc: Dup},
	{Name: "<:", Proc: Cons},
	{Name: "print", Proc: Print},
	{Name: "type?", Proc: TypeOf},
	{Name: "~", Proc: Eval},
	{Name: "if", Proc: If},
	{Name: "while", Proc: While},
}

var builtinWords map[string]*Quote

func init() {
	builtinWords = make(map[string]*Quote, len(Builtins))
	for _, q := range Builtins {
		builtinWords[q.Name] = q
	}
}

// Lookup returns the builtin Quote for a word, or nil if there is none.
func Lookup(word string) *Quote { return builtinWords[word] }
