package script

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/jcorbin/hastack"
	"github.com/jcorbin/hastack/internal/fileinput"
	"github.com/jcorbin/hastack/internal/runeio"
)

type nodeType uint8

const (
	literalNode nodeType = iota + 1
	wordNode
	quoteNode
	listNode
)

type node struct {
	typ   nodeType
	loc   fileinput.Location
	value hastack.Value  // literalNode
	word  *hastack.Quote // wordNode
	body  []*node        // quoteNode and listNode
}

// Parser turns source into Programs. Macros defined by one Parse call remain
// available to later calls on the same Parser.
type Parser struct {
	defs map[string][]*node
}

// Program is parsed and compiled source, ready to run on a Stack.
type Program struct {
	Name string
	body []*node
	proc func(s *hastack.Stack)
}

// Parse reads, parses, and compiles all source from r.
func (p *Parser) Parse(name string, r io.Reader) (*Program, error) {
	lex := newLexer(name, r)
	toks, err := lex.all()
	if err != nil {
		return nil, err
	}
	ps := parseState{Parser: p, lex: lex, toks: toks}
	body, err := ps.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok, ok := ps.peek(); ok {
		return nil, ps.errorf(tok.Loc, "unexpected %q", tok.Text)
	}
	for word, def := range ps.staged {
		if p.defs == nil {
			p.defs = make(map[string][]*node, len(ps.staged))
		}
		p.defs[word] = def
	}
	return &Program{Name: name, body: body, proc: compile(body)}, nil
}

// ParseString is a convenience for parsing source held in a string.
func (p *Parser) ParseString(name, src string) (*Program, error) {
	return p.Parse(name, strings.NewReader(src))
}

// Defined reports whether the Parser has a macro with the given name.
func (p *Parser) Defined(name string) bool {
	_, def := p.defs[name]
	return def
}

// Resolve returns the Quote named by a builtin word, or compiles a Quote from
// source rendered by a prior quote literal, e.g. "{1 2 +}". Rendered source
// has its macros expanded, so it is parsed apart from p's macros, and may not
// define any of its own.
func (p *Parser) Resolve(name string) (*hastack.Quote, error) {
	if q := hastack.Lookup(name); q != nil {
		return q, nil
	}
	var isolated Parser
	prog, err := isolated.ParseString(name, name)
	if err != nil {
		return nil, err
	}
	start := fileinput.Location{Name: name, Line: 1, Col: 1}
	if len(isolated.defs) > 0 {
		return nil, &SyntaxError{Loc: start, Msg: "quote may not define macros", Source: name}
	}
	if len(prog.body) != 1 || prog.body[0].typ != quoteNode {
		return nil, &SyntaxError{Loc: start, Msg: "not a quote", Source: name}
	}
	return prog.body[0].quote(), nil
}

// Run executes the program on s, see hastack.Stack.Run.
func (prog *Program) Run(ctx context.Context, s *hastack.Stack) error {
	return s.Run(ctx, prog.proc)
}

// Quote returns the program as a Quote named after it.
func (prog *Program) Quote() *hastack.Quote {
	return &hastack.Quote{Name: prog.Name, Proc: prog.proc}
}

// String renders the program as source, with macros expanded.
func (prog *Program) String() string { return render(prog.body) }

type parseState struct {
	*Parser
	lex    *lexer
	toks   []Token
	i      int
	staged map[string][]*node
}

func (ps *parseState) errorf(loc fileinput.Location, mess string, args ...interface{}) *SyntaxError {
	return ps.lex.errorf(loc, mess, args...)
}

// lookup finds a macro defined so far, preferring ones staged by this parse.
func (ps *parseState) lookup(name string) ([]*node, bool) {
	if body, def := ps.staged[name]; def {
		return body, true
	}
	body, def := ps.defs[name]
	return body, def
}

func (ps *parseState) peek() (Token, bool) {
	if ps.i < len(ps.toks) {
		return ps.toks[ps.i], true
	}
	return Token{}, false
}

func (ps *parseState) next() (Token, bool) {
	tok, ok := ps.peek()
	if ok {
		ps.i++
	}
	return tok, ok
}

// parseExpr parses terms until end of input or a closing token, which is
// left for the caller.
func (ps *parseState) parseExpr() (nodes []*node, err error) {
	for {
		tok, ok := ps.peek()
		if !ok {
			return nodes, nil
		}
		switch {
		case tok.Type == CloseQuoteToken,
			tok.Type == CloseListToken,
			tok.Type == WordToken && tok.Text == "end":
			return nodes, nil
		}
		ps.i++
		more, err := ps.parseTerm(tok)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, more...)
	}
}

func (ps *parseState) parseTerm(tok Token) ([]*node, error) {
	switch tok.Type {
	case IntToken:
		n, err := strconv.Atoi(tok.Text)
		if err != nil {
			return nil, ps.errorf(tok.Loc, "invalid integer %v", tok.Text)
		}
		return ps.literal(tok, hastack.Int(n)), nil

	case CharToken:
		r, err := runeio.UnquoteRune(tok.Text)
		if err != nil {
			return nil, ps.errorf(tok.Loc, "invalid character literal %v", tok.Text)
		}
		return ps.literal(tok, hastack.Char(r)), nil

	case OpenQuoteToken:
		body, err := ps.parseBody(CloseQuoteToken, "unterminated quote definition")
		if err != nil {
			return nil, err
		}
		return []*node{{typ: quoteNode, loc: tok.Loc, body: body}}, nil

	case OpenListToken:
		body, err := ps.parseBody(CloseListToken, "unterminated list definition")
		if err != nil {
			return nil, err
		}
		return []*node{{typ: listNode, loc: tok.Loc, body: body}}, nil

	case WordToken:
		return ps.parseWord(tok)
	}
	return nil, ps.errorf(tok.Loc, "unexpected %q", tok.Text)
}

func (ps *parseState) literal(tok Token, v hastack.Value) []*node {
	return []*node{{typ: literalNode, loc: tok.Loc, value: v}}
}

func (ps *parseState) parseBody(closer TokenType, unterminated string) ([]*node, error) {
	start := ps.toks[ps.i-1]
	body, err := ps.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok, ok := ps.next(); !ok || tok.Type != closer {
		return nil, ps.errorf(start.Loc, "%v", unterminated)
	}
	return body, nil
}

func (ps *parseState) parseWord(tok Token) ([]*node, error) {
	switch tok.Text {
	case "True":
		return ps.literal(tok, hastack.Bool(true)), nil
	case "False":
		return ps.literal(tok, hastack.Bool(false)), nil
	case "define":
		return nil, ps.parseDefine(tok)
	}
	if q := hastack.Lookup(tok.Text); q != nil {
		return []*node{{typ: wordNode, loc: tok.Loc, word: q}}, nil
	}
	if body, def := ps.lookup(tok.Text); def {
		return body, nil
	}
	if r, ok := runeio.ControlWords[tok.Text]; ok {
		return ps.literal(tok, hastack.Char(r)), nil
	}
	return nil, ps.errorf(tok.Loc, "unknown word %q", tok.Text)
}

func (ps *parseState) parseDefine(start Token) error {
	name, ok := ps.next()
	if !ok {
		return ps.errorf(start.Loc, "unterminated macro declaration")
	}
	if name.Type != WordToken {
		return ps.errorf(name.Loc, "invalid macro name %q", name.Text)
	}
	switch name.Text {
	case "True", "False", "define", "end":
		return ps.errorf(name.Loc, "cannot redefine %q", name.Text)
	}
	if hastack.Lookup(name.Text) != nil {
		return ps.errorf(name.Loc, "cannot redefine builtin %q", name.Text)
	}

	body, err := ps.parseExpr()
	if err != nil {
		return err
	}
	if tok, ok := ps.next(); !ok || tok.Type != WordToken || tok.Text != "end" {
		return ps.errorf(start.Loc, "unterminated macro declaration")
	}

	if ps.staged == nil {
		ps.staged = make(map[string][]*node)
	}
	ps.staged[name.Text] = body
	return nil
}
