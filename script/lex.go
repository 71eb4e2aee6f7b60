package script

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jcorbin/hastack/internal/fileinput"
)

// TokenType classifies a Token.
type TokenType uint8

// Token types.
const (
	IntToken TokenType = iota + 1
	CharToken
	WordToken
	OpenQuoteToken
	CloseQuoteToken
	OpenListToken
	CloseListToken
)

var tokenTypeNames = [...]string{
	IntToken:        "Int",
	CharToken:       "Char",
	WordToken:       "Word",
	OpenQuoteToken:  "OpenQuote",
	CloseQuoteToken: "CloseQuote",
	OpenListToken:   "OpenList",
	CloseListToken:  "CloseList",
}

func (tt TokenType) String() string {
	if int(tt) < len(tokenTypeNames) && tokenTypeNames[tt] != "" {
		return tokenTypeNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", uint8(tt))
}

// Token is a lexical unit of source, along with where it started.
type Token struct {
	Type TokenType
	Text string
	Loc  fileinput.Location
}

func (tok Token) String() string { return fmt.Sprintf("[%v:%q]", tok.Type, tok.Text) }

// SyntaxError reports malformed source at a location. Source holds the text
// of the offending line, when known, and is shown by the %+v format.
type SyntaxError struct {
	Loc    fileinput.Location
	Msg    string
	Source string
}

func (se *SyntaxError) Error() string { return fmt.Sprint(se) }

func (se *SyntaxError) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "%v: %v", se.Loc, se.Msg)
	if c == 'v' && f.Flag('+') && se.Source != "" {
		fmt.Fprintf(f, "\n\t%v\n\t%v^", se.Source, caretPad(se.Source, se.Loc.Col))
	}
}

// caretPad returns blanks spanning the runes of line before column col,
// keeping any tabs so that a caret lines up beneath it.
func caretPad(line string, col int) string {
	var sb strings.Builder
	for _, r := range line {
		if col--; col < 1 {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}

func syntaxErrorf(loc fileinput.Location, mess string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Loc: loc, Msg: fmt.Sprintf(mess, args...)}
}

// Lex splits source read from r into tokens; name is used in their locations.
func Lex(name string, r io.Reader) ([]Token, error) {
	lex := newLexer(name, r)
	return lex.all()
}

func newLexer(name string, r io.Reader) *lexer {
	return &lexer{in: fileinput.Input{Queue: []io.Reader{fileinput.Named(name, r)}}}
}

type lexer struct {
	in    fileinput.Input
	toks  []Token
	lines []string
}

// readRune reads through the input, collecting each line as it completes.
func (lex *lexer) readRune() (rune, int, error) {
	r, n, err := lex.in.ReadRune()
	if last := lex.in.Last; last.Line == len(lex.lines)+1 {
		lex.lines = append(lex.lines, last.Buffer.String())
	}
	return r, n, err
}

// line returns the text of the numbered source line, which may still be
// partially scanned.
func (lex *lexer) line(n int) string {
	if n >= 1 && n <= len(lex.lines) {
		return lex.lines[n-1]
	}
	if lex.in.Scan.Line == n {
		return lex.in.Scan.Buffer.String()
	}
	return ""
}

func (lex *lexer) errorf(loc fileinput.Location, mess string, args ...interface{}) *SyntaxError {
	se := syntaxErrorf(loc, mess, args...)
	se.Source = lex.line(loc.Line)
	return se
}

func (lex *lexer) all() ([]Token, error) {
	for {
		r, _, err := lex.readRune()
		if err == io.EOF {
			return lex.toks, nil
		} else if err != nil {
			return lex.toks, err
		}
		loc := lex.in.Location()

		switch {
		case unicode.IsSpace(r):
		case isDigit(r):
			err = lex.run(IntToken, loc, r, isDigit)
		case r == '\'':
			err = lex.char(loc)
		case r == '{':
			lex.emit(OpenQuoteToken, loc, "{")
		case r == '}':
			lex.emit(CloseQuoteToken, loc, "}")
		case r == '[':
			lex.emit(OpenListToken, loc, "[")
		case r == ']':
			lex.emit(CloseListToken, loc, "]")
		default:
			err = lex.run(WordToken, loc, r, isWordRune)
		}
		if err != nil {
			return lex.toks, err
		}
	}
}

func (lex *lexer) emit(tt TokenType, loc fileinput.Location, text string) {
	lex.toks = append(lex.toks, Token{tt, text, loc})
}

// run scans a token made of first and any following runes matching in.
func (lex *lexer) run(tt TokenType, loc fileinput.Location, first rune, in func(rune) bool) error {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		r, _, err := lex.readRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		if !in(r) {
			lex.in.UnreadRune()
			break
		}
		sb.WriteRune(r)
	}
	lex.emit(tt, loc, sb.String())
	return nil
}

// char scans a quoted character literal through its closing quote; escapes
// are left for the parser to interpret.
func (lex *lexer) char(loc fileinput.Location) error {
	var sb strings.Builder
	sb.WriteRune('\'')
	escaped := false
	for {
		r, _, err := lex.readRune()
		if err == io.EOF || r == '\n' {
			return lex.errorf(loc, "unterminated character literal")
		} else if err != nil {
			return err
		}
		sb.WriteRune(r)
		if r == '\'' && !escaped {
			break
		}
		escaped = !escaped && r == '\\'
	}
	lex.emit(CharToken, loc, sb.String())
	return nil
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isWordRune(r rune) bool {
	switch r {
	case '{', '}', '[', ']':
		return false
	}
	return !unicode.IsSpace(r) && !isDigit(r)
}
