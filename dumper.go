package hastack

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Dump writes a boxed rendering of the stack to w, top first:
//
//	  -------
//	  |  2  |
//	  -------
//	  |  1  |
//	  -------
func (s *Stack) Dump(w io.Writer) error {
	return stackDumper{s: s, out: w}.dump()
}

type stackDumper struct {
	s   *Stack
	out io.Writer

	padding int
	indent  string
}

func (dump stackDumper) dump() error {
	if dump.padding == 0 {
		dump.padding = 3
	}
	if dump.indent == "" {
		dump.indent = "  "
	}

	reprs := make([]string, len(dump.s.values))
	width := 0
	for i, v := range dump.s.values {
		reprs[len(reprs)-1-i] = Literal(v)
		if n := utf8.RuneCountInString(reprs[len(reprs)-1-i]); n > width {
			width = n
		}
	}
	width += dump.padding

	var buf strings.Builder
	rule := dump.indent + strings.Repeat("-", width+4) + "\n"
	if len(reprs) == 0 {
		buf.WriteString(rule)
		buf.WriteString(dump.indent + "| " + strings.Repeat(" ", width) + " |\n")
	}
	for _, repr := range reprs {
		buf.WriteString(rule)
		buf.WriteString(dump.indent + "| " + center(repr, width) + " |\n")
	}
	buf.WriteString(rule)

	_, err := io.WriteString(dump.out, buf.String())
	return err
}

func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
