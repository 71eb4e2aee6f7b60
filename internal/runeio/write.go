package runeio

import (
	"io"
	"unicode/utf8"
)

// WriteRune writes a single rune to the given writer in utf8 form, using the
// most specific write method the writer provides.
func WriteRune(w io.Writer, r rune) (n int, err error) {
	type runeWriter interface {
		WriteRune(r rune) (n int, err error)
	}
	if r < utf8.RuneSelf {
		if bw, ok := w.(io.ByteWriter); ok {
			return 1, bw.WriteByte(byte(r))
		}
		return w.Write([]byte{byte(r)})
	}
	if rw, ok := w.(runeWriter); ok {
		return rw.WriteRune(r)
	}
	if sw, ok := w.(io.StringWriter); ok {
		return sw.WriteString(string(r))
	}
	return w.Write([]byte(string(r)))
}

// WriteLine writes s followed by a single newline.
func WriteLine(w io.Writer, s string) (n int, err error) {
	if sw, ok := w.(io.StringWriter); ok {
		n, err = sw.WriteString(s)
	} else {
		n, err = w.Write([]byte(s))
	}
	if err != nil {
		return n, err
	}
	m, err := WriteRune(w, '\n')
	return n + m, err
}
