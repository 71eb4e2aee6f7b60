package fileinput

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jcorbin/hastack/internal/runeio"
)

// Location names a position in an Input file.
type Location struct {
	Name string
	Line int
	Col  int
}

// Line combines a Location along with a bytes.Buffer for handling it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v:%v", loc.Name, loc.Line, loc.Col) }
func (il Line) String() string      { return fmt.Sprintf("%v:%v %q", il.Name, il.Line, il.Buffer.String()) }

// Input implements sequential rune reading through a Queue of one or more
// input streams. Both the current and last scanned lines are tracked to
// facilitate user feedback, along with the location of each rune.
// One rune may be pushed back with UnreadRune.
type Input struct {
	rr    io.RuneReader
	Queue []io.Reader
	Last  Line
	Scan  Line

	pos     Location
	prior   Location
	pending bool
	last    rune
	lastN   int
}

// Location returns the location of the rune most recently read.
func (in *Input) Location() Location {
	return in.prior
}

// ReadRune reads one rune from the current input stream, appending it into the
// current Scan line, and rolling Scan over to Last after line feed.
func (in *Input) ReadRune() (rune, int, error) {
	if in.pending {
		in.pending = false
		in.advance(in.last)
		return in.last, in.lastN, nil
	}

	for {
		if in.rr == nil && !in.nextIn() {
			return 0, 0, io.EOF
		}

		r, n, err := in.rr.ReadRune()
		if n > 0 {
			if r == '\n' {
				in.nextLine()
			} else {
				in.Scan.WriteRune(r)
			}
			in.last, in.lastN = r, n
			in.advance(r)
			return r, n, nil
		}
		if err == nil {
			continue
		}
		if err != io.EOF {
			return 0, 0, err
		}
		in.closeIn()
		if len(in.Queue) == 0 {
			return 0, 0, io.EOF
		}
	}
}

// UnreadRune pushes back the last rune read, restoring its location.
func (in *Input) UnreadRune() error {
	if in.pending || in.lastN == 0 {
		return errNoUnread
	}
	in.pending = true
	in.pos = in.prior
	return nil
}

var errNoUnread = errors.New("fileinput: no rune to unread")

func (in *Input) advance(r rune) {
	in.prior = in.pos
	if r == '\n' {
		in.pos.Line++
		in.pos.Col = 1
	} else {
		in.pos.Col++
	}
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) closeIn() {
	if in.Scan.Len() > 0 {
		in.nextLine()
	}
	if in.rr != nil {
		if cl, ok := in.rr.(io.Closer); ok {
			cl.Close()
		}
		in.rr = nil
	}
	in.lastN = 0
}

func (in *Input) nextIn() bool {
	in.closeIn()
	if len(in.Queue) > 0 {
		r := in.Queue[0]
		in.Queue = in.Queue[1:]
		in.rr = runeio.NewReader(r)
		in.Scan.Name = nameOf(r)
		in.Scan.Line = 1
		in.pos = Location{Name: in.Scan.Name, Line: 1, Col: 1}
		in.prior = in.pos
	}
	return in.rr != nil
}

// Named attaches a name to a reader, used for the Location of its runes.
func Named(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
