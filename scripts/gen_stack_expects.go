// Command gen_stack_expects generates curried wrappers for the expect* and
// with* builder methods of a test case type, so that expectations can be
// listed as values and applied later:
//
//	go run scripts/gen_stack_expects.go -- stack_test.go stack_expects_test.go
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

var (
	in  namedReader    = os.Stdin
	out io.WriteCloser = os.Stdout

	pkgName  = flag.String("package", "hastack", "package name of the generated file")
	caseType = flag.String("type", "stackTestCase", "test case builder type")
	recvName = flag.String("recv", "st", "receiver name of the builder methods")
	infix    = flag.String("infix", "Stack", "infix inserted into each wrapper name")
)

func parseFlags() {
	flag.Parse()

	args := flag.Args()

	if len(args) > 0 {
		name := args[0]
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("failed to open %v: %v", name, err)
		}
		args = args[1:]
		in = f
	}

	if len(args) > 0 {
		name := args[0]
		f, err := os.Create(name)
		if err != nil {
			log.Fatalf("failed to create %v: %v", name, err)
		}
		args = args[1:]
		out = f
	}
}

func main() {
	ctx := context.Background()
	parseFlags()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	ready := make(chan struct{})

	eg.Go(func() error {
		gofmt := exec.CommandContext(ctx, "goimports")
		fmtPipe, err := gofmt.StdinPipe()
		if err != nil {
			return err
		}

		defer out.Close()
		gofmt.Stdout = out
		gofmt.Stderr = os.Stderr

		out = fmtPipe

		close(ready)
		if err := gofmt.Run(); err != nil {
			return fmt.Errorf("goimports run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ready:
		}

		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			if cerr := out.Close(); rerr == nil {
				rerr = cerr
			}
		}()

		gen := generator{
			typ:   *caseType,
			recv:  *recvName,
			infix: *infix,
		}
		return gen.run(ctx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

type generator struct {
	typ   string
	recv  string
	infix string

	buf bytes.Buffer
}

func (gen *generator) pattern() *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`func \(%s %s\) (expect|with)(.+?)\((.+?)\) %s`,
		regexp.QuoteMeta(gen.recv),
		regexp.QuoteMeta(gen.typ),
		regexp.QuoteMeta(gen.typ)))
}

func (gen *generator) header() {
	gen.buf.Grow(1024)
	fmt.Fprintf(&gen.buf, "package %s\n\n", *pkgName)
	fmt.Fprintf(&gen.buf, "// @generated from %s\n\n", in.Name())
	if args := flag.Args(); len(args) >= 2 {
		gen.buf.WriteString("//go:generate go run scripts/gen_stack_expects.go --")
		for _, arg := range args {
			gen.buf.WriteByte(' ')
			gen.buf.WriteString(arg)
		}
		gen.buf.WriteString("\n\n")
	}
}

// wrapper writes a function that curries one builder method, e.g.
//
//	func expectStackLen(n int) func(stackTestCase) stackTestCase
func (gen *generator) wrapper(baseName, whatName, args []byte) {
	fmt.Fprintf(&gen.buf, "func %s%s%s(%s) func(%s) %s {\n",
		baseName, gen.infix, whatName, args, gen.typ, gen.typ)
	fmt.Fprintf(&gen.buf, "\treturn func(%s %s) %s {\n", gen.recv, gen.typ, gen.typ)
	fmt.Fprintf(&gen.buf, "\t\treturn %s.%s%s(", gen.recv, baseName, whatName)
	for i, part := range bytes.Split(args, []byte(",")) {
		if i > 0 {
			gen.buf.WriteString(", ")
		}
		fields := bytes.Fields(bytes.Trim(part, " "))
		gen.buf.Write(fields[0])
		if len(fields) > 1 && bytes.HasPrefix(fields[1], []byte("...")) {
			gen.buf.WriteString("...")
		}
	}
	gen.buf.WriteString(")\n\t}\n}\n\n")
}

func (gen *generator) run(ctx context.Context) error {
	method := gen.pattern()
	gen.header()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if match := method.FindSubmatch(sc.Bytes()); len(match) > 0 {
			gen.wrapper(match[1], match[2], match[3])
		}

		if gen.buf.Len() > 0 {
			if _, err := gen.buf.WriteTo(out); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return sc.Err()
}
