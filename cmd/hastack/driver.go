package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/jcorbin/hastack"
	"github.com/jcorbin/hastack/internal/logio"
	"github.com/jcorbin/hastack/internal/snapshot"
	"github.com/jcorbin/hastack/script"
)

const helpText = `Commands:
    :stack :s        Prints an ascii representation of the stack.
    :save FILE       Saves the stack to FILE.
    :load FILE       Pushes values saved in FILE.
    :quit :q         Exits the shell.
    :help :h         Opens this menu.
`

type driver struct {
	cfg    config
	log    *logio.Logger
	out    io.Writer
	parser script.Parser
	stack  *hastack.Stack

	// terminal selects line editing and history for the shell.
	terminal bool
	// stepping runs files a term at a time, reading a line from pause
	// before each term until it runs out.
	stepping bool
	pause    *bufio.Reader
}

func newDriver(cfg config, log *logio.Logger, out io.Writer) *driver {
	opts := []hastack.Option{hastack.WithOutput(out)}
	if cfg.Capacity > 0 {
		opts = append(opts, hastack.WithCapacity(cfg.Capacity))
	}
	if cfg.Trace {
		opts = append(opts, hastack.WithLogf(log.Leveledf("TRACE")))
	}
	if cfg.CallDepth > 0 {
		opts = append(opts, hastack.WithCallDepth(cfg.CallDepth))
	}
	return &driver{
		cfg:   cfg,
		log:   log,
		out:   out,
		stack: hastack.New(opts...),
	}
}

// run executes any prelude, then either the named files or, given none, an
// interactive shell over stdin. Files must leave the stack empty.
func (d *driver) run(ctx context.Context, args []string, stdin io.Reader) error {
	if d.cfg.Step && len(args) > 0 {
		d.stepping = true
		d.pause = bufio.NewReader(stdin)
	}
	for _, name := range d.cfg.Prelude {
		if err := d.runPath(ctx, name, stdin, false); err != nil {
			return err
		}
	}
	if len(args) == 0 {
		return d.repl(ctx, stdin)
	}
	for i, name := range args {
		if err := d.runPath(ctx, name, stdin, i == len(args)-1); err != nil {
			return err
		}
	}
	if d.stack.Len() > 0 {
		return fmt.Errorf("%w: %v", script.ErrUnhandledData, hastack.List{Stack: d.stack})
	}
	return nil
}

func (d *driver) runPath(ctx context.Context, name string, stdin io.Reader, final bool) error {
	if name == "-" {
		return d.runSource(ctx, "<stdin>", stdin, final)
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.runSource(ctx, name, f, final)
}

// runSource parses and checks source before running any of it; final source
// must also be seen to leave the stack empty.
func (d *driver) runSource(ctx context.Context, name string, r io.Reader, final bool) error {
	prog, err := d.parser.Parse(name, r)
	if err != nil {
		return err
	}
	res, err := prog.Check(d.stack.Values())
	if err != nil {
		return err
	}
	if final {
		if err := res.Leftover(); err != nil {
			return err
		}
	}
	if d.cfg.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout.Duration)
		defer cancel()
	}
	if d.stepping {
		return d.step(ctx, prog)
	}
	return prog.Run(ctx, d.stack)
}

// step runs prog one top-level term at a time, dumping the stack around each
// and waiting for a line of input before going on; once input runs out, the
// remaining steps run without waiting.
func (d *driver) step(ctx context.Context, prog *script.Program) error {
	if err := d.stack.Dump(d.out); err != nil {
		return err
	}
	for _, step := range prog.Steps() {
		fmt.Fprintf(d.out, "%v: Executing node: %v (ENTER)\n", step.Loc, step.Source)
		if d.pause != nil {
			if _, err := d.pause.ReadString('\n'); err == io.EOF {
				d.pause = nil
			} else if err != nil {
				return err
			}
		}
		if err := d.stack.Run(ctx, step.Proc); err != nil {
			return err
		}
		if err := d.stack.Dump(d.out); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(d.out, "%v: Program finished with no abnormalities\n", prog.Name)
	return err
}

func (d *driver) repl(ctx context.Context, in io.Reader) error {
	lines, err := d.lineReader(in)
	if err != nil {
		return err
	}
	defer lines.Close()
	for {
		line, err := lines.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") || line == "help" {
			quit, err := d.command(strings.Fields(line))
			if err != nil {
				d.log.Printf("ERROR", "%v", err)
			}
			if quit {
				return nil
			}
			continue
		}

		d.stack.ResetCounts()
		if err := d.runSource(ctx, "<stdin>", strings.NewReader(line), false); err != nil {
			d.log.Printf("ERROR", "%+v", err)
			d.stack.Reset()
			continue
		}
		if vals := d.stack.Values(); len(vals) > 0 {
			top := vals[len(vals)-1]
			fmt.Fprintf(d.out, "%v : %v\n", hastack.Literal(top), top.Kind())
		}
		pops, pushes := d.stack.Counts()
		fmt.Fprintf(d.out, "Popped %d elements, pushed %d.\n", pops, pushes)
	}
	fmt.Fprintln(d.out)
	return nil
}

// lineReader reads shell input a line at a time, prompting for each.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// lineReader edits lines with history and completion on a terminal, and
// otherwise scans plain lines.
func (d *driver) lineReader(in io.Reader) (lineReader, error) {
	if !d.terminal {
		return &scanReader{sc: bufio.NewScanner(in), out: d.out, prompt: d.cfg.Prompt}, nil
	}
	return readline.NewEx(&readline.Config{
		Prompt:          d.cfg.Prompt,
		HistoryFile:     historyPath(d.cfg.History),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem(":stack"),
	readline.PcItem(":s"),
	readline.PcItem(":save", readline.PcItemDynamic(listFiles)),
	readline.PcItem(":load", readline.PcItemDynamic(listFiles)),
	readline.PcItem(":quit"),
	readline.PcItem(":q"),
	readline.PcItem(":help"),
	readline.PcItem(":h"),
)

func listFiles(string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if !ent.IsDir() {
			names = append(names, ent.Name())
		}
	}
	return names
}

// historyPath defaults to a file in the user's home directory; history is
// not kept if there is none.
func historyPath(name string) string {
	if name != "" {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hastack_history")
}

type scanReader struct {
	sc     *bufio.Scanner
	out    io.Writer
	prompt string
}

func (sr *scanReader) Readline() (string, error) {
	io.WriteString(sr.out, sr.prompt)
	if sr.sc.Scan() {
		return sr.sc.Text(), nil
	}
	if err := sr.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (sr *scanReader) Close() error { return nil }

func (d *driver) command(fields []string) (quit bool, err error) {
	switch cmd := fields[0]; cmd {
	case ":quit", ":q":
		_, err = io.WriteString(d.out, "Quitting hastack shell\n")
		return true, err

	case ":help", ":h", "help":
		_, err = io.WriteString(d.out, helpText)
		return false, err

	case ":stack", ":s":
		return false, d.stack.Dump(d.out)

	case ":save", ":load":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: %v FILE", cmd)
		}
		if cmd == ":save" {
			return false, d.save(fields[1])
		}
		return false, d.load(fields[1])

	default:
		return false, fmt.Errorf("unknown command %q, try :help", cmd)
	}
}

func (d *driver) save(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := snapshot.Save(f, d.stack); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *driver) load(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return snapshot.Load(f, d.stack, d.parser.Resolve)
}
