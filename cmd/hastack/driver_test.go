package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/hastack"
	"github.com/jcorbin/hastack/internal/logio"
	"github.com/jcorbin/hastack/script"
)

type driverTest struct {
	*driver
	logs bytes.Buffer
	out  bytes.Buffer
}

func newDriverTest(cfg config) *driverTest {
	dt := &driverTest{}
	log := &logio.Logger{}
	log.SetOutput(&dt.logs)
	dt.driver = newDriver(cfg, log, &dt.out)
	return dt
}

func writeFiles(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	return dir
}

func TestDriver_files(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"prelude.hs": "define square . * end",
		"main.hs":    "3 square print\n'x' print",
		"left.hs":    "1 2",
		"bad.hs":     "1\n  2 frob",
		"fail.hs":    "1 print\n1 True +",
		"zero.hs":    "1 0 / print",
		"spin.hs":    "{ True } { } while",
		"maybe.hs":   "True { 1 } { } if",
		"pair.hs":    "1 2",
		"add.hs":     "+ print",
	})
	path := func(name string) string { return filepath.Join(dir, name) }

	for _, tc := range []struct {
		name  string
		cfg   config
		files []string
		out   string
		check func(t *testing.T, err error)
	}{
		{
			name:  "prelude and main",
			cfg:   config{Prelude: []string{path("prelude.hs")}},
			files: []string{path("main.hs")},
			out:   "9\nx\n",
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:  "leftover data",
			files: []string{path("left.hs")},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, script.ErrUnhandledData))
				assert.EqualError(t, err, path("left.hs")+":1:3: unhandled data on the stack")
			},
		},
		{
			name:  "leftover data after running",
			files: []string{path("maybe.hs")},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, script.ErrUnhandledData))
				assert.EqualError(t, err, "unhandled data on the stack: [1]")
			},
		},
		{
			name:  "data left for the next file",
			files: []string{path("pair.hs"), path("add.hs")},
			out:   "3\n",
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:  "data left by prelude",
			cfg:   config{Prelude: []string{path("pair.hs")}},
			files: []string{path("add.hs")},
			out:   "3\n",
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:  "syntax error",
			files: []string{path("bad.hs")},
			check: func(t *testing.T, err error) {
				var se *script.SyntaxError
				require.True(t, errors.As(err, &se), "expected syntax error, got %v", err)
				assert.Equal(t, path("bad.hs")+":2:5", se.Loc.String())
			},
		},
		{
			name:  "checked before running",
			files: []string{path("fail.hs")},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, hastack.ErrTypeMismatch))
				var ce *script.CheckError
				require.True(t, errors.As(err, &ce), "expected check error, got %v", err)
				assert.Equal(t, path("fail.hs")+":2:8", ce.Loc.String())
			},
		},
		{
			name:  "runtime error",
			files: []string{path("zero.hs")},
			check: func(t *testing.T, err error) { assert.True(t, errors.Is(err, hastack.ErrDivideByZero)) },
		},
		{
			name:  "timeout",
			cfg:   config{Timeout: duration{20 * time.Millisecond}},
			files: []string{path("spin.hs")},
			check: func(t *testing.T, err error) { assert.True(t, errors.Is(err, context.DeadlineExceeded)) },
		},
		{
			name:  "missing file",
			files: []string{path("nope.hs")},
			check: func(t *testing.T, err error) { assert.True(t, errors.Is(err, os.ErrNotExist)) },
		},
		{
			name:  "stdin",
			files: []string{"-"},
			out:   "5\n",
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			dt := newDriverTest(tc.cfg)
			err := dt.run(context.Background(), tc.files, strings.NewReader("2 3 + print"))
			tc.check(t, err)
			assert.Equal(t, tc.out, dt.out.String())
		})
	}
}

func TestDriver_repl(t *testing.T) {
	dt := newDriverTest(config{Prompt: "> "})
	err := dt.run(context.Background(), nil, strings.NewReader(strings.Join([]string{
		"1 2",
		"",
		"+",
		":s",
		"foo",
		"'a' [1 'b']",
		":nope",
		":q",
		"1",
	}, "\n")))
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"> 2 : Int",
		"Popped 0 elements, pushed 2.",
		"> > 3 : Int",
		"Popped 2 elements, pushed 1.",
		"> " + strings.Join([]string{
			"  --------",
			"  |  3   |",
			"  --------",
		}, "\n"),
		"> > [1 'b'] : List",
		"Popped 0 elements, pushed 2.",
		"> > Quitting hastack shell",
		"",
	}, "\n"), dt.out.String())

	assert.Equal(t, strings.Join([]string{
		`ERROR: <stdin>:1:1: unknown word "foo"`,
		"\tfoo",
		"\t^",
		`ERROR: unknown command ":nope", try :help`,
		"",
	}, "\n"), dt.logs.String())
	assert.Equal(t, 0, dt.log.ExitCode(), "shell errors do not fail the process")
	assert.Equal(t, "['a' [1 'b']]", hastack.List{Stack: dt.stack}.String())
}

func TestDriver_replReset(t *testing.T) {
	dt := newDriverTest(config{})
	require.NoError(t, dt.run(context.Background(), nil, strings.NewReader(strings.Join([]string{
		"1 2",
		"3 print print print print",
		"4 print 4 0 /",
		"5",
	}, "\n"))))
	assert.Equal(t, strings.Join([]string{
		"ERROR: <stdin>:1:21: stack underflow: print expected 1 values, got 0",
		"ERROR: divide by zero",
		"",
	}, "\n"), dt.logs.String())
	assert.Equal(t, strings.Join([]string{
		"2 : Int",
		"Popped 0 elements, pushed 2.",
		"4",
		"5 : Int",
		"Popped 0 elements, pushed 1.",
		"",
		"",
	}, "\n"), dt.out.String(), "nothing runs from a line that fails its check")
	assert.Equal(t, []hastack.Value{hastack.Int(5)}, dt.stack.Values(), "stack reset after errors")
}

func TestDriver_replRecursion(t *testing.T) {
	dt := newDriverTest(config{CallDepth: 50})
	require.NoError(t, dt.run(context.Background(), nil, strings.NewReader("{ . ~ } . ~\n1")))
	assert.Equal(t, "ERROR: call depth exceeded\n", dt.logs.String())
	assert.Equal(t, "1 : Int\nPopped 0 elements, pushed 1.\n\n", dt.out.String())
	assert.Equal(t, 1, dt.stack.Len())
}

func TestDriver_step(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"sq.hs": "define sq . * end\n3 sq print",
	})
	path := filepath.Join(dir, "sq.hs")

	dt := newDriverTest(config{Step: true})
	require.NoError(t, dt.run(context.Background(), []string{path}, strings.NewReader("\n\n")))

	var (
		empty = []string{"  -------", "  |     |", "  -------"}
		three = []string{"  --------", "  |  3   |", "  --------"}
		nine  = []string{"  --------", "  |  9   |", "  --------"}
		dup   = []string{"  --------", "  |  3   |", "  --------", "  |  3   |", "  --------"}
	)
	var want []string
	want = append(want, empty...)
	want = append(want, path+":2:1: Executing node: 3 (ENTER)")
	want = append(want, three...)
	want = append(want, path+":1:11: Executing node: . (ENTER)")
	want = append(want, dup...)
	want = append(want, path+":1:13: Executing node: * (ENTER)")
	want = append(want, nine...)
	want = append(want, path+":2:6: Executing node: print (ENTER)", "9")
	want = append(want, empty...)
	want = append(want, path+": Program finished with no abnormalities", "")
	assert.Equal(t, strings.Join(want, "\n"), dt.out.String())
	assert.Equal(t, "", dt.logs.String())
}

func TestDriver_stepError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"zero.hs": "1 0 /"})
	dt := newDriverTest(config{Step: true})
	err := dt.run(context.Background(), []string{filepath.Join(dir, "zero.hs")}, strings.NewReader(""))
	assert.True(t, errors.Is(err, hastack.ErrDivideByZero))
	assert.NotContains(t, dt.out.String(), "Program finished")
}

func TestDriver_snapshot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stack.cbor")

	dt := newDriverTest(config{})
	require.NoError(t, dt.run(context.Background(), nil, strings.NewReader(strings.Join([]string{
		"define inc 1 + end",
		"[2] 1 { inc }",
		":save " + file,
		":load " + file,
		":save",
		":load " + filepath.Join(dir, "missing"),
		"~",
	}, "\n"))))
	assert.Equal(t, "[[2] 1 {1 +} [2] 2]", hastack.List{Stack: dt.stack}.String())
	assert.Contains(t, dt.logs.String(), "ERROR: usage: :save FILE")
	assert.Contains(t, dt.logs.String(), "missing")
}

func TestLoadConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.toml": strings.Join([]string{
			`capacity = 200`,
			`trace = true`,
			`timeout = "1.5s"`,
			`prelude = ["a.hs", "b.hs"]`,
			`call-depth = 64`,
			`step = true`,
			`history = "/tmp/h"`,
		}, "\n"),
		"home.toml":         `history = "~/.hs_history"`,
		"bad-depth.toml":    `call-depth = -2`,
		"bad-timeout.toml":  `timeout = "soon"`,
		"bad-capacity.toml": `capacity = -1`,
		"bad-syntax.toml":   `capacity = `,
	})

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	cfg, err = loadConfig(filepath.Join(dir, "good.toml"))
	require.NoError(t, err)
	assert.Equal(t, config{
		Capacity:  200,
		Trace:     true,
		Timeout:   duration{1500 * time.Millisecond},
		Prompt:    "hastack> ",
		Prelude:   []string{"a.hs", "b.hs"},
		CallDepth: 64,
		Step:      true,
		History:   "/tmp/h",
	}, cfg)

	if home, err := os.UserHomeDir(); err == nil {
		cfg, err = loadConfig(filepath.Join(dir, "home.toml"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".hs_history"), cfg.History)
	}

	for _, name := range []string{"bad-timeout.toml", "bad-capacity.toml", "bad-syntax.toml", "bad-depth.toml", "missing.toml"} {
		_, err := loadConfig(filepath.Join(dir, name))
		assert.Error(t, err, "expected %v to fail", name)
	}
}

func TestNewDriver_options(t *testing.T) {
	dt := newDriverTest(config{Capacity: 3, Trace: true, CallDepth: 2})
	assert.Equal(t, 3, dt.stack.Cap())
	require.NoError(t, dt.runSource(context.Background(), "t", strings.NewReader("1 2 +"), false))
	assert.Contains(t, dt.logs.String(), "TRACE: ")
	err := dt.runSource(context.Background(), "t", strings.NewReader("{ { { 1 } ~ } ~ } ~"), false)
	assert.True(t, errors.Is(err, hastack.ErrCallDepth), "expected call depth error, got %v", err)
}
