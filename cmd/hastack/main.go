// Command hastack runs stack programs from files, or interactively.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/chzyer/readline"

	"github.com/jcorbin/hastack/internal/logio"
)

func main() {
	var log logio.Logger
	log.SetOutput(os.Stderr)

	var (
		configPath string
		timeout    time.Duration
		trace      bool
		capacity   int
		callDepth  int
		step       bool
	)
	flag.StringVar(&configPath, "config", "", "load settings from a TOML file")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit for each program")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.IntVar(&capacity, "capacity", 0, "specify stack capacity")
	flag.IntVar(&callDepth, "call-depth", 0, "specify how deeply quotes may nest their evaluation")
	flag.BoolVar(&step, "step", false, "run files one term at a time, waiting for enter before each")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(log.ExitCode())
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "timeout":
			cfg.Timeout.Duration = timeout
		case "trace":
			cfg.Trace = trace
		case "capacity":
			cfg.Capacity = capacity
		case "call-depth":
			cfg.CallDepth = callDepth
		case "step":
			cfg.Step = step
		}
	})

	d := newDriver(cfg, &log, os.Stdout)
	d.terminal = readline.IsTerminal(int(os.Stdin.Fd()))
	log.ErrorIf(d.run(context.Background(), flag.Args(), os.Stdin))
	os.Exit(log.ExitCode())
}
