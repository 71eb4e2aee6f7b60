package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// config is loaded from an optional TOML file, e.g.:
//
//	capacity = 200
//	trace = false
//	timeout = "5s"
//	prompt = "hastack> "
//	prelude = ["lib/prelude.hs"]
//	call-depth = 1000
//	step = false
//	history = "~/.hastack_history"
type config struct {
	Capacity  int      `toml:"capacity"`
	Trace     bool     `toml:"trace"`
	Timeout   duration `toml:"timeout"`
	Prompt    string   `toml:"prompt"`
	Prelude   []string `toml:"prelude"`
	CallDepth int      `toml:"call-depth"`
	Step      bool     `toml:"step"`
	History   string   `toml:"history"`
}

type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func defaultConfig() config {
	return config{Prompt: "hastack> "}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if cfg.Capacity < 0 {
		return cfg, fmt.Errorf("invalid capacity %v in %s", cfg.Capacity, path)
	}
	if cfg.CallDepth < 0 {
		return cfg, fmt.Errorf("invalid call-depth %v in %s", cfg.CallDepth, path)
	}
	if rest := strings.TrimPrefix(cfg.History, "~/"); rest != cfg.History {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("cannot expand history path %s: %w", cfg.History, err)
		}
		cfg.History = filepath.Join(home, rest)
	}
	return cfg, nil
}
