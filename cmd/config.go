package cmd

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Myriad-Dreamin/tinymist-sub003/internal/log"
)

// Config is the optional YAML configuration shared by the subcommands.
type Config struct {
	// LogLevel follows slog's numeric levels; nil defers to the flag.
	LogLevel *int `yaml:"logLevel"`
	// Sections enables debug logging per subsystem (syntax, ty, analysis).
	Sections []string `yaml:"sections"`
	// Color forces colored output on or off, overriding tty detection.
	Color *bool `yaml:"color"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "could not parse config")
	}
	return cfg, nil
}

func (c Config) apply(flagLevel int) {
	level := flagLevel
	if c.LogLevel != nil {
		level = *c.LogLevel
	}
	log.SetLevel(slog.Level(level))
	if len(c.Sections) > 0 {
		log.SetSections(c.Sections)
	}
}

func (c Config) colorEnabled() bool {
	if c.Color != nil {
		return *c.Color
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (c Config) colorize(s string) string {
	if !c.colorEnabled() {
		return s
	}
	return "\x1b[36m" + s + "\x1b[0m"
}
