// Package config loads the settings shared by the hack commands.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Urethramancer/hack/assembler"
	"github.com/Urethramancer/hack/cpu"
)

// FileName is looked for next to the input file when no config path is given.
const FileName = ".hackasm.yaml"

// Config holds assembler and emulator settings.
type Config struct {
	// StackPointer is the RAM cell used by #call and #ret.
	StackPointer uint16 `yaml:"stack_pointer"`
	// Macros enables #call, #ret and #include.
	Macros bool `yaml:"macros"`
	// IncludeDir is searched for includes not found beside the including file.
	// Empty means the input's directory.
	IncludeDir string `yaml:"include_dir"`
	// LogLevel is one of debug, info, warn and error.
	LogLevel string `yaml:"log_level"`
	// LogFile receives log output, appended, instead of stderr.
	LogFile string `yaml:"log_file"`
	// MaxSteps bounds an emulator run.
	MaxSteps int `yaml:"max_steps"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		StackPointer: assembler.DefaultStackPointer,
		Macros:       true,
		LogLevel:     "info",
		MaxSteps:     1_000_000,
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find loads the config for input: explicit wins, otherwise FileName beside input.
func Find(explicit, input string) (Config, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return Default(), err
		}
		return Load(explicit)
	}
	return Load(filepath.Join(filepath.Dir(input), FileName))
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.StackPointer == 0 || c.StackPointer > cpu.MaxAddress {
		return fmt.Errorf("stack_pointer %d outside 1..%d", c.StackPointer, cpu.MaxAddress)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level for LogLevel.
func (c Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", name)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the text logger used by the commands. Output goes to LogFile when
// it is set, otherwise to w. The closer releases the log file and must run before exit.
func (c Config) NewLogger(w io.Writer, level slog.Level) (*slog.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("log_file: %w", err)
		}
		w, closer = f, f
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

// Options turns the settings into assembler options for the given input file.
func (c Config) Options(input string) []assembler.Option {
	dir := c.IncludeDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return []assembler.Option{
		assembler.WithStackPointer(c.StackPointer),
		assembler.WithMacros(c.Macros),
		assembler.WithIncluder(assembler.DirIncluder{Dir: dir}),
	}
}
