package search

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/poreprefix/prefixtree"
)

// Config is the file form of decoder settings:
//
//	alphabet: ACGT
//	max_expansions: 100000
//	parallel_tracks: true
//	log_level: debug
//
// Every field is optional; the zero Config decodes DNA with no limits.
type Config struct {
	Alphabet       string `yaml:"alphabet"`
	MaxExpansions  int    `yaml:"max_expansions"`
	ParallelTracks bool   `yaml:"parallel_tracks"`
	LogLevel       string `yaml:"log_level"`
}

// ParseConfig decodes YAML into a Config. Unknown keys are rejected, as are
// a negative max_expansions, an unparsable log_level and an invalid alphabet.
// Empty input yields the zero Config.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("search: reading config: %w", err)
	}

	return ParseConfig(data)
}

func (c Config) validate() error {
	if c.MaxExpansions < 0 {
		return fmt.Errorf("%w: max_expansions cannot be negative (%d)", ErrInvalidConfig, c.MaxExpansions)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.ParseAlphabet(); err != nil {
		return err
	}

	return nil
}

// Level returns the slog level named by LogLevel; empty means Info.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}

	return lvl, nil
}

// ParseAlphabet returns the configured alphabet, prefixtree.DNA when unset.
func (c Config) ParseAlphabet() (prefixtree.Alphabet, error) {
	if c.Alphabet == "" {
		return prefixtree.DNA, nil
	}
	a, err := prefixtree.NewAlphabet(c.Alphabet)
	if err != nil {
		return prefixtree.Alphabet{}, fmt.Errorf("%w: alphabet: %w", ErrInvalidConfig, err)
	}

	return a, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return nil, err
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// Options converts the Config into decoder options. logger may be nil.
func (c Config) Options(logger *slog.Logger) []Option {
	opts := []Option{WithMaxExpansions(c.MaxExpansions), WithLogger(logger)}
	if c.ParallelTracks {
		opts = append(opts, WithParallelTracks())
	}

	return opts
}
