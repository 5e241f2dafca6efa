// Package config loads the optional YAML configuration of the shell.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vegasq/tapps/frame"
)

// Config holds the settings read at startup. Statements such as set
// separator change the live session afterwards, not this value.
type Config struct {
	Separator string `yaml:"separator"`
	// FillIn pads missing cells. Nil means cells are left without a value.
	FillIn      *string `yaml:"fillin"`
	Newline     string  `yaml:"newline"`
	Header      bool    `yaml:"header"`
	DisplayAST  bool    `yaml:"displayast"`
	CastError   string  `yaml:"cast_error"`
	PluginDir   string  `yaml:"plugin_dir"`
	HistoryFile string  `yaml:"history_file"`
	// Prompt is a format string given the statement counter
	Prompt string `yaml:"prompt"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Separator: ",",
		Newline:   "\n",
		Header:    true,
		CastError: string(frame.PolicyReplace),
		PluginDir: "plugins",
		Prompt:    "TAPPS: %d> ",
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default value; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the shell cannot recover from at runtime
func (c Config) Validate() error {
	if c.Separator == "" {
		return errors.New("separator must not be empty")
	}
	if c.Newline == "" {
		return errors.New("newline must not be empty")
	}
	if _, err := frame.ParseCastPolicy(c.CastError); err != nil {
		return err
	}
	if strings.Count(c.Prompt, "%d") > 1 {
		return errors.New("prompt may hold at most one %d")
	}
	return nil
}

// FillInValue returns the fill-in as a cell value
func (c Config) FillInValue() any {
	if c.FillIn == nil {
		return nil
	}
	return *c.FillIn
}
