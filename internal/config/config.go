// Package config loads the tool configuration from a YAML file.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied for fields the file leaves unset.
const (
	DefaultDatabasePath     = "catalog.db"
	DefaultCommandsDir      = "commands"
	DefaultInactivityMonths = 12
)

// Config is the full tool configuration.
type Config struct {
	// DatabasePath locates the SQLite catalog snapshot.
	DatabasePath string `yaml:"database_path"`

	// CommandsDir holds the pending command files for import sessions.
	CommandsDir string `yaml:"commands_dir"`

	// InactivityMonths is the window after which an author with no
	// activity is considered retired.
	InactivityMonths int `yaml:"inactivity_months"`

	// TranscriptDir receives the per-session audit transcripts.
	// Empty means transcripts go to standard output only.
	TranscriptDir string `yaml:"transcript_dir"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DatabasePath:     DefaultDatabasePath,
		CommandsDir:      DefaultCommandsDir,
		InactivityMonths: DefaultInactivityMonths,
	}
}

// Load reads a YAML configuration file, filling unset fields with
// defaults. Unknown keys are rejected so typos fail loudly instead of
// silently reverting a setting to its default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath
	}
	if c.CommandsDir == "" {
		c.CommandsDir = DefaultCommandsDir
	}
	if c.InactivityMonths == 0 {
		c.InactivityMonths = DefaultInactivityMonths
	}
}

func (c *Config) validate() error {
	if c.InactivityMonths < 1 {
		return fmt.Errorf("inactivity_months must be at least 1, got %d", c.InactivityMonths)
	}
	return nil
}
