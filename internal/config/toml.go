// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Charset  CharsetConfig  `toml:"charset"`
	Input    InputConfig    `toml:"input"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	LineLength *int     `toml:"line-length"`
	Rounds     *int     `toml:"rounds"`
	PoolFactor *int     `toml:"pool-factor"`
	Price      *float64 `toml:"price"`
	Seed       *int64   `toml:"seed"`
	PauseAtEnd *bool    `toml:"pause-at-end"`
}

// ScoringConfig maps the difficulty model parameters.
type ScoringConfig struct {
	Decay   *float64 `toml:"decay"`
	Initial *float64 `toml:"initial"`
}

// CharsetConfig maps the practiced character set.
type CharsetConfig struct {
	HomeRow  *string `toml:"home-row"`
	Accented *string `toml:"accented"`
	Controls *bool   `toml:"controls"`
}

// InputConfig maps terminal input settings.
type InputConfig struct {
	Encoding *string `toml:"encoding"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	Path  *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written when the config file is created from the CLI.
const Template = `# adaptype configuration

[practice]
# line-length = 30
# rounds = 4
# pool-factor = 20
# price = 3.0
# seed = 0
# pause-at-end = true

[scoring]
# decay = 0.2
# initial = 0.5

[charset]
# home-row = "aoeuidhtns"
# accented = "åÅäÄöÖ"
# controls = true

[input]
# encoding = "utf-8"

[log]
# level = "info"
# path = ""
`

// EnsureFile creates the config file from Template when it does not exist.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
