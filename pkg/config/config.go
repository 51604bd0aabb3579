// Package config loads the gcm configuration file.
//
// Configuration is optional: every setting has a built-in default and can
// be overridden per invocation with command-line flags. The file is TOML:
//
//	[binary]
//	path = "/usr/local/lib/gcm/a.out"
//	prepare = "/usr/local/lib/gcm/work.sh"
//	timeout_seconds = 0
//
//	[defaults]
//	seed = 12345
//	chi = 0.0
//	separator = "space"
//	output_file = "clustering_output.txt"
//
//	[scratch]
//	root = ""
//	keep = false
//
// Discovery order: the path given with --config, then ./gcm.toml, then
// $XDG_CONFIG_HOME/gcm/config.toml (falling back to ~/.config/gcm/).
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/modularity/gcm/pkg/edgelist"
	"github.com/modularity/gcm/pkg/errors"
)

// FileName is the config file basename looked up in the working directory.
const FileName = "gcm.toml"

// appName is used for the XDG config directory.
const appName = "gcm"

// Config holds all configurable settings.
type Config struct {
	Binary   Binary   `toml:"binary"`
	Defaults Defaults `toml:"defaults"`
	Scratch  Scratch  `toml:"scratch"`
}

// Binary configures the external clustering executable.
type Binary struct {
	// Path to the compiled clustering binary. Empty means: look for
	// "a.out" next to the gcm executable, then on PATH.
	Path string `toml:"path"`

	// Prepare is an optional shell script run on the formatted edge list
	// before the binary is invoked.
	Prepare string `toml:"prepare"`

	// TimeoutSeconds bounds a single binary invocation. Zero disables
	// the timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Defaults configures per-run parameter defaults.
type Defaults struct {
	Seed       int64   `toml:"seed"`
	Chi        float64 `toml:"chi"`
	Separator  string  `toml:"separator"`
	OutputFile string  `toml:"output_file"`
}

// Scratch configures scratch directory handling.
type Scratch struct {
	// Root is the directory scratch directories are created under.
	// Empty means the current working directory.
	Root string `toml:"root"`

	// Keep preserves scratch directories after runs (for debugging).
	Keep bool `toml:"keep"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Defaults: Defaults{
			Seed:       12345,
			Chi:        0.0,
			Separator:  string(edgelist.SepSpace),
			OutputFile: "clustering_output.txt",
		},
	}
}

// Load reads the config file at path on top of the built-in defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Discover returns the first config file found in the discovery order, or
// "" if none exists.
func Discover() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	dir := configDir()
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// LoadDefault loads the discovered config file, or the built-in defaults
// if no file exists.
func LoadDefault() (Config, error) {
	path := Discover()
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) validate() error {
	if _, err := edgelist.ParseSeparator(c.Defaults.Separator); err != nil {
		return err
	}
	if c.Defaults.OutputFile != "" {
		if err := errors.ValidateOutputFilename(c.Defaults.OutputFile); err != nil {
			return err
		}
	}
	if c.Binary.TimeoutSeconds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout_seconds cannot be negative")
	}
	return nil
}

// configDir returns the config directory using the XDG standard
// (~/.config/gcm/).
func configDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}
