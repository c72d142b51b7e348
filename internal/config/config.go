// Package config loads the CLI's settings from a TOML file. The buffer
// pool manager itself takes no configuration beyond its frame count,
// passed directly to NewManager — config is purely an outer-layer,
// CLI-facing concern.
package config

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config is the diskbuf CLI's settings.
type Config struct {
	NumFrames int    `toml:"num_frames"`
	DataDir   string `toml:"data_dir"`
	LogLevel  string `toml:"log_level"`
}

// Default returns the settings diskbuf runs with when no config file is
// given.
func Default() Config {
	return Config{
		NumFrames: 64,
		DataDir:   ".",
		LogLevel:  "info",
	}
}

// Load reads path as TOML and overlays it onto Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}
	var fromFile Config
	if err := toml.Unmarshal(data, &fromFile); err != nil {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}
	if fromFile.NumFrames != 0 {
		cfg.NumFrames = fromFile.NumFrames
	}
	if fromFile.DataDir != "" {
		cfg.DataDir = fromFile.DataDir
	}
	if fromFile.LogLevel != "" {
		cfg.LogLevel = fromFile.LogLevel
	}
	return cfg, nil
}
