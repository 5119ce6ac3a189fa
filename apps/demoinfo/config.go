// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demoinfo

import (
	"os"
	"strings"

	"github.com/danjacques/demoparse/demo"
	"github.com/danjacques/demoparse/replay/demofile"
	"github.com/danjacques/demoparse/support/logging"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the demoinfo configuration. It can be loaded from a TOML file,
// and is then overridden by command-line flags.
type Config struct {
	// StopTick, if >= 0, is the tick to stop parsing at.
	StopTick int64 `toml:"stop_tick"`
	// Commands, if not empty, limits the summary to these commands.
	Commands []string `toml:"commands"`
	// Compression is the demo file's compression name.
	Compression string `toml:"compression"`
	// LogLevel is the zap log level name.
	LogLevel string `toml:"log_level"`
	// MaxPayloadSize, if >0, is the largest frame payload to accept.
	MaxPayloadSize int `toml:"max_payload_size"`
	// DumpMetrics, if true, prints parser metrics after parsing.
	DumpMetrics bool `toml:"dump_metrics"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		StopTick:    -1,
		Compression: demofile.CompressionAuto.String(),
		LogLevel:    "info",
	}
}

// LoadConfig loads the TOML configuration at path over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading config %q", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %q", path)
	}
	return cfg, nil
}

// Validate checks that every value in cfg can be used.
func (cfg *Config) Validate() error {
	if _, err := cfg.commandSet(); err != nil {
		return err
	}
	if _, ok := demofile.ParseCompression(cfg.Compression); !ok {
		return errors.Errorf("unknown compression %q", cfg.Compression)
	}
	if !validLogLevel(cfg.LogLevel) {
		return errors.Errorf("unknown log level %q (valid: %s)", cfg.LogLevel, strings.Join(logging.LevelNames, ", "))
	}
	if cfg.MaxPayloadSize < 0 {
		return errors.Errorf("negative max payload size %d", cfg.MaxPayloadSize)
	}
	if cfg.StopTick > int64(^uint32(0)) {
		return errors.Errorf("stop tick %d is out of range", cfg.StopTick)
	}
	return nil
}

func (cfg *Config) commandSet() (demo.CommandSet, error) {
	var cs demo.CommandSet
	for _, v := range cfg.Commands {
		c, err := demo.ParseCommand(v)
		if err != nil {
			return nil, err
		}
		cs.Add(c)
	}
	return cs, nil
}

func validLogLevel(v string) bool {
	v = strings.ToLower(v)
	for _, name := range logging.LevelNames {
		if name == v {
			return true
		}
	}
	return false
}
