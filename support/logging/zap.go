// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelNames lists the level names accepted by New, from most to least
// verbose.
var LevelNames = []string{"debug", "info", "warn", "error"}

// New builds a console logger that writes to stderr at the named level.
//
// The returned Sync function should be called before the process exits to
// flush buffered entries.
func New(level string) (L, func() error, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}

	base, err := cfg.Build()
	if err != nil {
		return nil, nil, errors.Wrap(err, "building logger")
	}
	return base.Sugar(), base.Sync, nil
}
