// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package demoinfo defines the logic for the "demoinfo" app.
//
// This app loads a single demo file, parses it, and prints a summary of its
// header and of the frames it contains.
//
// This demonstrates how to load a demo, configure a replay.Parser, route its
// notifications through a replay.Mux, and stop it early from a signal
// handler.
package demoinfo

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/danjacques/demoparse/demo"
	"github.com/danjacques/demoparse/replay"
	"github.com/danjacques/demoparse/replay/demofile"
	"github.com/danjacques/demoparse/support/logging"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/pflag"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

// Main is the main entry point.
func Main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	stopTick    int64
	commands    demo.CommandFlag
	compression demofile.CompressionFlag
	logLevel    string
	maxPayload  int
	dumpMetrics bool
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()

	fs.StringVar(&o.configPath, "config", "", "Path to a TOML config file. Flags override its values.")
	fs.Int64Var(&o.stopTick, "stop-tick", def.StopTick, "Stop parsing before this tick. Negative means never.")
	fs.Var(&o.commands, "command",
		fmt.Sprintf("Only summarize these commands (repeatable, comma-separated). Options are: %s", demo.CommandFlagValues()))
	fs.Var(&o.compression, "compression",
		fmt.Sprintf("Demo file compression. Options are: %s", demofile.CompressionFlagValues()))
	fs.StringVar(&o.logLevel, "log-level", def.LogLevel, "Log level (debug, info, warn, error).")
	fs.IntVar(&o.maxPayload, "max-payload-size", def.MaxPayloadSize, "If >0, reject frame payloads larger than this.")
	fs.BoolVar(&o.dumpMetrics, "dump-metrics", def.DumpMetrics, "Print parser metrics after parsing.")
}

// config builds the effective configuration: the config file (or defaults),
// overridden by every flag that was explicitly set.
func (o *options) config(fs *pflag.FlagSet) (Config, error) {
	cfg := DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = LoadConfig(o.configPath); err != nil {
			return Config{}, err
		}
	}

	if fs.Changed("stop-tick") {
		cfg.StopTick = o.stopTick
	}
	if fs.Changed("command") {
		cmds := o.commands.Value().Sorted()
		cfg.Commands = make([]string, len(cmds))
		for i, c := range cmds {
			cfg.Commands[i] = c.String()
		}
	}
	if fs.Changed("compression") {
		cfg.Compression = o.compression.String()
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if fs.Changed("max-payload-size") {
		cfg.MaxPayloadSize = o.maxPayload
	}
	if fs.Changed("dump-metrics") {
		cfg.DumpMetrics = o.dumpMetrics
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func run(c context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("demoinfo", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: demoinfo [flags] <demo>")
		fs.PrintDefaults()
	}

	var o options
	o.addFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exitSuccess
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := o.config(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitUsage
	}

	logger, sync, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitUsage
	}
	defer func() {
		_ = sync()
	}()

	if err := runDemo(c, logger, &cfg, fs.Arg(0), stdout); err != nil {
		logger.Errorf("Failed to summarize demo %q: %s", fs.Arg(0), err)
		return exitFailure
	}
	return exitSuccess
}

func runDemo(c context.Context, logger logging.L, cfg *Config, path string, stdout io.Writer) error {
	comp, _ := demofile.ParseCompression(cfg.Compression)
	data, err := demofile.Load(path, comp)
	if err != nil {
		return err
	}
	logger.Infof("Loaded demo %q (%s).", path, humanize.Bytes(uint64(len(data))))

	commands, err := cfg.commandSet()
	if err != nil {
		return err
	}

	var (
		s   summary
		mux replay.Mux
	)
	s.install(&mux)

	p := replay.NewParser(mux.Notify)
	p.Logger = logger
	p.Commands = commands
	p.MaxPayloadSize = cfg.MaxPayloadSize
	if cfg.StopTick >= 0 {
		p.StopAtTick(uint32(cfg.StopTick))
	}

	reg := prometheus.NewRegistry()
	replay.RegisterMonitoring(reg)

	// Stop the parser on SIGINT. It will finish its current frame, and we
	// will still print a summary of what was read.
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt)
	defer signal.Stop(sigC)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigC:
			logger.Warnf("Interrupted; stopping at tick %d.", p.CurrentTick())
			p.Stop()
		case <-done:
		}
	}()

	parseErr := p.ParseContext(c, data)
	if err := s.write(stdout, p); err != nil {
		return errors.Wrap(err, "writing summary")
	}

	if cfg.DumpMetrics {
		if err := dumpMetrics(stdout, reg); err != nil {
			return errors.Wrap(err, "dumping metrics")
		}
	}
	return parseErr
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
