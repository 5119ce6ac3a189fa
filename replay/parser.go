// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/danjacques/demoparse/demo"
	"github.com/danjacques/demoparse/support/bufferpool"
	"github.com/danjacques/demoparse/support/byteslicereader"
	"github.com/danjacques/demoparse/support/logging"
)

// decompressPool holds the buffers that compressed payloads are decompressed
// into when payloads are not copied.
var decompressPool = bufferpool.Pool{Size: 64 * 1024}

// State is the state of a Parser.
type State int32

const (
	// StateReady is the state of a Parser that has not started parsing.
	StateReady State = iota
	// StateRunning means the Parser is reading frames.
	StateRunning
	// StateStopped means parsing ended early, because of Stop, StopAtTick, or
	// Context cancellation.
	StateStopped
	// StateFinished means every frame in the demo was read.
	StateFinished
	// StateFailed means parsing ended with an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	case StateFinished:
		return "Finished"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Parser reads the frames of a single in-memory demo and delivers their
// decoded messages to Notify.
//
// A Parser is used once: create a new Parser for each demo. Its exported
// fields must not be changed after parsing has begun. Stop, StopAtTick,
// CurrentTick, and State are safe to call concurrently with Parse, including
// from Notify.
type Parser struct {
	// Notify receives every decoded message. If nil, messages are decoded and
	// discarded.
	Notify NotifyFunc

	// Registry resolves frame commands. If nil, demo.DefaultRegistry is used.
	Registry *demo.Registry

	// Commands, if not empty, limits decoding and notification to these
	// commands. Frames with other known commands are still read and
	// validated.
	Commands demo.CommandSet

	// Logger is the logger instance to use. If nil, no logging will be
	// performed.
	Logger logging.L

	// MaxPayloadSize, if >0, is the largest payload (compressed or
	// decompressed) that the Parser will accept.
	MaxPayloadSize int

	// CopyPayloads, if true, gives each Notification its own copy of its
	// payload. Otherwise, payloads reference the demo buffer or a
	// decompression buffer that is reused between frames.
	CopyPayloads bool

	state       atomic.Int32
	used        atomic.Bool
	stopping    atomic.Bool
	currentTick atomic.Uint32
	// stopAtTick holds the stop tick plus one, or zero if none is set.
	stopAtTick atomic.Uint64

	header demo.Header
}

// NewParser returns a Parser that delivers messages to notify.
func NewParser(notify NotifyFunc) *Parser {
	return &Parser{Notify: notify}
}

// Stop signals the Parser to stop before reading the next frame. A frame
// that is being processed is completed.
func (p *Parser) Stop() { p.stopping.Store(true) }

// StopAtTick signals the Parser to stop once it reaches tick: no frame whose
// tick is >= tick will be delivered.
//
// If the Parser has already passed tick, it stops before the next frame.
func (p *Parser) StopAtTick(tick uint32) { p.stopAtTick.Store(uint64(tick) + 1) }

// CurrentTick returns the tick of the last delivered frame.
func (p *Parser) CurrentTick() uint32 { return p.currentTick.Load() }

// State returns the Parser's current state.
func (p *Parser) State() State { return State(p.state.Load()) }

// Header returns the demo's header. It is valid once the Parser has started
// running, from within Notify or after Parse returns.
func (p *Parser) Header() demo.Header { return p.header }

func (p *Parser) stopTick() (uint32, bool) {
	v := p.stopAtTick.Load()
	if v == 0 {
		return 0, false
	}
	return uint32(v - 1), true
}

// Parse parses buf. It is equivalent to ParseContext with a background
// Context.
func (p *Parser) Parse(buf []byte) error { return p.ParseContext(context.Background(), buf) }

// ParseContext parses buf, delivering each decoded message to Notify.
//
// ParseContext returns nil if the demo was read to its end, or if parsing
// was stopped by Stop, StopAtTick, or c's cancellation. Otherwise, it
// returns an error whose cause is one of this package's Err* values.
func (p *Parser) ParseContext(c context.Context, buf []byte) (err error) {
	if !p.used.CompareAndSwap(false, true) {
		return ErrParserUsed
	}

	logger := logging.Must(p.Logger)
	registry := p.Registry
	if registry == nil {
		registry = demo.DefaultRegistry
	}
	d := dispatcher{
		registry: registry,
		commands: p.Commands,
		notify:   p.Notify,
		logger:   logger,
	}
	if d.notify != nil {
		notify := d.notify
		d.notify = func(n *Notification) {
			parserNotifications.Inc()
			notify(n)
		}
	}

	parserActiveGauge.Inc()
	defer func() {
		parserActiveGauge.Dec()

		if err != nil {
			p.state.Store(int32(StateFailed))
			logger.Warnf("Failed to parse demo at tick %d: %s", p.CurrentTick(), err)
			parserResults.WithLabelValues(errorLabel(err)).Inc()
			return
		}
		parserResults.WithLabelValues(strings.ToLower(p.State().String())).Inc()
	}()

	r := byteslicereader.R{
		Buffer:     buf,
		AlwaysCopy: p.CopyPayloads,
	}
	if err := readSignature(&r); err != nil {
		return err
	}
	if p.header, err = readHeader(&r); err != nil {
		return err
	}
	p.state.Store(int32(StateRunning))

	var scratch *bufferpool.Buffer
	if !p.CopyPayloads {
		scratch = decompressPool.Get()
		defer scratch.Release()
	}
	logger.Debugf("Parsing demo (%d bytes, header %+v).", len(buf), p.header)

	for {
		if reason := p.shouldStop(c); reason != "" {
			logger.Debugf("Stopping at tick %d: %s.", p.CurrentTick(), reason)
			p.state.Store(int32(StateStopped))
			return nil
		}

		if r.Remaining() == 0 {
			logger.Debugf("Finished demo at tick %d.", p.CurrentTick())
			p.state.Store(int32(StateFinished))
			return nil
		}

		f, err := readFrame(&r, p.MaxPayloadSize)
		if err != nil {
			return err
		}

		if stop, ok := p.stopTick(); ok && f.Tick >= stop {
			logger.Debugf("Stopping before frame at tick %d (stop tick %d).", f.Tick, stop)
			p.state.Store(int32(StateStopped))
			return nil
		}

		if err := decompress(&f, p.MaxPayloadSize, scratch); err != nil {
			return err
		}

		if err := d.dispatch(&f); err != nil {
			return err
		}
		p.currentTick.Store(f.Tick)

		parserFrames.WithLabelValues(f.Kind().String()).Inc()
		parserPayloadBytes.Add(float64(len(f.Payload)))
		if f.Compressed() {
			parserCompressedFrames.Inc()
		}
	}
}

// shouldStop returns a non-empty reason if the Parser should stop before
// reading another frame.
func (p *Parser) shouldStop(c context.Context) string {
	if p.stopping.Load() {
		return "stop requested"
	}
	if stop, ok := p.stopTick(); ok && p.CurrentTick() >= stop {
		return "reached stop tick"
	}

	select {
	case <-c.Done():
		return c.Err().Error()
	default:
		return ""
	}
}
