// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"github.com/danjacques/demoparse/demo"
	"github.com/danjacques/demoparse/support/fmtutil"
	"github.com/danjacques/demoparse/support/logging"

	"github.com/pkg/errors"
)

// unknownPayloadPreview is the number of payload bytes logged for a frame
// with an unknown command.
const unknownPayloadPreview = 16

// Notification is a single decoded message, delivered to a NotifyFunc.
//
// A Notification and its contents are only valid for the duration of the
// NotifyFunc call, unless the Parser was configured to copy payloads.
type Notification struct {
	// Tick is the tick of the frame that carried the message.
	Tick uint32

	// Command is the command that produced Message, without the compression
	// flag. CommandPacket and CommandSignonPacket share a Message type; this
	// is how they are told apart.
	Command demo.Command

	// Compressed is true if the frame's payload was compressed.
	Compressed bool

	// Message is the decoded message.
	Message demo.Message

	// Payload is the (decompressed) encoded form of Message.
	Payload []byte
}

// IsSignon returns true if the notification carries a signon packet.
func (n *Notification) IsSignon() bool { return n.Command == demo.CommandSignonPacket }

// NotifyFunc receives decoded messages. It is called synchronously from the
// parse loop, and must not start another parse on the same Parser.
type NotifyFunc func(n *Notification)

// Mux routes Notifications to per-command NotifyFuncs.
//
// The zero value is an empty Mux. Handlers must be registered before
// parsing begins.
type Mux struct {
	// Default, if not nil, receives notifications for commands without a
	// registered handler.
	Default NotifyFunc

	handlers map[demo.Command][]NotifyFunc
}

// Handle registers fn to receive notifications for c's Kind. Multiple
// handlers may be registered for the same command; they are called in
// registration order.
func (m *Mux) Handle(c demo.Command, fn NotifyFunc) {
	if m.handlers == nil {
		m.handlers = make(map[demo.Command][]NotifyFunc)
	}
	m.handlers[c.Kind()] = append(m.handlers[c.Kind()], fn)
}

// Notify is a NotifyFunc that routes n to its handlers.
func (m *Mux) Notify(n *Notification) {
	handlers := m.handlers[n.Command]
	if len(handlers) == 0 {
		if m.Default != nil {
			m.Default(n)
		}
		return
	}

	for _, fn := range handlers {
		fn(n)
	}
}

// dispatcher decodes frames and delivers them to a NotifyFunc.
type dispatcher struct {
	registry *demo.Registry
	commands demo.CommandSet
	notify   NotifyFunc
	logger   logging.L
}

// dispatch decodes f's payload and notifies. f must already be
// decompressed.
//
// Frames whose command is not in the registry fail with ErrUnknownCommand.
// They cannot be skipped safely.
func (d *dispatcher) dispatch(f *Frame) error {
	kind, ok := d.registry.Lookup(f.Kind())
	if !ok {
		preview := f.Payload
		if len(preview) > unknownPayloadPreview {
			preview = preview[:unknownPayloadPreview]
		}
		d.logger.Warnf("Unknown command %d at offset %d (tick %d, %d bytes): %s",
			uint32(f.Kind()), f.Offset, f.Tick, len(f.Payload), fmtutil.HexSlice(preview))
		d.logger.Debugf("Unknown command payload:\n%s", fmtutil.Hex(f.Payload))
		return errors.Wrapf(ErrUnknownCommand, "command %d (raw %d) at offset %d",
			uint32(f.Kind()), uint32(f.Command), f.Offset)
	}

	if len(d.commands) > 0 && !d.commands.Has(kind.Command) {
		return nil
	}

	msg, err := kind.Decode(f.Payload)
	if err != nil {
		return errors.Wrapf(ErrMessageDecode, "frame at offset %d: %s", f.Offset, err)
	}

	if d.notify != nil {
		d.notify(&Notification{
			Tick:       f.Tick,
			Command:    kind.Command,
			Compressed: f.Compressed(),
			Message:    msg,
			Payload:    f.Payload,
		})
	}
	return nil
}
