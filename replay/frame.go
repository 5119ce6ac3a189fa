// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"bytes"

	"github.com/danjacques/demoparse/demo"
	"github.com/danjacques/demoparse/support/bufferpool"
	"github.com/danjacques/demoparse/support/byteslicereader"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// tickSentinel is the tick value of frames that belong to no tick. It is
// reported as tick 0.
const tickSentinel = 0xFFFFFFFF

// Frame is a single outer frame of a demo.
type Frame struct {
	// Offset is the offset of the frame's first byte in the demo buffer.
	Offset int

	// Command is the raw command, including the compression flag.
	Command demo.Command

	// Tick is the tick that the frame belongs to.
	Tick uint32

	// Payload is the frame's payload. Once the frame has been decompressed,
	// this is the decompressed payload.
	//
	// An uncompressed Payload references the demo buffer, unless the reader
	// was configured to copy.
	Payload []byte
}

// Kind returns the frame's command without the compression flag.
func (f *Frame) Kind() demo.Command { return f.Command.Kind() }

// Compressed returns true if the frame's payload was written compressed.
func (f *Frame) Compressed() bool { return f.Command.IsCompressed() }

// readSignature consumes the demo signature from r.
func readSignature(r *byteslicereader.R) error {
	sig, err := r.Next(demo.SignatureSize)
	if err != nil || !bytes.Equal(sig, []byte(demo.Signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// readHeader consumes the header that follows the signature.
func readHeader(r *byteslicereader.R) (demo.Header, error) {
	raw, err := r.Next(demo.HeaderSize)
	if err != nil {
		return demo.Header{}, errors.Wrap(ErrTruncatedInput, "reading header")
	}

	h, err := demo.ReadHeader(bytes.NewReader(raw))
	if err != nil {
		return demo.Header{}, errors.Wrapf(ErrTruncatedInput, "unpacking header: %s", err)
	}
	return h, nil
}

// readFrame reads the next frame from r. The frame's payload is returned as
// it was written; see decompress.
//
// If maxPayload is >0, frames with a larger payload are rejected.
func readFrame(r *byteslicereader.R, maxPayload int) (Frame, error) {
	f := Frame{
		Offset: r.Offset(),
	}

	cmd, err := readVarint32(r)
	if err != nil {
		return f, errors.Wrapf(err, "reading command of frame at offset %d", f.Offset)
	}
	f.Command = demo.Command(cmd)

	if f.Tick, err = readVarint32(r); err != nil {
		return f, errors.Wrapf(err, "reading tick of frame at offset %d", f.Offset)
	}
	if f.Tick == tickSentinel {
		f.Tick = 0
	}

	size, err := readVarint32(r)
	if err != nil {
		return f, errors.Wrapf(err, "reading size of frame at offset %d", f.Offset)
	}
	if maxPayload > 0 && uint64(size) > uint64(maxPayload) {
		return f, errors.Wrapf(ErrPayloadTooLarge, "frame at offset %d has %d bytes (max %d)",
			f.Offset, size, maxPayload)
	}

	if f.Payload, err = r.Next(int(size)); err != nil {
		return f, errors.Wrapf(ErrTruncatedInput, "frame at offset %d wants %d payload bytes, %d remain",
			f.Offset, size, r.Remaining())
	}
	return f, nil
}

// decompress replaces a compressed frame's payload with its decompressed
// form. Uncompressed frames are left alone.
//
// Payloads use the Snappy block format, whose preamble carries the
// decompressed length. If scratch is not nil, the payload is decompressed
// into it and is only valid until scratch is next used.
func decompress(f *Frame, maxPayload int, scratch *bufferpool.Buffer) error {
	if !f.Compressed() {
		return nil
	}

	size, err := snappy.DecodedLen(f.Payload)
	if err != nil {
		return errors.Wrapf(ErrDecompression, "frame at offset %d: %s", f.Offset, err)
	}
	if maxPayload > 0 && size > maxPayload {
		return errors.Wrapf(ErrPayloadTooLarge, "frame at offset %d decompresses to %d bytes (max %d)",
			f.Offset, size, maxPayload)
	}

	var dst []byte
	if scratch != nil {
		dst = scratch.Sized(size)
	}
	data, err := snappy.Decode(dst, f.Payload)
	if err != nil {
		return errors.Wrapf(ErrDecompression, "frame at offset %d: %s", f.Offset, err)
	}
	f.Payload = data
	return nil
}
