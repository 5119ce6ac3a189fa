// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package demotest builds synthetic demo buffers for tests.
package demotest

import (
	"bytes"
	"math"

	"github.com/danjacques/demoparse/demo"

	"github.com/golang/protobuf/proto"
	"github.com/golang/snappy"
	"google.golang.org/protobuf/encoding/protowire"
)

// Frame describes a single frame to build.
type Frame struct {
	// Command is the raw command to write. If it has demo.CommandIsCompressed
	// set, Payload is Snappy-compressed before it is written, unless Raw is
	// true.
	Command demo.Command
	// Tick is the frame's tick.
	Tick uint32
	// Payload is the frame's uncompressed payload.
	Payload []byte
	// Raw, if true, writes Payload verbatim even for compressed commands.
	Raw bool
}

// Preamble returns the signature followed by an encoded h.
func Preamble(h demo.Header) []byte {
	var buf bytes.Buffer
	buf.WriteString(demo.Signature)
	if err := h.Pack(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Build returns a complete demo buffer: a preamble with a zero Header,
// followed by frames.
func Build(frames ...Frame) []byte {
	buf := Preamble(demo.Header{})
	for _, f := range frames {
		buf = AppendFrame(buf, f)
	}
	return buf
}

// AppendFrame appends the encoding of f to dst.
func AppendFrame(dst []byte, f Frame) []byte {
	payload := f.Payload
	if f.Command.IsCompressed() && !f.Raw {
		payload = snappy.Encode(nil, payload)
	}

	dst = append(dst, proto.EncodeVarint(uint64(f.Command))...)
	dst = append(dst, proto.EncodeVarint(uint64(f.Tick))...)
	dst = append(dst, proto.EncodeVarint(uint64(len(payload)))...)
	return append(dst, payload...)
}

// FileHeader encodes the string and integer fields of h.
func FileHeader(h *demo.FileHeader) []byte {
	var b []byte
	b = appendString(b, 1, h.DemoFileStamp)
	b = appendInt32(b, 2, h.NetworkProtocol)
	b = appendString(b, 3, h.ServerName)
	b = appendString(b, 4, h.ClientName)
	b = appendString(b, 5, h.MapName)
	b = appendString(b, 6, h.GameDirectory)
	b = appendInt32(b, 13, h.BuildNum)
	b = appendString(b, 14, h.Game)
	b = appendInt32(b, 15, h.ServerStartTick)
	return b
}

// FileInfo encodes fi.
func FileInfo(fi *demo.FileInfo) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(fi.PlaybackTime))
	b = appendInt32(b, 2, fi.PlaybackTicks)
	b = appendInt32(b, 3, fi.PlaybackFrames)
	if fi.GameInfo != nil {
		b = appendBytes(b, 4, fi.GameInfo)
	}
	return b
}

// Packet encodes a Packet message carrying data.
func Packet(data []byte) []byte { return appendBytes(nil, 3, data) }

// ConsoleCmd encodes a ConsoleCmd message.
func ConsoleCmd(cmd string) []byte { return appendString(nil, 1, cmd) }

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}
