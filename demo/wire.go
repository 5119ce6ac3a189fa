// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demo

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// fieldReader walks the fields of a protobuf-encoded message.
//
// After next returns true, exactly one of the value accessors (or skip)
// must be called to consume the field's value. Accessors that are called
// for a field whose wire type does not match skip the value and return the
// zero value, treating the field as unknown.
type fieldReader struct {
	b   []byte
	num protowire.Number
	typ protowire.Type
	err error
}

func newFieldReader(b []byte) fieldReader { return fieldReader{b: b} }

func (fr *fieldReader) next() bool {
	if fr.err != nil || len(fr.b) == 0 {
		return false
	}

	num, typ, n := protowire.ConsumeTag(fr.b)
	if n < 0 {
		fr.fail(n, "tag")
		return false
	}
	fr.b = fr.b[n:]
	fr.num, fr.typ = num, typ
	return true
}

func (fr *fieldReader) fail(n int, what string) {
	fr.err = errors.Wrapf(protowire.ParseError(n), "field %d: reading %s", fr.num, what)
}

func (fr *fieldReader) skip() {
	n := protowire.ConsumeFieldValue(fr.num, fr.typ, fr.b)
	if n < 0 {
		fr.fail(n, "unknown field")
		return
	}
	fr.b = fr.b[n:]
}

func (fr *fieldReader) is(typ protowire.Type) bool {
	if fr.typ != typ {
		fr.skip()
		return false
	}
	return true
}

func (fr *fieldReader) varint() uint64 {
	if !fr.is(protowire.VarintType) {
		return 0
	}
	v, n := protowire.ConsumeVarint(fr.b)
	if n < 0 {
		fr.fail(n, "varint")
		return 0
	}
	fr.b = fr.b[n:]
	return v
}

func (fr *fieldReader) int32() int32 { return int32(fr.varint()) }

func (fr *fieldReader) bool() bool { return protowire.DecodeBool(fr.varint()) }

func (fr *fieldReader) bytes() []byte {
	v, _ := fr.bytesOK()
	return v
}

// bytesOK is like bytes, but also reports whether a value was read. It is
// used for repeated fields, where a skipped value must not be appended.
func (fr *fieldReader) bytesOK() ([]byte, bool) {
	if !fr.is(protowire.BytesType) {
		return nil, false
	}
	v, n := protowire.ConsumeBytes(fr.b)
	if n < 0 {
		fr.fail(n, "bytes")
		return nil, false
	}
	fr.b = fr.b[n:]
	return v, true
}

func (fr *fieldReader) string() string { return string(fr.bytes()) }

func (fr *fieldReader) fixed64() uint64 {
	if !fr.is(protowire.Fixed64Type) {
		return 0
	}
	v, n := protowire.ConsumeFixed64(fr.b)
	if n < 0 {
		fr.fail(n, "fixed64")
		return 0
	}
	fr.b = fr.b[n:]
	return v
}

func (fr *fieldReader) float32() float32 {
	if !fr.is(protowire.Fixed32Type) {
		return 0
	}
	v, n := protowire.ConsumeFixed32(fr.b)
	if n < 0 {
		fr.fail(n, "fixed32")
		return 0
	}
	fr.b = fr.b[n:]
	return math.Float32frombits(v)
}

// message decodes an embedded message field into m, returning true if it
// was decoded.
func (fr *fieldReader) message(m Message) bool {
	data, ok := fr.bytesOK()
	if !ok {
		return false
	}
	if err := m.Unmarshal(data); err != nil {
		fr.err = errors.Wrapf(err, "field %d", fr.num)
		return false
	}
	return true
}
