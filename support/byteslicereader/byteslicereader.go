// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package byteslicereader offers R, a cursor over an in-memory byte slice
// with zero-copy reads.
//
// Next and Peek return sections of R's underlying Buffer. Holding one of
// those slices means the Buffer must stay valid (and unmodified) for as long
// as the slice is in use. Setting AlwaysCopy makes every returned slice an
// independent copy instead.
package byteslicereader

import (
	"io"
)

// R reads sequentially from Buffer.
//
// R can be copied, creating a snapshot of its current position.
type R struct {
	// Buffer is the backing buffer for this reader.
	Buffer []byte

	// AlwaysCopy, if true, causes Next and Peek to return copies of their
	// backing data instead of direct references.
	AlwaysCopy bool

	// pos is R's position within Buffer.
	pos int
}

var _ io.ByteReader = (*R)(nil)

func (r *R) remainingSlice() []byte {
	if r.pos >= len(r.Buffer) {
		return nil
	}
	return r.Buffer[r.pos:]
}

// Offset returns the number of bytes consumed so far.
func (r *R) Offset() int { return r.pos }

// Remaining returns the number of bytes left to read.
func (r *R) Remaining() int { return len(r.remainingSlice()) }

// ReadByte implements io.ByteReader.
func (r *R) ReadByte() (byte, error) {
	if r.pos >= len(r.Buffer) {
		return 0, io.EOF
	}
	b := r.Buffer[r.pos]
	r.pos++
	return b, nil
}

// Peek returns up to the next n bytes without advancing r.
//
// If there are fewer than n bytes left, Peek returns all of them.
func (r *R) Peek(n int) []byte {
	v := r.remainingSlice()
	if n < len(v) {
		v = v[:n]
	}
	return r.maybeCopy(v)
}

// Next returns exactly the next n bytes, advancing r past them.
//
// If fewer than n bytes remain, Next returns io.ErrUnexpectedEOF and r is
// not advanced. If no bytes remain and n > 0, io.EOF is returned instead.
func (r *R) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, io.ErrUnexpectedEOF
	}

	v := r.remainingSlice()
	switch {
	case n == 0:
		return r.maybeCopy(v[:0]), nil
	case len(v) == 0:
		return nil, io.EOF
	case len(v) < n:
		return nil, io.ErrUnexpectedEOF
	}

	r.pos += n
	return r.maybeCopy(v[:n]), nil
}

func (r *R) maybeCopy(v []byte) []byte {
	if r.AlwaysCopy {
		return append([]byte(nil), v...)
	}
	return v
}
