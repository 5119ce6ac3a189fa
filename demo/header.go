// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demo

import (
	"io"

	"github.com/lunixbochs/struc"
)

// Signature is the magic that every Source 2 demo file begins with.
const Signature = "PBDEMS2\x00"

// SignatureSize is the size, in bytes, of Signature.
const SignatureSize = len(Signature)

// HeaderSize is the size, in bytes, of the Header that follows Signature.
const HeaderSize = 8

// Header is the fixed-size block following the signature.
//
// Its values are offsets into the file that the game uses to seek directly
// to the summary messages. They are informational: nothing verifies them
// against the actual stream.
type Header struct {
	FileInfoOffset    int32 `struc:",little"`
	SpawnGroupsOffset int32 `struc:",little"`
}

// ReadHeader unpacks a Header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if err := struc.Unpack(r, &h); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Pack packs h into w.
func (h *Header) Pack(w io.Writer) error { return struc.Pack(w, h) }
