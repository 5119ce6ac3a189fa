// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"github.com/danjacques/demoparse/support/byteslicereader"
)

// maxVarint32Size is the number of base-128 groups needed to hold any
// uint32.
const maxVarint32Size = 5

// readVarint32 reads a little-endian base-128 varint from r.
//
// At most maxVarint32Size bytes are consumed. The fifth byte always ends the
// value, even if its continuation bit is set, and only its low four bits
// survive the shift into 32 bits.
func readVarint32(r *byteslicereader.R) (uint32, error) {
	var v uint32
	for i := uint(0); i < maxVarint32Size; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, ErrTruncatedInput
		}

		v |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			break
		}
	}
	return v, nil
}
