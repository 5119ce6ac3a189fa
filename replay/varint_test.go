// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"github.com/danjacques/demoparse/support/byteslicereader"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("readVarint32", func() {
	DescribeTable("decodes what proto encodes",
		func(v uint32, size int) {
			enc := proto.EncodeVarint(uint64(v))
			Expect(enc).To(HaveLen(size))

			r := byteslicereader.R{Buffer: append(enc, 0xAA)}
			dec, err := readVarint32(&r)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec).To(Equal(v))
			Expect(r.Offset()).To(Equal(size))
		},
		Entry("zero", uint32(0), 1),
		Entry("one", uint32(1), 1),
		Entry("largest single byte", uint32(127), 1),
		Entry("smallest two bytes", uint32(128), 2),
		Entry("300", uint32(300), 2),
		Entry("largest two bytes", uint32(1<<14-1), 2),
		Entry("three bytes", uint32(1<<14), 3),
		Entry("four bytes", uint32(1<<21), 4),
		Entry("five bytes", uint32(1<<28), 5),
		Entry("largest uint32", uint32(0xFFFFFFFF), 5),
	)

	It("stops after five bytes even if the continuation bit is set", func() {
		r := byteslicereader.R{Buffer: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}}
		v, err := readVarint32(&r)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint32(0xFFFFFFFF)))
		Expect(r.Offset()).To(Equal(5))
		Expect(r.Remaining()).To(Equal(1))
	})

	It("truncates values that need more than five groups", func() {
		r := byteslicereader.R{Buffer: proto.EncodeVarint(1<<32 | 7)}
		v, err := readVarint32(&r)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint32(7)))
		Expect(r.Offset()).To(Equal(5))
	})

	DescribeTable("fails on truncated input",
		func(buf []byte) {
			r := byteslicereader.R{Buffer: buf}
			_, err := readVarint32(&r)
			Expect(errors.Cause(err)).To(Equal(ErrTruncatedInput))
		},
		Entry("empty", []byte(nil)),
		Entry("one continuation byte", []byte{0x80}),
		Entry("four continuation bytes", []byte{0x80, 0x80, 0x80, 0x80}),
	)
})
