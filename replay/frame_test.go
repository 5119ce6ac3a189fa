// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"github.com/danjacques/demoparse/demo"
	"github.com/danjacques/demoparse/demo/demotest"
	"github.com/danjacques/demoparse/support/bufferpool"
	"github.com/danjacques/demoparse/support/byteslicereader"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Frame Reader", func() {
	Context("readSignature", func() {
		It("accepts the demo signature", func() {
			r := byteslicereader.R{Buffer: demotest.Preamble(demo.Header{})}
			Expect(readSignature(&r)).To(Succeed())
			Expect(r.Offset()).To(Equal(demo.SignatureSize))
		})

		It("rejects other data", func() {
			r := byteslicereader.R{Buffer: []byte("thesearen'tthebytesyou'relookingfor")}
			Expect(readSignature(&r)).To(Equal(ErrInvalidSignature))
		})

		It("rejects a short buffer", func() {
			r := byteslicereader.R{Buffer: []byte("PBDEM")}
			Expect(readSignature(&r)).To(Equal(ErrInvalidSignature))
		})
	})

	Context("readHeader", func() {
		It("reads the header values", func() {
			r := byteslicereader.R{Buffer: demotest.Preamble(demo.Header{FileInfoOffset: 4096, SpawnGroupsOffset: 2048})}
			Expect(readSignature(&r)).To(Succeed())

			h, err := readHeader(&r)
			Expect(err).ToNot(HaveOccurred())
			Expect(h).To(Equal(demo.Header{FileInfoOffset: 4096, SpawnGroupsOffset: 2048}))
			Expect(r.Remaining()).To(Equal(0))
		})

		It("fails on a short header", func() {
			r := byteslicereader.R{Buffer: []byte{1, 2, 3}}
			_, err := readHeader(&r)
			Expect(errors.Cause(err)).To(Equal(ErrTruncatedInput))
		})
	})

	Context("readFrame", func() {
		It("reads a frame", func() {
			buf := demotest.AppendFrame([]byte{0xEE}, demotest.Frame{
				Command: demo.CommandConsoleCmd,
				Tick:    1337,
				Payload: []byte("ohai"),
			})
			r := byteslicereader.R{Buffer: buf}
			_, _ = r.ReadByte()

			f, err := readFrame(&r, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(f.Offset).To(Equal(1))
			Expect(f.Command).To(Equal(demo.CommandConsoleCmd))
			Expect(f.Tick).To(Equal(uint32(1337)))
			Expect(f.Payload).To(Equal([]byte("ohai")))
			Expect(&f.Payload[0]).To(BeIdenticalTo(&buf[len(buf)-4]))
			Expect(r.Remaining()).To(Equal(0))
		})

		It("normalizes the sentinel tick to zero", func() {
			r := byteslicereader.R{Buffer: demotest.AppendFrame(nil, demotest.Frame{
				Command: demo.CommandSyncTick,
				Tick:    0xFFFFFFFF,
			})}

			f, err := readFrame(&r, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(f.Tick).To(Equal(uint32(0)))
			Expect(f.Payload).To(BeEmpty())
		})

		It("keeps the compression flag on the raw command", func() {
			r := byteslicereader.R{Buffer: demotest.AppendFrame(nil, demotest.Frame{
				Command: demo.CommandPacket | demo.CommandIsCompressed,
				Tick:    5,
				Payload: []byte("compressed"),
			})}

			f, err := readFrame(&r, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(f.Compressed()).To(BeTrue())
			Expect(f.Kind()).To(Equal(demo.CommandPacket))
		})

		It("fails when the payload is short", func() {
			buf := demotest.AppendFrame(nil, demotest.Frame{
				Command: demo.CommandPacket,
				Payload: []byte("0123456789"),
			})
			r := byteslicereader.R{Buffer: buf[:len(buf)-1]}

			_, err := readFrame(&r, 0)
			Expect(errors.Cause(err)).To(Equal(ErrTruncatedInput))
		})

		It("fails when the frame header is cut off", func() {
			buf := demotest.AppendFrame(nil, demotest.Frame{
				Command: demo.CommandPacket,
				Tick:    1 << 20,
				Payload: []byte("x"),
			})

			for cut := 1; cut < 4; cut++ {
				r := byteslicereader.R{Buffer: buf[:cut]}
				_, err := readFrame(&r, 0)
				Expect(errors.Cause(err)).To(Equal(ErrTruncatedInput), "cut at %d", cut)
			}
		})

		It("rejects payloads over the limit", func() {
			r := byteslicereader.R{Buffer: demotest.AppendFrame(nil, demotest.Frame{
				Command: demo.CommandPacket,
				Payload: make([]byte, 65),
			})}

			_, err := readFrame(&r, 64)
			Expect(errors.Cause(err)).To(Equal(ErrPayloadTooLarge))
		})
	})
})

var _ = Describe("Payload Decompressor", func() {
	data := []byte("the quick brown fox jumps over the lazy dog, the quick brown fox")

	It("leaves uncompressed frames alone", func() {
		f := Frame{Command: demo.CommandPacket, Payload: data}
		Expect(decompress(&f, 0, nil)).To(Succeed())
		Expect(&f.Payload[0]).To(BeIdenticalTo(&data[0]))
	})

	It("decompresses compressed frames", func() {
		f := Frame{
			Command: demo.CommandPacket | demo.CommandIsCompressed,
			Payload: snappy.Encode(nil, data),
		}
		Expect(decompress(&f, 0, nil)).To(Succeed())
		Expect(f.Payload).To(Equal(data))
	})

	It("decompresses into a scratch buffer", func() {
		var bp bufferpool.Pool
		scratch := bp.Get()
		defer scratch.Release()

		f := Frame{
			Command: demo.CommandPacket | demo.CommandIsCompressed,
			Payload: snappy.Encode(nil, data),
		}
		Expect(decompress(&f, 0, scratch)).To(Succeed())
		Expect(f.Payload).To(Equal(data))
		Expect(&f.Payload[0]).To(BeIdenticalTo(&scratch.Sized(1)[0]))
	})

	It("fails on a malformed block", func() {
		f := Frame{
			Command: demo.CommandPacket | demo.CommandIsCompressed,
			Payload: []byte{0x40, 0xFF, 0xFF, 0xFF},
		}
		Expect(errors.Cause(decompress(&f, 0, nil))).To(Equal(ErrDecompression))
	})

	It("fails on an empty compressed payload", func() {
		f := Frame{Command: demo.CommandPacket | demo.CommandIsCompressed}
		Expect(errors.Cause(decompress(&f, 0, nil))).To(Equal(ErrDecompression))
	})

	It("rejects blocks that decompress past the limit", func() {
		f := Frame{
			Command: demo.CommandPacket | demo.CommandIsCompressed,
			Payload: snappy.Encode(nil, data),
		}
		Expect(errors.Cause(decompress(&f, 8, nil))).To(Equal(ErrPayloadTooLarge))
	})
})
