// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demo

import (
	"bytes"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry", func() {
	It("registers every known command", func() {
		cmds := DefaultRegistry.Commands()
		Expect(cmds).To(HaveLen(len(commandNames)))
		for _, c := range cmds {
			_, ok := commandNames[c]
			Expect(ok).To(BeTrue(), "unnamed command %d", c)
		}
	})

	It("decodes signon and regular packets into the same type", func() {
		for _, c := range []Command{CommandPacket, CommandSignonPacket} {
			k, ok := DefaultRegistry.Lookup(c)
			Expect(ok).To(BeTrue())

			m, err := k.Decode(nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(m).To(BeAssignableToTypeOf(&Packet{}))
		}
	})

	It("looks up compressed commands by kind", func() {
		k, ok := DefaultRegistry.Lookup(CommandFileHeader | CommandIsCompressed)
		Expect(ok).To(BeTrue())
		Expect(k.Command).To(Equal(CommandFileHeader))
	})

	It("does not know unregistered commands", func() {
		_, ok := DefaultRegistry.Lookup(Command(16))
		Expect(ok).To(BeFalse())
	})

	It("refuses duplicate and invalid kinds", func() {
		_, err := NewRegistry(Kind{CommandStop, newPacket}, Kind{CommandStop, newPacket})
		Expect(err).To(HaveOccurred())

		_, err = NewRegistry(Kind{Command: CommandStop})
		Expect(err).To(HaveOccurred())

		_, err = NewRegistry(Kind{CommandStop | CommandIsCompressed, newPacket})
		Expect(err).To(HaveOccurred())
	})

	It("wraps decode failures", func() {
		k, _ := DefaultRegistry.Lookup(CommandConsoleCmd)
		_, err := k.Decode([]byte{0x0a, 0x05, 'a'})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("ConsoleCmd"))
	})
})

var _ = Describe("Header", func() {
	It("packs and unpacks little-endian offsets", func() {
		var buf bytes.Buffer
		h := Header{FileInfoOffset: 0x01020304, SpawnGroupsOffset: -1}
		Expect(h.Pack(&buf)).To(Succeed())
		Expect(buf.Bytes()).To(Equal([]byte{0x04, 0x03, 0x02, 0x01, 0xFF, 0xFF, 0xFF, 0xFF}))

		read, err := ReadHeader(&buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(read).To(Equal(h))
	})
})
