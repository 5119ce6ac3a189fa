// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demo_test

import (
	"github.com/danjacques/demoparse/demo"
	"github.com/danjacques/demoparse/demo/demotest"

	"google.golang.org/protobuf/encoding/protowire"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

var _ = Describe("Messages", func() {
	It("decodes a FileHeader", func() {
		expected := demo.FileHeader{
			DemoFileStamp:   "PBDEMS2",
			NetworkProtocol: 47,
			ServerName:      "Valve Dota 2 Server",
			MapName:         "start",
			GameDirectory:   "dota",
			BuildNum:        8842,
			ServerStartTick: -3,
		}

		var h demo.FileHeader
		Expect(h.Unmarshal(demotest.FileHeader(&expected))).To(Succeed())
		Expect(h).To(Equal(expected))
	})

	It("skips unknown fields of every wire type", func() {
		var b []byte
		b = protowire.AppendTag(b, 99, protowire.VarintType)
		b = protowire.AppendVarint(b, 12345)
		b = protowire.AppendTag(b, 98, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, 1)
		b = protowire.AppendTag(b, 97, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, 1)
		b = appendString(b, 96, "ignored")
		b = append(b, demotest.ConsoleCmd("status")...)

		var cmd demo.ConsoleCmd
		Expect(cmd.Unmarshal(b)).To(Succeed())
		Expect(cmd.CmdString).To(Equal("status"))
	})

	It("treats a field with the wrong wire type as unknown", func() {
		var b []byte
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, 7)

		var cmd demo.ConsoleCmd
		Expect(cmd.Unmarshal(b)).To(Succeed())
		Expect(cmd.CmdString).To(BeEmpty())
	})

	It("fails on a truncated field", func() {
		b := demotest.ConsoleCmd("status")
		var cmd demo.ConsoleCmd
		Expect(cmd.Unmarshal(b[:len(b)-2])).ToNot(Succeed())
	})

	It("fails on trailing garbage in an empty message", func() {
		var st demo.SyncTick
		Expect(st.Unmarshal([]byte{0xFF})).ToNot(Succeed())
		Expect(st.Unmarshal(nil)).To(Succeed())
	})

	It("decodes FileInfo", func() {
		expected := demo.FileInfo{
			PlaybackTime:   1234.5,
			PlaybackTicks:  37035,
			PlaybackFrames: 18517,
			GameInfo:       []byte{0x0a, 0x00},
		}

		var fi demo.FileInfo
		Expect(fi.Unmarshal(demotest.FileInfo(&expected))).To(Succeed())
		Expect(fi).To(Equal(expected))
	})

	It("decodes a Packet's data field", func() {
		var pkt demo.Packet
		Expect(pkt.Unmarshal(demotest.Packet([]byte("net messages")))).To(Succeed())
		Expect(pkt.Data).To(Equal([]byte("net messages")))
	})

	It("decodes nested string tables within a FullPacket", func() {
		item := appendString(nil, 1, "userinfo-1")
		table := appendString(nil, 1, "userinfo")
		table = appendMessage(table, 2, item)
		table = appendMessage(table, 3, appendString(nil, 1, "client"))
		tables := appendMessage(nil, 1, table)

		var b []byte
		b = appendMessage(b, 1, tables)
		b = appendMessage(b, 2, demotest.Packet([]byte{1, 2, 3}))

		var fp demo.FullPacket
		Expect(fp.Unmarshal(b)).To(Succeed())
		Expect(fp.Packet).To(Equal(&demo.Packet{Data: []byte{1, 2, 3}}))
		Expect(fp.StringTable.Tables).To(HaveLen(1))

		t := fp.StringTable.Tables[0]
		Expect(t.TableName).To(Equal("userinfo"))
		Expect(t.Items).To(Equal([]*demo.StringTableItem{{Str: "userinfo-1"}}))
		Expect(t.ItemsClientside).To(Equal([]*demo.StringTableItem{{Str: "client"}}))
	})

	It("decodes repeated fields", func() {
		var b []byte
		b = appendString(b, 1, "a")
		b = appendString(b, 1, "b")

		var cb demo.CustomDataCallbacks
		Expect(cb.Unmarshal(b)).To(Succeed())
		Expect(cb.SaveIDs).To(Equal([]string{"a", "b"}))

		var sg demo.SpawnGroups
		Expect(sg.Unmarshal(appendMessage(appendMessage(nil, 3, []byte{1}), 3, []byte{2}))).To(Succeed())
		Expect(sg.Msgs).To(Equal([][]byte{{1}, {2}}))
	})

	It("replaces previous contents on Unmarshal", func() {
		cmd := demo.ConsoleCmd{CmdString: "old"}
		Expect(cmd.Unmarshal(nil)).To(Succeed())
		Expect(cmd.CmdString).To(BeEmpty())
	})
})
