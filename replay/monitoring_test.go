// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"github.com/danjacques/demoparse/demo"
	"github.com/danjacques/demoparse/demo/demotest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Monitoring", func() {
	It("registers with a Registry", func() {
		reg := prometheus.NewRegistry()
		Expect(func() { RegisterMonitoring(reg) }).ToNot(Panic())

		// Registering twice is a programming error.
		Expect(func() { RegisterMonitoring(reg) }).To(Panic())
	})

	It("counts frames, bytes, and results", func() {
		payload := demotest.Packet([]byte("some packet data"))
		buf := demotest.Build(
			demotest.Frame{Command: demo.CommandSignonPacket, Tick: 0, Payload: payload},
			demotest.Frame{Command: demo.CommandPacket | demo.CommandIsCompressed, Tick: 1, Payload: payload},
		)

		frames := testutil.ToFloat64(parserFrames.WithLabelValues("Packet"))
		signon := testutil.ToFloat64(parserFrames.WithLabelValues("SignonPacket"))
		compressed := testutil.ToFloat64(parserCompressedFrames)
		bytes := testutil.ToFloat64(parserPayloadBytes)
		notifications := testutil.ToFloat64(parserNotifications)
		finished := testutil.ToFloat64(parserResults.WithLabelValues("finished"))
		failed := testutil.ToFloat64(parserResults.WithLabelValues("invalid_signature"))

		Expect(NewParser(func(*Notification) {}).Parse(buf)).To(Succeed())
		Expect(NewParser(nil).Parse([]byte("garbage"))).ToNot(Succeed())

		Expect(testutil.ToFloat64(parserFrames.WithLabelValues("Packet"))).To(Equal(frames + 1))
		Expect(testutil.ToFloat64(parserFrames.WithLabelValues("SignonPacket"))).To(Equal(signon + 1))
		Expect(testutil.ToFloat64(parserCompressedFrames)).To(Equal(compressed + 1))
		Expect(testutil.ToFloat64(parserPayloadBytes)).To(Equal(bytes + float64(2*len(payload))))
		Expect(testutil.ToFloat64(parserNotifications)).To(Equal(notifications + 2))
		Expect(testutil.ToFloat64(parserResults.WithLabelValues("finished"))).To(Equal(finished + 1))
		Expect(testutil.ToFloat64(parserResults.WithLabelValues("invalid_signature"))).To(Equal(failed + 1))
		Expect(testutil.ToFloat64(parserActiveGauge)).To(BeZero())
	})
})
