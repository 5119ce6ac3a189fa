// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	parserActiveGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "demoparse_parser_active",
		Help: "Count of parsers currently parsing a demo.",
	})

	parserResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demoparse_parser_results",
		Help: "Count of finished parses, by result.",
	}, []string{"result"})

	parserFrames = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demoparse_parser_frames",
		Help: "Count of frames read, by command.",
	}, []string{"command"})

	parserCompressedFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "demoparse_parser_compressed_frames",
		Help: "Count of frames whose payload was compressed.",
	})

	parserPayloadBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "demoparse_parser_payload_bytes",
		Help: "Count of (decompressed) payload bytes read.",
	})

	parserNotifications = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "demoparse_parser_notifications",
		Help: "Count of decoded messages delivered to a NotifyFunc.",
	})
)

// RegisterMonitoring registers all of this package's monitoring metrics.
func RegisterMonitoring(reg prometheus.Registerer) {
	reg.MustRegister(
		parserActiveGauge,
		parserResults,
		parserFrames,
		parserCompressedFrames,
		parserPayloadBytes,
		parserNotifications,
	)
}
