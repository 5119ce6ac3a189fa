// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demoinfo

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/danjacques/demoparse/demo"
	"github.com/danjacques/demoparse/replay"

	"github.com/dustin/go-humanize"
)

type commandStats struct {
	frames     int
	compressed int
	bytes      int64
}

// summary accumulates statistics about a parsed demo.
type summary struct {
	fileHeader *demo.FileHeader
	fileInfo   *demo.FileInfo

	commands map[demo.Command]*commandStats
	signon   int
}

// install registers the summary's handlers with m.
func (s *summary) install(m *replay.Mux) {
	m.Default = s.count
	m.Handle(demo.CommandFileHeader, func(n *replay.Notification) {
		s.count(n)
		s.fileHeader = n.Message.(*demo.FileHeader)
	})
	m.Handle(demo.CommandFileInfo, func(n *replay.Notification) {
		s.count(n)
		s.fileInfo = n.Message.(*demo.FileInfo)
	})
}

func (s *summary) count(n *replay.Notification) {
	if s.commands == nil {
		s.commands = make(map[demo.Command]*commandStats)
	}
	st := s.commands[n.Command]
	if st == nil {
		st = &commandStats{}
		s.commands[n.Command] = st
	}

	st.frames++
	st.bytes += int64(len(n.Payload))
	if n.Compressed {
		st.compressed++
	}
	if n.IsSignon() {
		s.signon++
	}
}

// write writes a human-readable summary of the parse to w.
func (s *summary) write(w io.Writer, p *replay.Parser) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	h := p.Header()
	fmt.Fprintf(tw, "Header:\tfile info @%d, spawn groups @%d\n", h.FileInfoOffset, h.SpawnGroupsOffset)
	if fh := s.fileHeader; fh != nil {
		fmt.Fprintf(tw, "Server:\t%s\n", fh.ServerName)
		fmt.Fprintf(tw, "Map:\t%s\n", fh.MapName)
		fmt.Fprintf(tw, "Game:\t%s (build %d, protocol %d)\n", fh.Game, fh.BuildNum, fh.NetworkProtocol)
	}
	if fi := s.fileInfo; fi != nil {
		fmt.Fprintf(tw, "Playback:\t%.2fs, %d ticks, %d frames\n", fi.PlaybackTime, fi.PlaybackTicks, fi.PlaybackFrames)
	}
	fmt.Fprintf(tw, "Signon packets:\t%d\n", s.signon)
	fmt.Fprintf(tw, "Final tick:\t%d (%s)\n", p.CurrentTick(), p.State())
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(tw, "COMMAND\tFRAMES\tCOMPRESSED\tPAYLOAD")
	var total commandStats
	for _, c := range s.sortedCommands() {
		st := s.commands[c]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", c, st.frames, st.compressed, humanize.Bytes(uint64(st.bytes)))

		total.frames += st.frames
		total.compressed += st.compressed
		total.bytes += st.bytes
	}
	fmt.Fprintf(tw, "Total\t%d\t%d\t%s\n", total.frames, total.compressed, humanize.Bytes(uint64(total.bytes)))
	return tw.Flush()
}

func (s *summary) sortedCommands() []demo.Command {
	var cs demo.CommandSet
	for c := range s.commands {
		cs.Add(c)
	}
	return cs.Sorted()
}
