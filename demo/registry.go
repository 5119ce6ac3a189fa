// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demo

import (
	"sort"

	"github.com/pkg/errors"
)

// Kind describes how to decode the payload of one Command.
type Kind struct {
	// Command is the command this Kind decodes. It must not have
	// CommandIsCompressed set.
	Command Command

	// New returns a new, empty Message for this command.
	New func() Message
}

// Decode decodes data into a new Message.
func (k *Kind) Decode(data []byte) (Message, error) {
	m := k.New()
	if err := m.Unmarshal(data); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", k.Command)
	}
	return m, nil
}

// Registry is an immutable mapping of Command to Kind.
//
// Registry is safe for concurrent use.
type Registry struct {
	kinds map[Command]*Kind
}

// NewRegistry builds a Registry from kinds.
//
// It is an error for two kinds to share a Command, or for a Kind to be
// incomplete.
func NewRegistry(kinds ...Kind) (*Registry, error) {
	r := Registry{
		kinds: make(map[Command]*Kind, len(kinds)),
	}
	for i := range kinds {
		k := kinds[i]
		switch {
		case k.Command.IsCompressed():
			return nil, errors.Errorf("kind #%d: command %d has the compression bit set", i, uint32(k.Command))
		case k.New == nil:
			return nil, errors.Errorf("kind #%d (%s): no constructor", i, k.Command)
		}
		if _, ok := r.kinds[k.Command]; ok {
			return nil, errors.Errorf("kind #%d: duplicate command %s", i, k.Command)
		}
		r.kinds[k.Command] = &k
	}
	return &r, nil
}

// Lookup returns the Kind registered for c's Kind.
func (r *Registry) Lookup(c Command) (*Kind, bool) {
	k, ok := r.kinds[c.Kind()]
	return k, ok
}

// Commands returns all registered commands in ascending order.
func (r *Registry) Commands() []Command {
	cmds := make([]Command, 0, len(r.kinds))
	for c := range r.kinds {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
	return cmds
}

// DefaultRegistry holds every known demo command.
//
// CommandPacket and CommandSignonPacket both decode into *Packet.
var DefaultRegistry = mustNewRegistry(
	Kind{CommandStop, func() Message { return &Stop{} }},
	Kind{CommandFileHeader, func() Message { return &FileHeader{} }},
	Kind{CommandFileInfo, func() Message { return &FileInfo{} }},
	Kind{CommandSyncTick, func() Message { return &SyncTick{} }},
	Kind{CommandSendTables, func() Message { return &SendTables{} }},
	Kind{CommandClassInfo, func() Message { return &ClassInfo{} }},
	Kind{CommandStringTables, func() Message { return &StringTables{} }},
	Kind{CommandPacket, newPacket},
	Kind{CommandSignonPacket, newPacket},
	Kind{CommandConsoleCmd, func() Message { return &ConsoleCmd{} }},
	Kind{CommandCustomData, func() Message { return &CustomData{} }},
	Kind{CommandCustomDataCallbacks, func() Message { return &CustomDataCallbacks{} }},
	Kind{CommandUserCmd, func() Message { return &UserCmd{} }},
	Kind{CommandFullPacket, func() Message { return &FullPacket{} }},
	Kind{CommandSaveGame, func() Message { return &SaveGame{} }},
	Kind{CommandSpawnGroups, func() Message { return &SpawnGroups{} }},
)

func newPacket() Message { return &Packet{} }

func mustNewRegistry(kinds ...Kind) *Registry {
	r, err := NewRegistry(kinds...)
	if err != nil {
		panic(err)
	}
	return r
}
