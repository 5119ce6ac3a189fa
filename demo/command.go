// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demo

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Command is an outer demo command value (EDemoCommands).
//
// A raw Command read from a frame may have CommandIsCompressed set; Kind
// strips it.
type Command uint32

// Known demo commands.
const (
	CommandStop                Command = 0
	CommandFileHeader          Command = 1
	CommandFileInfo            Command = 2
	CommandSyncTick            Command = 3
	CommandSendTables          Command = 4
	CommandClassInfo           Command = 5
	CommandStringTables        Command = 6
	CommandPacket              Command = 7
	CommandSignonPacket        Command = 8
	CommandConsoleCmd          Command = 9
	CommandCustomData          Command = 10
	CommandCustomDataCallbacks Command = 11
	CommandUserCmd             Command = 12
	CommandFullPacket          Command = 13
	CommandSaveGame            Command = 14
	CommandSpawnGroups         Command = 15

	// CommandIsCompressed is the flag bit that marks a frame's payload as
	// Snappy-compressed. It is never a command on its own.
	CommandIsCompressed Command = 64
)

var commandNames = map[Command]string{
	CommandStop:                "Stop",
	CommandFileHeader:          "FileHeader",
	CommandFileInfo:            "FileInfo",
	CommandSyncTick:            "SyncTick",
	CommandSendTables:          "SendTables",
	CommandClassInfo:           "ClassInfo",
	CommandStringTables:        "StringTables",
	CommandPacket:              "Packet",
	CommandSignonPacket:        "SignonPacket",
	CommandConsoleCmd:          "ConsoleCmd",
	CommandCustomData:          "CustomData",
	CommandCustomDataCallbacks: "CustomDataCallbacks",
	CommandUserCmd:             "UserCmd",
	CommandFullPacket:          "FullPacket",
	CommandSaveGame:            "SaveGame",
	CommandSpawnGroups:         "SpawnGroups",
}

// IsCompressed returns true if the compression flag is set on c.
func (c Command) IsCompressed() bool { return c&CommandIsCompressed != 0 }

// Kind returns c with the compression flag cleared.
func (c Command) Kind() Command { return c &^ CommandIsCompressed }

func (c Command) String() string {
	name, ok := commandNames[c.Kind()]
	if !ok {
		name = "Command(" + strconv.FormatUint(uint64(c.Kind()), 10) + ")"
	}
	if c.IsCompressed() {
		name += "|Compressed"
	}
	return name
}

// ParseCommand parses a command from its name or its numeric value.
//
// Names are matched case-insensitively, with or without a "DEM_" prefix.
func ParseCommand(v string) (Command, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseUint(v, 10, 32); err == nil {
		return Command(n), nil
	}

	name := strings.TrimPrefix(strings.ToLower(v), "dem_")
	for c, cn := range commandNames {
		if strings.ToLower(cn) == name {
			return c, nil
		}
	}
	return 0, errors.Errorf("unknown demo command: %q", v)
}

// CommandSet is a set of Commands. A nil CommandSet is empty.
type CommandSet map[Command]struct{}

// Add adds c's Kind to the set.
func (cs *CommandSet) Add(c Command) {
	if *cs == nil {
		*cs = make(CommandSet)
	}
	(*cs)[c.Kind()] = struct{}{}
}

// Has returns true if c's Kind is in the set.
func (cs CommandSet) Has(c Command) bool {
	_, ok := cs[c.Kind()]
	return ok
}

// Sorted returns the members of cs in ascending order.
func (cs CommandSet) Sorted() []Command {
	cmds := make([]Command, 0, len(cs))
	for c := range cs {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
	return cmds
}
