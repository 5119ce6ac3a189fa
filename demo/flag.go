// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demo

import (
	"strings"

	"github.com/spf13/pflag"
)

// CommandFlag is a pflag.Value that accumulates Commands into a CommandSet.
//
// It may be specified multiple times, and each value may be a
// comma-separated list.
type CommandFlag CommandSet

var _ pflag.Value = (*CommandFlag)(nil)

func (cf *CommandFlag) String() string {
	cmds := CommandSet(*cf).Sorted()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}

// Set implements pflag.Value.
func (cf *CommandFlag) Set(v string) error {
	cs := CommandSet(*cf)
	for _, part := range strings.Split(v, ",") {
		c, err := ParseCommand(part)
		if err != nil {
			return err
		}
		cs.Add(c)
	}
	*cf = CommandFlag(cs)
	return nil
}

// Type implements pflag.Value.
func (cf *CommandFlag) Type() string { return "demo.Command" }

// Value returns the set of commands held by this flag.
func (cf CommandFlag) Value() CommandSet { return CommandSet(cf) }

// CommandFlagValues returns the list of known command names, in command
// order.
func CommandFlagValues() string {
	var cs CommandSet
	for c := range commandNames {
		cs.Add(c)
	}
	cmds := cs.Sorted()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
