// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package demofile loads demo files from disk.
//
// Demos are often distributed with whole-file compression applied (for
// example, "match.dem.bz2"). Load undoes that compression and returns the
// raw demo bytes, ready for a replay.Parser.
package demofile
