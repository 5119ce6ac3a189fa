// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package demo describes the outer messages of a Source 2 demo ("replay")
// file.
//
// Each frame of a demo file carries a Command identifying the message that
// its payload encodes. The set of commands is closed: Registry maps each
// known Command to a Kind, which knows how to instantiate and decode that
// command's Message.
//
// Messages are protobuf-encoded. Only the outer demo messages are described
// here, and only their commonly used fields; fields that a Message does not
// know about are skipped while decoding, as a generated protobuf binding
// would. Byte fields reference the buffer they were decoded from.
package demo
