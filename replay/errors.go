// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"github.com/pkg/errors"
)

// Errors returned by Parser. They are wrapped with frame context; use
// errors.Cause to compare against them.
var (
	// ErrInvalidSignature means the buffer does not begin with the demo
	// signature. Nothing past the signature is read.
	ErrInvalidSignature = errors.New("invalid demo signature")

	// ErrTruncatedInput means the buffer ended in the middle of the header or
	// a frame.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrDecompression means a compressed payload could not be decompressed.
	ErrDecompression = errors.New("could not decompress payload")

	// ErrUnknownCommand means a frame's command is not in the registry. The
	// demo is either corrupt or newer than the registry.
	ErrUnknownCommand = errors.New("unknown demo command")

	// ErrMessageDecode means a known command's payload could not be decoded
	// into its message.
	ErrMessageDecode = errors.New("could not decode message")

	// ErrPayloadTooLarge means a payload exceeded Parser.MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrParserUsed is returned when Parse is called more than once on the
	// same Parser.
	ErrParserUsed = errors.New("parser has already been used")
)

// errorLabel returns the metric label for a Parse error.
func errorLabel(err error) string {
	switch errors.Cause(err) {
	case ErrInvalidSignature:
		return "invalid_signature"
	case ErrTruncatedInput:
		return "truncated"
	case ErrDecompression:
		return "decompression"
	case ErrUnknownCommand:
		return "unknown_command"
	case ErrMessageDecode:
		return "message_decode"
	case ErrPayloadTooLarge:
		return "payload_too_large"
	default:
		return "error"
	}
}
