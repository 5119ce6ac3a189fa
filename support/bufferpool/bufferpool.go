// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package bufferpool offers reusable scratch buffers.
package bufferpool

import (
	"sync"
)

// Pool maintains a pool of buffers. It offers a new buffer when one is
// unavailable.
type Pool struct {
	// Size is the initial capacity of new buffers in this pool.
	Size int

	base sync.Pool
}

// Get returns a buffer, allocating one if one is not available.
//
// The caller should return the buffer to the pool by calling its Release
// method when done with it.
func (bp *Pool) Get() *Buffer {
	b, ok := bp.base.Get().(*Buffer)
	if !ok {
		// Create a blank buffer. When it is released, it will be added back to
		// pool.
		b = &Buffer{
			bytes: make([]byte, 0, bp.Size),
		}
	}

	b.pool = bp
	return b
}

// Buffer is a growable byte buffer that can be released into a Pool for
// reuse.
//
// Failure to release Buffer will not cause a memory leak, but will prevent
// the reuse of the Buffer.
type Buffer struct {
	bytes []byte
	pool  *Pool
}

// Sized returns a slice of exactly size bytes backed by the Buffer, growing
// it if needed. Its contents are undefined, and it is only valid until the
// next call to Sized or Release.
func (b *Buffer) Sized(size int) []byte {
	if cap(b.bytes) < size {
		b.bytes = make([]byte, size)
	}
	return b.bytes[:size]
}

// Cap returns the number of bytes the Buffer can hold without growing.
func (b *Buffer) Cap() int { return cap(b.bytes) }

// Release returns the buffer to its buffer pool.
//
// A Buffer must only be released once.
func (b *Buffer) Release() {
	var pool *Pool
	pool, b.pool = b.pool, nil
	if pool == nil {
		panic("buffer released twice")
	}
	pool.base.Put(b)
}
