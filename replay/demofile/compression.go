// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demofile

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Compression is a whole-file compression scheme.
type Compression int32

const (
	// CompressionAuto chooses a Compression from the file's extension.
	CompressionAuto Compression = iota
	// CompressionNone reads the file as-is.
	CompressionNone
	// CompressionGzip is gzip (".gz").
	CompressionGzip
	// CompressionBzip2 is bzip2 (".bz2").
	CompressionBzip2
	// CompressionZstd is Zstandard (".zst").
	CompressionZstd
	// CompressionSnappy is the Snappy framing format (".sz").
	CompressionSnappy
)

var compressionNames = map[Compression]string{
	CompressionAuto:   "AUTO",
	CompressionNone:   "NONE",
	CompressionGzip:   "GZIP",
	CompressionBzip2:  "BZIP2",
	CompressionZstd:   "ZSTD",
	CompressionSnappy: "SNAPPY",
}

var compressionExtensions = map[string]Compression{
	".gz":  CompressionGzip,
	".bz2": CompressionBzip2,
	".zst": CompressionZstd,
	".sz":  CompressionSnappy,
}

func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return "Compression(" + strconv.Itoa(int(c)) + ")"
}

// ParseCompression returns the Compression named by v. Names are case
// insensitive.
func ParseCompression(v string) (Compression, bool) {
	v = strings.ToUpper(v)
	for c, name := range compressionNames {
		if name == v {
			return c, true
		}
	}
	return 0, false
}

// Compressions returns all Compression values, in order.
func Compressions() []Compression {
	all := make([]Compression, 0, len(compressionNames))
	for c := range compressionNames {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// DetectCompression returns the Compression implied by path's extension.
// Files with unrecognized extensions are not compressed.
func DetectCompression(path string) Compression {
	if c, ok := compressionExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return CompressionNone
}
