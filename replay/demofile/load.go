// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demofile

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const (
	// Large buffer size (4MB), good for reading the file.
	largeBufferSize = 1024 * 1024 * 4
)

// Load reads the demo file at path into memory, undoing comp.
//
// If comp is CompressionAuto, the compression is chosen by DetectCompression.
func Load(path string, comp Compression) ([]byte, error) {
	if comp == CompressionAuto {
		comp = DetectCompression(path)
	}

	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening demo file")
	}
	defer func() {
		_ = fd.Close()
	}()

	// Size the buffer for the common case, which is an uncompressed file.
	var sizeHint int64
	if st, err := fd.Stat(); err == nil {
		sizeHint = st.Size()
	}

	data, err := read(fd, comp, sizeHint)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s demo %q", comp, path)
	}
	return data, nil
}

// Read reads a demo from r, undoing comp. CompressionAuto is not valid here,
// since there is no file name to detect from.
func Read(r io.Reader, comp Compression) ([]byte, error) {
	data, err := read(r, comp, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s demo", comp)
	}
	return data, nil
}

func read(base io.Reader, comp Compression, sizeHint int64) ([]byte, error) {
	br := bufio.NewReaderSize(base, largeBufferSize)

	var r io.Reader
	switch comp {
	case CompressionNone:
		r = br

	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "creating gzip reader")
		}
		defer func() {
			_ = gz.Close()
		}()
		r = gz

	case CompressionBzip2:
		r = bzip2.NewReader(br)

	case CompressionZstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, errors.Wrap(err, "creating zstd reader")
		}
		defer zr.Close()
		r = zr

	case CompressionSnappy:
		r = snappy.NewReader(br)

	default:
		return nil, errors.Errorf("unknown compression: %s", comp)
	}

	var buf bytes.Buffer
	if comp == CompressionNone && sizeHint > 0 {
		buf.Grow(int(sizeHint))
	}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "decompressing")
	}
	return buf.Bytes(), nil
}
