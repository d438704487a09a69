/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package transform

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/golang/snappy"
	"github.com/suparena/persist/errors"
)

// Archiver compresses and decompresses byte blobs. Decompress(Compress(b)) must equal b.
type Archiver interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

type gzipArchiver struct {
	level int
}

// Gzip returns a gzip archiver using the given compression level.
func Gzip(level int) (Archiver, error) {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, errors.NewValidationError("level", "gzip level out of range")
	}
	return gzipArchiver{level: level}, nil
}

func (gzipArchiver) Name() string { return "gzip" }

func (a gzipArchiver) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, a.level)
	if err != nil {
		return nil, errors.NewTransformError(a.Name(), "compress", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, errors.NewTransformError(a.Name(), "compress", err)
	}
	if err := zw.Close(); err != nil {
		return nil, errors.NewTransformError(a.Name(), "compress", err)
	}
	return buf.Bytes(), nil
}

func (a gzipArchiver) Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewTransformError(a.Name(), "decompress", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.NewTransformError(a.Name(), "decompress", err)
	}
	return out, nil
}

type snappyArchiver struct{}

// Snappy returns an archiver using the snappy block format.
func Snappy() Archiver {
	return snappyArchiver{}
}

func (snappyArchiver) Name() string { return "snappy" }

func (snappyArchiver) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (a snappyArchiver) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.NewTransformError(a.Name(), "decompress", err)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}
