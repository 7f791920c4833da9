package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Supported compression formats for emitted documents
const (
	CompressionNone = ""
	CompressionGzip = "gzip"
	CompressionXz   = "xz"
	CompressionZstd = "zstd"
)

// CompressionExt returns the file extension for a compression format
func CompressionExt(format string) (string, error) {
	switch format {
	case CompressionNone:
		return "", nil
	case CompressionGzip:
		return ".gz", nil
	case CompressionXz:
		return ".xz", nil
	case CompressionZstd:
		return ".zst", nil
	default:
		return "", fmt.Errorf("unsupported compression %q", format)
	}
}

// Compress compresses data with the given format
func Compress(data []byte, format string) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error

	switch format {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionXz:
		w, err = xz.NewWriter(&buf)
	case CompressionZstd:
		w, err = zstd.NewWriter(&buf)
	default:
		return nil, fmt.Errorf("unsupported compression %q", format)
	}
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress
func Decompress(data []byte, format string) ([]byte, error) {
	src := bytes.NewReader(data)

	switch format {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		r, err := gzip.NewReader(src)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case CompressionXz:
		r, err := xz.NewReader(src)
		if err != nil {
			return nil, err
		}
		return io.ReadAll(r)
	case CompressionZstd:
		r, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("unsupported compression %q", format)
	}
}
