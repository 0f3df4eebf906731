package artifact

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression suffixes recognised on artifact names.
const (
	SuffixZstd = ".zst"
	SuffixGzip = ".gz"
	SuffixLZ4  = ".lz4"
)

// BaseName strips a compression suffix, so "model.onnx.zst" reports as "model.onnx".
func BaseName(name string) string {
	switch ext := filepath.Ext(name); ext {
	case SuffixZstd, SuffixGzip, SuffixLZ4:
		return strings.TrimSuffix(name, ext)
	}
	return name
}

func decompressor(name string, r io.Reader) (io.Reader, func(), error) {
	switch filepath.Ext(name) {
	case SuffixZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	case SuffixGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case SuffixLZ4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}
