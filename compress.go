package usdz

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// Function variables for testing injection.
var (
	newFlateReader = func(r io.Reader) io.ReadCloser { return flate.NewReader(r) }
	newZstdReader  = func(r io.Reader) (*zstd.Decoder, error) { return zstd.NewReader(r) }
	readAll        = io.ReadAll
)

// inflate decodes compressed entry data. It enforces maxOut to prevent
// decompression bombs and checks the result against the size declared in the
// local file header.
func inflate(m Method, in []byte, declared, maxOut uint64) ([]byte, error) {
	if declared > maxOut {
		return nil, fmt.Errorf("%w: declared size %d exceeds limit", ErrLimitExceeded, declared)
	}
	var out []byte
	var err error
	switch m {
	case MethodDeflate:
		out, err = deflateDecompress(in, declared)
	case MethodZstd:
		out, err = zstdDecompress(in, declared)
	default:
		return nil, fmt.Errorf("%w: unsupported method %d", ErrDecompression, m)
	}
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) != declared {
		return nil, fmt.Errorf("%w: inflated length %d != declared %d", ErrDecompression, len(out), declared)
	}
	return out, nil
}

// deflateDecompress inflates a raw DEFLATE stream (ZIP method 8).
// It uses a LimitReader to prevent decompression beyond expected bytes.
func deflateDecompress(in []byte, expected uint64) ([]byte, error) {
	r := newFlateReader(bytes.NewReader(in))
	defer r.Close()
	b, err := readAll(io.LimitReader(r, int64(expected)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: deflate: %v", ErrDecompression, err)
	}
	if uint64(len(b)) > expected {
		return nil, fmt.Errorf("%w: deflate expanded beyond expected size", ErrDecompression)
	}
	return b, nil
}

// zstdDecompress decodes a Zstandard frame (ZIP method 93).
// It uses a LimitReader to prevent decompression beyond expected bytes.
func zstdDecompress(in []byte, expected uint64) ([]byte, error) {
	dec, err := newZstdReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrDecompression, err)
	}
	defer dec.Close()
	b, err := readAll(io.LimitReader(dec, int64(expected)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrDecompression, err)
	}
	if uint64(len(b)) > expected {
		return nil, fmt.Errorf("%w: zstd expanded beyond expected size", ErrDecompression)
	}
	return b, nil
}
