package usdz

import (
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (errReader) Close() error { return nil }

func TestInflate_InjectedErrors(t *testing.T) {
	plain := []byte("hello hello hello")

	origFlate := newFlateReader
	newFlateReader = func(io.Reader) io.ReadCloser { return errReader{} }
	_, err := inflate(MethodDeflate, deflate(t, plain), uint64(len(plain)), 1<<20)
	newFlateReader = origFlate
	if !errors.Is(err, ErrDecompression) {
		t.Fatalf("flate reader: expected ErrDecompression, got %v", err)
	}

	origZstd := newZstdReader
	newZstdReader = func(io.Reader) (*zstd.Decoder, error) { return nil, io.ErrClosedPipe }
	_, err = inflate(MethodZstd, zstdFrame(t, plain), uint64(len(plain)), 1<<20)
	newZstdReader = origZstd
	if !errors.Is(err, ErrDecompression) {
		t.Fatalf("zstd reader: expected ErrDecompression, got %v", err)
	}

	origReadAll := readAll
	readAll = func(io.Reader) ([]byte, error) { return nil, io.ErrClosedPipe }
	_, errDeflate := inflate(MethodDeflate, deflate(t, plain), uint64(len(plain)), 1<<20)
	_, errZstd := inflate(MethodZstd, zstdFrame(t, plain), uint64(len(plain)), 1<<20)
	readAll = origReadAll
	if !errors.Is(errDeflate, ErrDecompression) || !errors.Is(errZstd, ErrDecompression) {
		t.Fatalf("readAll: expected ErrDecompression, got %v / %v", errDeflate, errZstd)
	}
}

func TestEncode_ValidationBeforeWrite(t *testing.T) {
	w := &failingWriter{n: 0}
	err := Encode(w, []Entry{{Name: "tex.png", Data: []byte("x")}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEncode_OptionErrors(t *testing.T) {
	entries := sampleEntries()
	if err := Encode(io.Discard, entries, WithAlignment(-1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative alignment: expected ErrValidation, got %v", err)
	}
	if err := Encode(io.Discard, entries, WithAlignment(1<<20)); !errors.Is(err, ErrValidation) {
		t.Fatalf("huge alignment: expected ErrValidation, got %v", err)
	}
	long := make([]byte, 1<<16)
	if err := Encode(io.Discard, entries, WithComment(string(long))); !errors.Is(err, ErrValidation) {
		t.Fatalf("long comment: expected ErrValidation, got %v", err)
	}
	if err := Encode(io.Discard, entries, WithWriteLimits(Limits{MaxEntries: 2})); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("MaxEntries: expected ErrLimitExceeded, got %v", err)
	}
	if err := Encode(io.Discard, entries, WithWriteLimits(Limits{MaxEntrySize: 4})); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("MaxEntrySize: expected ErrLimitExceeded, got %v", err)
	}
}
