package usdz

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"unicode/utf8"
)

const (
	// USDZ requires every payload to start on a 64-byte boundary.
	defaultAlignment = 64
	maxAlignment     = 4096

	// paddingExtraID tags the extra field used to align payloads.
	paddingExtraID uint16 = 0x1986

	zipVersion20 uint16 = 20
)

// Encode writes entries to w as a store-only USDZ package.
//
// Entries are validated before anything is written. Validation checks that:
//   - there is at least one entry and the first is a USD layer
//   - names are unique, relative, normalized forward-slash UTF-8 paths
//   - entry count and sizes are within limits; the count never exceeds
//     65535, the most the end record can hold
//
// Each payload is padded to a 64-byte boundary through the local header's
// extra field, as USDZ readers expect to map payloads directly. The archive
// ends with a central directory and an end of central directory record, so
// the output is a regular ZIP file.
//
// Use WriteOption functions to customize this behavior:
//   - WithWriteLimits(l): set custom size limits
//   - WithComment(s): set the archive comment
//   - WithModTime(t): default modification time for entries
//   - WithAlignment(n): change payload alignment
func Encode(w io.Writer, entries []Entry, opts ...WriteOption) error {
	cfg := writeConfig{limits: defaultLimits(), align: defaultAlignment}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	if err := validateEntries(entries, cfg.limits); err != nil {
		return err
	}
	if cfg.align < 0 || cfg.align > maxAlignment {
		return fmt.Errorf("%w: alignment %d out of range", ErrValidation, cfg.align)
	}
	if len(cfg.comment) > math.MaxUint16 {
		return fmt.Errorf("%w: comment too long", ErrValidation)
	}

	cw := &countWriter{w: w}
	dir := make([]*CentralDirectoryHeader, 0, len(entries))
	for _, e := range entries {
		offset := cw.n
		if offset > math.MaxUint32 {
			return fmt.Errorf("%w: archive exceeds 4 GiB", ErrLimitExceeded)
		}
		mod := e.Modified
		if mod.IsZero() {
			mod = cfg.modified
		}
		dosDate, dosTime := timeToMsDosTime(mod)

		var flags uint16
		if !isASCII(e.Name) {
			flags |= flagUTF8
		}

		lh := &LocalFileHeader{
			VersionNeeded:    zipVersion20,
			Flags:            flags,
			Method:           MethodStore,
			ModTime:          dosTime,
			ModDate:          dosDate,
			CRC32:            crc32.ChecksumIEEE(e.Data),
			CompressedSize:   uint32(len(e.Data)),
			UncompressedSize: uint32(len(e.Data)),
			Name:             e.Name,
			Extra:            paddingExtra(offset+localFileHeaderLen+int64(len(e.Name)), cfg.align),
		}
		if err := writeLocalFileHeader(cw, lh); err != nil {
			return err
		}
		if err := writeAll(cw, e.Data); err != nil {
			return err
		}

		dir = append(dir, &CentralDirectoryHeader{
			VersionMadeBy:     zipVersion20,
			VersionNeeded:     lh.VersionNeeded,
			Flags:             lh.Flags,
			Method:            lh.Method,
			ModTime:           lh.ModTime,
			ModDate:           lh.ModDate,
			CRC32:             lh.CRC32,
			CompressedSize:    lh.CompressedSize,
			UncompressedSize:  lh.UncompressedSize,
			Name:              lh.Name,
			LocalHeaderOffset: uint32(offset),
		})
	}

	dirOffset := cw.n
	for _, h := range dir {
		if err := writeCentralDirectoryHeader(cw, h); err != nil {
			return err
		}
	}
	dirSize := cw.n - dirOffset
	if dirOffset > math.MaxUint32 || dirSize > math.MaxUint32 {
		return fmt.Errorf("%w: archive exceeds 4 GiB", ErrLimitExceeded)
	}

	return writeEndOfCentralDirectory(cw, &EndOfCentralDirectoryRecord{
		DiskEntries:     uint16(len(dir)),
		TotalEntries:    uint16(len(dir)),
		DirectorySize:   uint32(dirSize),
		DirectoryOffset: uint32(dirOffset),
		Comment:         cfg.comment,
	})
}

// paddingExtra returns an extra field that moves a payload starting at
// offset (before the extra field) onto an align-byte boundary, or nil.
func paddingExtra(offset int64, align int) []byte {
	if align <= 1 {
		return nil
	}
	pad := int((int64(align) - offset%int64(align)) % int64(align))
	if pad == 0 {
		return nil
	}
	// An extra field block needs at least its 4-byte header.
	for pad < 4 {
		pad += align
	}
	extra := make([]byte, pad)
	binary.LittleEndian.PutUint16(extra[0:2], paddingExtraID)
	binary.LittleEndian.PutUint16(extra[2:4], uint16(pad-4))
	return extra
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
