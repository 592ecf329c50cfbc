package usdz

import (
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DecodeArchive parses buf as a flat sequence of ZIP records.
//
// The decoding process reads the 4-byte signature at the cursor and decodes
// the record it names:
//   - local file header: fixed fields, name, extra field, then the entry data
//   - central directory header: fixed fields, name, extra field, comment
//   - end of central directory record: fixed fields, comment
//
// Decoding stops successfully when the cursor lands exactly on the end of
// buf after a record.
//
// Stored entries always carry a payload. Deflate and zstd entries carry one
// only when WithInflate(true) is given; otherwise their data is kept in
// LocalFileHeader.Stored and the payload is absent.
//
// DecodeArchive returns ErrUnrecognizedSignature for an unknown record,
// ErrTruncatedInput when a declared length runs past the buffer (including an
// empty buffer), ErrInvalidEncoding for a non-UTF-8 entry name and
// ErrLimitExceeded when a limit is exceeded. No partial archive is returned.
func DecodeArchive(buf []byte, opts ...ReadOption) (*Archive, error) {
	cfg := readConfig{limits: defaultLimits(), logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	c := &cursor{buf: buf}
	var records []Record
	entries := 0
	for {
		sig, err := c.peekU32("record signature")
		if err != nil {
			return nil, err
		}
		var rec Record
		switch sig {
		case SigLocalFileHeader:
			entries++
			if entries > cfg.limits.MaxEntries {
				return nil, fmt.Errorf("%w: more than %d entries", ErrLimitExceeded, cfg.limits.MaxEntries)
			}
			h, err := readLocalFileHeader(c, &cfg)
			if err != nil {
				return nil, err
			}
			cfg.logger.Debug("local file header",
				slog.Int("offset", h.Offset),
				slog.String("name", h.Name),
				slog.Int("method", int(h.Method)),
				slog.Bool("payload", h.HasPayload()))
			rec = h
		case SigCentralDirectoryHeader:
			h, err := readCentralDirectoryHeader(c)
			if err != nil {
				return nil, err
			}
			cfg.logger.Debug("central directory header",
				slog.Int("offset", h.Offset),
				slog.String("name", h.Name))
			rec = h
		case SigEndOfCentralDirectory:
			r, err := readEndOfCentralDirectory(c)
			if err != nil {
				return nil, err
			}
			cfg.logger.Debug("end of central directory",
				slog.Int("offset", r.Offset),
				slog.Int("entries", int(r.TotalEntries)))
			rec = r
		default:
			return nil, fmt.Errorf("%w: 0x%08x at offset %d", ErrUnrecognizedSignature, sig, c.off)
		}
		records = append(records, rec)
		if c.done() {
			break
		}
	}
	return &Archive{records: records}, nil
}

func readLocalFileHeader(c *cursor, cfg *readConfig) (*LocalFileHeader, error) {
	h := &LocalFileHeader{Offset: c.off}
	b, err := c.take(localFileHeaderLen, "local file header")
	if err != nil {
		return nil, err
	}
	g := getter(b[4:])
	h.VersionNeeded = g.u16()
	h.Flags = g.u16()
	h.Method = Method(g.u16())
	h.ModTime = g.u16()
	h.ModDate = g.u16()
	h.CRC32 = g.u32()
	h.CompressedSize = g.u32()
	h.UncompressedSize = g.u32()
	h.NameLength = g.u16()
	h.ExtraLength = g.u16()

	if h.Name, err = readName(c, int(h.NameLength), "local file name"); err != nil {
		return nil, err
	}
	if h.Extra, err = c.optional(int(h.ExtraLength), "local extra field"); err != nil {
		return nil, err
	}

	size := h.CompressedSize
	if h.Method == MethodStore {
		size = h.UncompressedSize
	}
	if size > cfg.limits.MaxEntrySize {
		return nil, fmt.Errorf("%w: entry %q declares %d bytes", ErrLimitExceeded, h.Name, size)
	}
	data, err := c.take(int(size), "entry data")
	if err != nil {
		return nil, err
	}
	h.Stored = append([]byte{}, data...)

	if h.Flags&flagDataDescriptor != 0 && size == 0 {
		cfg.logger.Debug("entry sizes deferred to a data descriptor", slog.String("name", h.Name))
	}
	switch {
	case h.Encrypted():
	case h.Method == MethodStore:
		h.Payload = h.Stored
	case cfg.inflate:
		if h.Payload, err = inflate(h.Method, h.Stored, uint64(h.UncompressedSize), cfg.limits.MaxInflatedSize); err != nil {
			return nil, fmt.Errorf("entry %q: %w", h.Name, err)
		}
	}
	return h, nil
}

func readCentralDirectoryHeader(c *cursor) (*CentralDirectoryHeader, error) {
	h := &CentralDirectoryHeader{Offset: c.off}
	b, err := c.take(centralDirectoryHeaderLen, "central directory header")
	if err != nil {
		return nil, err
	}
	g := getter(b[4:])
	h.VersionMadeBy = g.u16()
	h.VersionNeeded = g.u16()
	h.Flags = g.u16()
	h.Method = Method(g.u16())
	h.ModTime = g.u16()
	h.ModDate = g.u16()
	h.CRC32 = g.u32()
	h.CompressedSize = g.u32()
	h.UncompressedSize = g.u32()
	h.NameLength = g.u16()
	h.ExtraLength = g.u16()
	h.CommentLength = g.u16()
	h.DiskNumberStart = g.u16()
	h.InternalAttributes = g.u16()
	h.ExternalAttributes = g.u32()
	h.LocalHeaderOffset = g.u32()

	if h.Name, err = readName(c, int(h.NameLength), "central directory name"); err != nil {
		return nil, err
	}
	if h.Extra, err = c.optional(int(h.ExtraLength), "central directory extra field"); err != nil {
		return nil, err
	}
	if h.Comment, err = c.optional(int(h.CommentLength), "central directory comment"); err != nil {
		return nil, err
	}
	return h, nil
}

func readEndOfCentralDirectory(c *cursor) (*EndOfCentralDirectoryRecord, error) {
	r := &EndOfCentralDirectoryRecord{Offset: c.off}
	b, err := c.take(endOfCentralDirectoryLen, "end of central directory record")
	if err != nil {
		return nil, err
	}
	g := getter(b[4:])
	r.DiskNumber = g.u16()
	r.DirectoryDisk = g.u16()
	r.DiskEntries = g.u16()
	r.TotalEntries = g.u16()
	r.DirectorySize = g.u32()
	r.DirectoryOffset = g.u32()
	r.CommentLength = g.u16()

	if r.Comment, err = c.optional(int(r.CommentLength), "archive comment"); err != nil {
		return nil, err
	}
	return r, nil
}

func readName(c *cursor, n int, field string) (string, error) {
	b, err := c.take(n, field)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %s at offset %d is not valid UTF-8", ErrInvalidEncoding, field, c.off-n)
	}
	return string(b), nil
}
