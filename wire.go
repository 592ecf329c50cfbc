package usdz

import (
	"encoding/binary"
	"fmt"
	"io"
)

// cursor reads little-endian fields from an in-memory archive. Every read is
// bounds-checked against the remaining buffer.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int { return len(c.buf) - c.off }

func (c *cursor) done() bool { return c.off == len(c.buf) }

func (c *cursor) need(n int, field string) error {
	if n < 0 || c.remaining() < n {
		return fmt.Errorf("%w: %s needs %d bytes at offset %d, have %d", ErrTruncatedInput, field, n, c.off, c.remaining())
	}
	return nil
}

func (c *cursor) peekU32(field string) (uint32, error) {
	if err := c.need(4, field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(c.buf[c.off:]), nil
}

// take consumes exactly n bytes. The returned slice aliases the buffer.
func (c *cursor) take(n int, field string) ([]byte, error) {
	if err := c.need(n, field); err != nil {
		return nil, err
	}
	b := c.buf[c.off : c.off+n : c.off+n]
	c.off += n
	return b, nil
}

// optional consumes n bytes and returns a private copy, or nil when n is 0.
func (c *cursor) optional(n int, field string) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b, err := c.take(n, field)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// getter decodes little-endian scalars from a fixed-size header block that
// has already been bounds-checked by cursor.take.
type getter []byte

func (g *getter) u16() uint16 {
	v := binary.LittleEndian.Uint16(*g)
	*g = (*g)[2:]
	return v
}

func (g *getter) u32() uint32 {
	v := binary.LittleEndian.Uint32(*g)
	*g = (*g)[4:]
	return v
}

// putter appends little-endian fields to a fixed-size header buffer.
type putter []byte

func (p putter) u16(v uint16) putter {
	binary.LittleEndian.PutUint16(p, v)
	return p[2:]
}

func (p putter) u32(v uint32) putter {
	binary.LittleEndian.PutUint32(p, v)
	return p[4:]
}

func writeLocalFileHeader(w io.Writer, h *LocalFileHeader) error {
	var buf [localFileHeaderLen]byte
	b := putter(buf[:])
	b = b.u32(SigLocalFileHeader)
	b = b.u16(h.VersionNeeded)
	b = b.u16(h.Flags)
	b = b.u16(uint16(h.Method))
	b = b.u16(h.ModTime)
	b = b.u16(h.ModDate)
	b = b.u32(h.CRC32)
	b = b.u32(h.CompressedSize)
	b = b.u32(h.UncompressedSize)
	b = b.u16(uint16(len(h.Name)))
	_ = b.u16(uint16(len(h.Extra)))
	return writeAll(w, buf[:], []byte(h.Name), h.Extra)
}

func writeCentralDirectoryHeader(w io.Writer, h *CentralDirectoryHeader) error {
	var buf [centralDirectoryHeaderLen]byte
	b := putter(buf[:])
	b = b.u32(SigCentralDirectoryHeader)
	b = b.u16(h.VersionMadeBy)
	b = b.u16(h.VersionNeeded)
	b = b.u16(h.Flags)
	b = b.u16(uint16(h.Method))
	b = b.u16(h.ModTime)
	b = b.u16(h.ModDate)
	b = b.u32(h.CRC32)
	b = b.u32(h.CompressedSize)
	b = b.u32(h.UncompressedSize)
	b = b.u16(uint16(len(h.Name)))
	b = b.u16(uint16(len(h.Extra)))
	b = b.u16(uint16(len(h.Comment)))
	b = b.u16(h.DiskNumberStart)
	b = b.u16(h.InternalAttributes)
	b = b.u32(h.ExternalAttributes)
	_ = b.u32(h.LocalHeaderOffset)
	return writeAll(w, buf[:], []byte(h.Name), h.Extra, h.Comment)
}

func writeEndOfCentralDirectory(w io.Writer, r *EndOfCentralDirectoryRecord) error {
	var buf [endOfCentralDirectoryLen]byte
	b := putter(buf[:])
	b = b.u32(SigEndOfCentralDirectory)
	b = b.u16(r.DiskNumber)
	b = b.u16(r.DirectoryDisk)
	b = b.u16(r.DiskEntries)
	b = b.u16(r.TotalEntries)
	b = b.u32(r.DirectorySize)
	b = b.u32(r.DirectoryOffset)
	_ = b.u16(uint16(len(r.Comment)))
	return writeAll(w, buf[:], r.Comment)
}

func writeAll(w io.Writer, parts ...[]byte) error {
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n < len(p) {
			return io.ErrShortWrite
		}
	}
	return nil
}
