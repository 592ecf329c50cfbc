package usdz

import (
	"fmt"
	"time"
)

// Record signatures, as read little-endian from the first four bytes of a record.
const (
	SigLocalFileHeader        uint32 = 0x04034b50
	SigCentralDirectoryHeader uint32 = 0x02014b50
	SigEndOfCentralDirectory  uint32 = 0x06054b50
)

const (
	localFileHeaderLen        = 30
	centralDirectoryHeaderLen = 46
	endOfCentralDirectoryLen  = 22
)

// Method is a ZIP compression method ID.
type Method uint16

const (
	MethodStore   Method = 0
	MethodDeflate Method = 8
	MethodZstd    Method = 93
)

func (m Method) String() string {
	switch m {
	case MethodStore:
		return "store"
	case MethodDeflate:
		return "deflate"
	case MethodZstd:
		return "zstd"
	default:
		return fmt.Sprintf("method(%d)", uint16(m))
	}
}

const (
	flagEncrypted      uint16 = 0x0001
	flagDataDescriptor uint16 = 0x0008
	flagUTF8           uint16 = 0x0800
)

// Record is one of *LocalFileHeader, *CentralDirectoryHeader or
// *EndOfCentralDirectoryRecord. The set is closed.
type Record interface {
	Signature() uint32
	record()
}

type LocalFileHeader struct {
	Offset int

	VersionNeeded    uint16
	Flags            uint16
	Method           Method
	ModTime          uint16
	ModDate          uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	NameLength       uint16
	ExtraLength      uint16

	Name  string
	Extra []byte

	// Stored is the data that followed the header in the archive:
	// UncompressedSize bytes for MethodStore, CompressedSize bytes otherwise.
	Stored []byte

	// Payload is the decoded entry content. It is nil unless the entry is
	// stored uncompressed and unencrypted, or was inflated on request.
	Payload []byte
}

func (*LocalFileHeader) Signature() uint32 { return SigLocalFileHeader }
func (*LocalFileHeader) record() {}

// HasPayload reports whether the entry content was decoded.
func (h *LocalFileHeader) HasPayload() bool { return h.Payload != nil }

// Encrypted reports whether the entry sets the traditional encryption flag.
func (h *LocalFileHeader) Encrypted() bool { return h.Flags&flagEncrypted != 0 }

// Modified returns the MS-DOS modification time of the entry.
func (h *LocalFileHeader) Modified() time.Time { return msDosTimeToTime(h.ModDate, h.ModTime) }

type CentralDirectoryHeader struct {
	Offset int

	VersionMadeBy      uint16
	VersionNeeded      uint16
	Flags              uint16
	Method             Method
	ModTime            uint16
	ModDate            uint16
	CRC32              uint32
	CompressedSize     uint32
	UncompressedSize   uint32
	NameLength         uint16
	ExtraLength        uint16
	CommentLength      uint16
	DiskNumberStart    uint16
	InternalAttributes uint16
	ExternalAttributes uint32
	LocalHeaderOffset  uint32

	Name    string
	Extra   []byte
	Comment []byte
}

func (*CentralDirectoryHeader) Signature() uint32 { return SigCentralDirectoryHeader }
func (*CentralDirectoryHeader) record() {}

// Modified returns the MS-DOS modification time of the entry.
func (h *CentralDirectoryHeader) Modified() time.Time {
	return msDosTimeToTime(h.ModDate, h.ModTime)
}

type EndOfCentralDirectoryRecord struct {
	Offset int

	DiskNumber      uint16
	DirectoryDisk   uint16
	DiskEntries     uint16
	TotalEntries    uint16
	DirectorySize   uint32
	DirectoryOffset uint32
	CommentLength   uint16

	Comment []byte
}

func (*EndOfCentralDirectoryRecord) Signature() uint32 { return SigEndOfCentralDirectory }
func (*EndOfCentralDirectoryRecord) record() {}

// Entry is a named file handed to Encode.
type Entry struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// msDosTimeToTime converts an MS-DOS date and time into a time.Time.
// The resolution is 2s.
func msDosTimeToTime(dosDate, dosTime uint16) time.Time {
	return time.Date(
		int(dosDate>>9+1980),
		time.Month(dosDate>>5&0xf),
		int(dosDate&0x1f),

		int(dosTime>>11),
		int(dosTime>>5&0x3f),
		int(dosTime&0x1f*2),
		0,
		time.UTC,
	)
}

// timeToMsDosTime converts a time.Time to an MS-DOS date and time.
func timeToMsDosTime(t time.Time) (dosDate, dosTime uint16) {
	if t.IsZero() || t.Year() < 1980 {
		return 0x21, 0 // 1980-01-01 00:00:00
	}
	t = t.UTC()
	dosDate = uint16(t.Day() + int(t.Month())<<5 + (t.Year()-1980)<<9)
	dosTime = uint16(t.Second()/2 + t.Minute()<<5 + t.Hour()<<11)
	return
}
