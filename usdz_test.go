package usdz

import (
	"archive/zip"
	"bytes"
	"errors"
	"hash/crc32"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/logicossoftware/go-usdz/usd"
)

const sceneText = "#usda 1.0\ndef Xform \"hello\" {\n    def Sphere \"world\" {\n        double radius = 2\n    }\n}\n"

func sampleEntries() []Entry {
	return []Entry{
		{Name: "basic/basic.usda", Data: []byte(sceneText)},
		{Name: "basic/textures/albedo.png", Data: []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}},
		{Name: "basic/empty.txt", Data: []byte{}},
	}
}

func encodeSample(t *testing.T, opts ...WriteOption) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, sampleEntries(), opts...); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

type failingWriter struct {
	n int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, io.ErrClosedPipe
	}
	if len(p) > w.n {
		p = p[:w.n]
	}
	w.n -= len(p)
	return len(p), nil
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := encodeSample(t, WithComment("made by test"))
	f, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantNames := []string{"basic/basic.usda", "basic/textures/albedo.png", "basic/empty.txt"}
	if got := f.Files(); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("Files mismatch\nwant: %v\ngot:  %v", wantNames, got)
	}
	for _, e := range sampleEntries() {
		data, ok := f.FileData(e.Name)
		if !ok {
			t.Fatalf("FileData(%q): missing", e.Name)
		}
		if !bytes.Equal(data, e.Data) {
			t.Fatalf("FileData(%q) mismatch: %q", e.Name, data)
		}
	}

	var kinds []uint32
	for _, r := range f.Archive().Records() {
		kinds = append(kinds, r.Signature())
	}
	wantKinds := []uint32{
		SigLocalFileHeader, SigLocalFileHeader, SigLocalFileHeader,
		SigCentralDirectoryHeader, SigCentralDirectoryHeader, SigCentralDirectoryHeader,
		SigEndOfCentralDirectory,
	}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Fatalf("record order mismatch: %x", kinds)
	}

	end, ok := f.Archive().End()
	if !ok {
		t.Fatal("expected end of central directory record")
	}
	if end.TotalEntries != 3 || end.DiskEntries != 3 {
		t.Fatalf("unexpected entry counts %+v", end)
	}
	if string(f.Archive().Comment()) != "made by test" {
		t.Fatalf("comment %q", f.Archive().Comment())
	}
}

func TestEncode_PayloadAlignment(t *testing.T) {
	for _, align := range []int{64, 16, 7} {
		a, err := DecodeArchive(encodeSample(t, WithAlignment(align)))
		if err != nil {
			t.Fatalf("align %d: %v", align, err)
		}
		for _, r := range a.Records() {
			h, ok := r.(*LocalFileHeader)
			if !ok {
				continue
			}
			start := h.Offset + localFileHeaderLen + int(h.NameLength) + int(h.ExtraLength)
			if start%align != 0 {
				t.Fatalf("align %d: %q payload starts at %d", align, h.Name, start)
			}
		}
	}
}

func TestEncode_NoAlignment(t *testing.T) {
	a, err := DecodeArchive(encodeSample(t, WithAlignment(0)))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range a.Records() {
		if h, ok := r.(*LocalFileHeader); ok && h.Extra != nil {
			t.Fatalf("%q: expected no extra field, got %d bytes", h.Name, len(h.Extra))
		}
	}
}

func TestEncode_ReadableByArchiveZip(t *testing.T) {
	b := encodeSample(t)
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	entries := sampleEntries()
	if len(zr.File) != len(entries) {
		t.Fatalf("expected %d files, got %d", len(entries), len(zr.File))
	}
	for i, zf := range zr.File {
		if zf.Name != entries[i].Name || zf.Method != zip.Store {
			t.Fatalf("file %d: %q method %d", i, zf.Name, zf.Method)
		}
		rc, err := zf.Open()
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("%q: %v", zf.Name, err)
		}
		if !bytes.Equal(got, entries[i].Data) {
			t.Fatalf("%q: content mismatch", zf.Name)
		}
	}
}

// rawZip builds an archive with archive/zip's CreateRaw so the local headers
// carry exact sizes and no data descriptors.
func rawZip(t *testing.T, comment string, files ...rawFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.CreateRaw(&zip.FileHeader{
			Name:               f.name,
			Method:             f.method,
			CRC32:              crc32.ChecksumIEEE(f.plain),
			CompressedSize64:   uint64(len(f.stored)),
			UncompressedSize64: uint64(len(f.plain)),
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(f.stored); err != nil {
			t.Fatal(err)
		}
	}
	if comment != "" {
		if err := zw.SetComment(comment); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type rawFile struct {
	name   string
	method uint16
	plain  []byte
	stored []byte
}

func storedFile(name, content string) rawFile {
	return rawFile{name: name, method: zip.Store, plain: []byte(content), stored: []byte(content)}
}

func TestDecode_ArchiveZipOutput(t *testing.T) {
	b := rawZip(t, "hi",
		storedFile("b.usda", "#usda 1.0\n"),
		storedFile("a/x.bin", "xyz"),
		storedFile("0.txt", ""),
	)
	a, err := DecodeArchive(b)
	if err != nil {
		t.Fatalf("DecodeArchive: %v", err)
	}
	want := []string{"b.usda", "a/x.bin", "0.txt"}
	if got := a.Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v got %v", want, got)
	}
	if data, ok := a.ReadFile("a/x.bin"); !ok || string(data) != "xyz" {
		t.Fatalf("ReadFile: %q %v", data, ok)
	}
	if data, ok := a.ReadFile("0.txt"); !ok || len(data) != 0 {
		t.Fatalf("empty entry: %q %v", data, ok)
	}
	if string(a.Comment()) != "hi" {
		t.Fatalf("comment %q", a.Comment())
	}
	h, ok := a.Lookup("b.usda")
	if !ok {
		t.Fatal("Lookup miss")
	}
	if h.CRC32 != crc32.ChecksumIEEE([]byte("#usda 1.0\n")) {
		t.Fatalf("crc %08x", h.CRC32)
	}
}

func TestFileData_Missing(t *testing.T) {
	f, err := Parse(encodeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"missing.usda", "BASIC/basic.usda", "/basic/basic.usda", "basic//basic.usda", ""} {
		data, ok := f.FileData(name)
		if ok || data != nil {
			t.Fatalf("FileData(%q): expected absent, got %q", name, data)
		}
	}
}

func TestScene(t *testing.T) {
	f, err := Parse(encodeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	if name, ok := f.DefaultLayer(); !ok || name != "basic/basic.usda" {
		t.Fatalf("DefaultLayer: %q %v", name, ok)
	}
	doc, err := f.Scene()
	if err != nil {
		t.Fatalf("Scene: %v", err)
	}
	world, ok := doc.Find("/hello/world")
	if !ok || world.Kind != "Sphere" {
		t.Fatalf("expected /hello/world sphere, got %+v", world)
	}
	if p, ok := world.Property("radius"); !ok || p.Value != "2" {
		t.Fatalf("radius %#v", p)
	}

	_, err = f.Scene(usd.WithMaxDepth(1))
	if !errors.Is(err, usd.ErrLimitExceeded) {
		t.Fatalf("expected usd.ErrLimitExceeded, got %v", err)
	}
}

func TestScene_NoLayer(t *testing.T) {
	f, err := Parse(rawZip(t, "", storedFile("texture.png", "png")))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.DefaultLayer(); ok {
		t.Fatal("expected no default layer")
	}
	if _, err := f.Scene(); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestScene_InvalidLayer(t *testing.T) {
	f, err := Parse(rawZip(t, "", storedFile("scene.usda", "def Xform {")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Scene(); !errors.Is(err, usd.ErrGrammarMismatch) {
		t.Fatalf("expected usd.ErrGrammarMismatch, got %v", err)
	}
}

func TestEncode_ModTime(t *testing.T) {
	mod := time.Date(2024, time.May, 6, 7, 8, 10, 0, time.UTC)
	entries := []Entry{
		{Name: "a.usda", Data: []byte("#")},
		{Name: "b.bin", Data: []byte("b"), Modified: time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, entries, WithModTime(mod)); err != nil {
		t.Fatal(err)
	}
	a, err := DecodeArchive(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	ha, _ := a.Lookup("a.usda")
	if !ha.Modified().Equal(mod) {
		t.Fatalf("a.usda modified %v", ha.Modified())
	}
	hb, _ := a.Lookup("b.bin")
	if !hb.Modified().Equal(entries[1].Modified) {
		t.Fatalf("b.bin modified %v", hb.Modified())
	}
	for _, r := range a.Records() {
		if cd, ok := r.(*CentralDirectoryHeader); ok && cd.Name == "a.usda" && !cd.Modified().Equal(mod) {
			t.Fatalf("central directory modified %v", cd.Modified())
		}
	}
}

func TestEncode_ZeroModTime(t *testing.T) {
	a, err := DecodeArchive(encodeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	h, _ := a.Lookup("basic/basic.usda")
	want := time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !h.Modified().Equal(want) {
		t.Fatalf("expected DOS epoch, got %v", h.Modified())
	}
}

func TestEncode_UTF8Name(t *testing.T) {
	var buf bytes.Buffer
	entries := []Entry{{Name: "scène.usda", Data: []byte("#")}}
	if err := Encode(&buf, entries); err != nil {
		t.Fatal(err)
	}
	a, err := DecodeArchive(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	h, ok := a.Lookup("scène.usda")
	if !ok {
		t.Fatal("Lookup miss")
	}
	if h.Flags&flagUTF8 == 0 {
		t.Fatal("expected UTF-8 flag")
	}
}

func TestEncodeWriterError(t *testing.T) {
	full := encodeSample(t)
	for _, n := range []int{0, 10, 40, 200, len(full) - 30, len(full) - 1} {
		w := &failingWriter{n: n}
		if err := Encode(w, sampleEntries()); err == nil {
			t.Fatalf("n=%d: expected error", n)
		}
	}
}

func TestRecordsIsACopy(t *testing.T) {
	a, err := DecodeArchive(encodeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	rs := a.Records()
	rs[0] = nil
	if a.Records()[0] == nil {
		t.Fatal("Records must not expose internal storage")
	}
	if a.Len() != 7 {
		t.Fatalf("Len %d", a.Len())
	}
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	b := encodeSample(t)
	a, err := DecodeArchive(b)
	if err != nil {
		t.Fatal(err)
	}
	for i := range b {
		b[i] = 0
	}
	data, ok := a.ReadFile("basic/basic.usda")
	if !ok || string(data) != sceneText {
		t.Fatalf("payload changed with input buffer: %q", data)
	}
}
