package usdz

import (
	"fmt"
	"path"
	"strings"

	"github.com/logicossoftware/go-usdz/usd"
)

// File is a decoded USDZ package.
type File struct {
	archive *Archive
}

// Parse decodes buf as a USDZ package. It accepts the same options as
// DecodeArchive and fails in the same ways.
func Parse(buf []byte, opts ...ReadOption) (*File, error) {
	a, err := DecodeArchive(buf, opts...)
	if err != nil {
		return nil, err
	}
	return &File{archive: a}, nil
}

// Archive returns the underlying record sequence.
func (f *File) Archive() *Archive { return f.archive }

// Files returns the entry names in archive order.
func (f *File) Files() []string { return f.archive.Entries() }

// FileData returns the payload of the named entry. The second result is
// false if the entry is missing or its payload was not decoded.
func (f *File) FileData(name string) ([]byte, bool) { return f.archive.ReadFile(name) }

// DefaultLayer returns the name of the package's root layer: the first entry
// with a USD file extension.
func (f *File) DefaultLayer() (string, bool) {
	for _, name := range f.archive.Entries() {
		if isLayerName(name) {
			return name, true
		}
	}
	return "", false
}

// Scene parses the default layer as a USD text document.
func (f *File) Scene(opts ...usd.Option) (*usd.Document, error) {
	name, ok := f.DefaultLayer()
	if !ok {
		return nil, fmt.Errorf("%w: no USD layer in package", ErrEntryNotFound)
	}
	data, ok := f.FileData(name)
	if !ok {
		return nil, fmt.Errorf("%w: layer %q has no decoded payload", ErrEntryNotFound, name)
	}
	return usd.Parse(data, opts...)
}

func isLayerName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".usd", ".usda", ".usdc":
		return true
	}
	return false
}
