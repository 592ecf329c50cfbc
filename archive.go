package usdz

// Archive is the ordered sequence of records decoded from a ZIP buffer.
// It is never modified after DecodeArchive returns, so it may be shared by
// concurrent readers.
//
// Byte slices reachable from an Archive (payloads, extra fields, comments)
// must be treated as immutable.
type Archive struct {
	records []Record
}

// Records returns the records in byte-stream order.
func (a *Archive) Records() []Record {
	return append([]Record(nil), a.records...)
}

// Len returns the number of records.
func (a *Archive) Len() int { return len(a.records) }

// Entries returns the names of all local file headers in archive order.
// Central directory headers and the end record are not included.
func (a *Archive) Entries() []string {
	var names []string
	for _, r := range a.records {
		switch h := r.(type) {
		case *LocalFileHeader:
			names = append(names, h.Name)
		case *CentralDirectoryHeader, *EndOfCentralDirectoryRecord:
		}
	}
	return names
}

// Lookup returns the first local file header named name. Names are compared
// exactly, without normalization.
func (a *Archive) Lookup(name string) (*LocalFileHeader, bool) {
	for _, r := range a.records {
		if h, ok := r.(*LocalFileHeader); ok && h.Name == name {
			return h, true
		}
	}
	return nil, false
}

// ReadFile returns the payload of the first entry named name that has a
// decoded payload. It reports false when no such entry exists, including
// when the only match is compressed and was not inflated.
func (a *Archive) ReadFile(name string) ([]byte, bool) {
	for _, r := range a.records {
		h, ok := r.(*LocalFileHeader)
		if !ok || h.Name != name || !h.HasPayload() {
			continue
		}
		return h.Payload, true
	}
	return nil, false
}

// End returns the end of central directory record, if the archive has one.
func (a *Archive) End() (*EndOfCentralDirectoryRecord, bool) {
	for i := len(a.records) - 1; i >= 0; i-- {
		if r, ok := a.records[i].(*EndOfCentralDirectoryRecord); ok {
			return r, true
		}
	}
	return nil, false
}

// Comment returns the archive comment, or nil.
func (a *Archive) Comment() []byte {
	if r, ok := a.End(); ok {
		return r.Comment
	}
	return nil
}
