package usdz

type Limits struct {
	MaxEntries      int    // local file headers per archive
	MaxEntrySize    uint32 // stored bytes per entry, as declared in its header
	MaxInflatedSize uint64 // payload bytes produced by WithInflate, per entry
}

func defaultLimits() Limits {
	return Limits{
		MaxEntries:      65_535,
		MaxEntrySize:    1<<32 - 1,
		MaxInflatedSize: 512 << 20, // 512 MiB
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxEntries == 0 {
		l.MaxEntries = d.MaxEntries
	}
	if l.MaxEntrySize == 0 {
		l.MaxEntrySize = d.MaxEntrySize
	}
	if l.MaxInflatedSize == 0 {
		l.MaxInflatedSize = d.MaxInflatedSize
	}
	return l
}
