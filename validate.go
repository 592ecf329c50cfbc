package usdz

import (
	"fmt"
	"math"
	"path"
	"strings"
	"unicode/utf8"
)

func validateEntries(entries []Entry, limits Limits) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: package must contain at least one entry", ErrValidation)
	}
	if len(entries) > limits.MaxEntries {
		return fmt.Errorf("%w: too many entries", ErrLimitExceeded)
	}
	// The end record counts entries in 16 bits.
	if len(entries) > math.MaxUint16 {
		return fmt.Errorf("%w: %d entries, a package holds at most %d", ErrLimitExceeded, len(entries), math.MaxUint16)
	}
	if !isLayerName(entries[0].Name) {
		return fmt.Errorf("%w: first entry %q must be a USD layer", ErrValidation, entries[0].Name)
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if !utf8.ValidString(e.Name) {
			return fmt.Errorf("%w: entry %d name is not valid UTF-8", ErrValidation, i)
		}
		if err := validateContainerPath(e.Name); err != nil {
			return fmt.Errorf("%w: entry %d name: %v", ErrValidation, i, err)
		}
		if len(e.Name) > 0xffff {
			return fmt.Errorf("%w: entry %d name too long", ErrValidation, i)
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: duplicate entry %q", ErrValidation, e.Name)
		}
		seen[e.Name] = struct{}{}
		if uint64(len(e.Data)) > uint64(limits.MaxEntrySize) {
			return fmt.Errorf("%w: entry %q too large", ErrLimitExceeded, e.Name)
		}
	}
	return nil
}

func validateContainerPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("path must not be absolute")
	}
	if strings.Contains(p, "\\") {
		return fmt.Errorf("path must use forward slashes")
	}
	clean := path.Clean(p)
	if clean != p {
		return fmt.Errorf("path must be normalized: %q", clean)
	}
	if clean == "." {
		return fmt.Errorf("path must not be current directory")
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path must not escape")
	}
	return nil
}
