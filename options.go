package usdz

import (
	"log/slog"
	"time"
)

type readConfig struct {
	limits  Limits
	inflate bool
	logger  *slog.Logger
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithInflate causes DecodeArchive to also decode deflate and zstd entries.
// Without it only stored entries carry a payload.
func WithInflate(v bool) ReadOption {
	return func(c *readConfig) { c.inflate = v }
}

// WithLogger sets the logger used for per-record debug output.
func WithLogger(l *slog.Logger) ReadOption {
	return func(c *readConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

type writeConfig struct {
	limits   Limits
	comment  []byte
	modified time.Time
	align    int
}

type WriteOption func(*writeConfig)

func WithWriteLimits(l Limits) WriteOption {
	return func(c *writeConfig) { c.limits = l }
}

// WithComment sets the archive comment stored in the end of central directory record.
func WithComment(comment string) WriteOption {
	return func(c *writeConfig) { c.comment = []byte(comment) }
}

// WithModTime sets the modification time used for entries whose Modified is zero.
func WithModTime(t time.Time) WriteOption {
	return func(c *writeConfig) { c.modified = t }
}

// WithAlignment overrides the payload alignment. USDZ requires 64; 0 or 1
// disables padding.
func WithAlignment(n int) WriteOption {
	return func(c *writeConfig) { c.align = n }
}
