package usdz

import "errors"

var (
	ErrUnrecognizedSignature = errors.New("usdz: unrecognized record signature")
	ErrTruncatedInput        = errors.New("usdz: truncated input")
	ErrInvalidEncoding       = errors.New("usdz: invalid encoding")
	ErrLimitExceeded         = errors.New("usdz: limit exceeded")
	ErrValidation            = errors.New("usdz: validation failed")
	ErrDecompression         = errors.New("usdz: decompression failed")

	// ErrEntryNotFound is only returned by File.Scene. Archive lookups report
	// a miss through their boolean result instead.
	ErrEntryNotFound = errors.New("usdz: entry not found")
)
