package usd

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEncoding = errors.New("usd: invalid UTF-8")
	ErrGrammarMismatch = errors.New("usd: grammar mismatch")
	ErrLimitExceeded   = errors.New("usd: limit exceeded")
)

// Position is a location in the source text. Line and Column are 1-based;
// Column counts bytes.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SyntaxError reports input that does not match the grammar. It matches
// ErrGrammarMismatch under errors.Is.
type SyntaxError struct {
	Msg string
	Pos Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("usd: %s at %s", e.Msg, e.Pos)
}

func (e *SyntaxError) Unwrap() error { return ErrGrammarMismatch }
