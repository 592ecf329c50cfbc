package usd

import (
	"fmt"
	"strings"
)

// scanner is a byte cursor over the layer text that tracks line and column.
// It is copied by value to save and restore a backtracking point.
type scanner struct {
	src string
	pos Position
}

func newScanner(src string) scanner {
	return scanner{src: src, pos: Position{Line: 1, Column: 1}}
}

func (s *scanner) eof() bool { return s.pos.Offset >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos.Offset]
}

func (s *scanner) peekAt(n int) byte {
	if s.pos.Offset+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos.Offset+n]
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}
	if s.src[s.pos.Offset] == '\n' {
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}
	s.pos.Offset++
}

func (s *scanner) advanceN(n int) {
	for i := 0; i < n; i++ {
		s.advance()
	}
}

func (s *scanner) rest() string { return s.src[s.pos.Offset:] }

func (s *scanner) errorf(format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Pos: s.pos}
}

// skipSpace skips blanks including line breaks.
func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return
		}
	}
}

// skipInlineSpace skips blanks up to, not including, a line break.
func (s *scanner) skipInlineSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		default:
			return
		}
	}
}

// atLineEnd reports whether nothing but a line break, a comment, the end of
// an enclosing body or the end of input follows.
func (s *scanner) atLineEnd() bool {
	switch s.peek() {
	case 0, '\n', '#', '}', ';':
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

// keyword consumes kw if it appears at the cursor as a whole word.
func (s *scanner) keyword(kw string) bool {
	if !strings.HasPrefix(s.rest(), kw) || isIdentChar(s.peekAt(len(kw))) {
		return false
	}
	s.advanceN(len(kw))
	return true
}

// ident consumes an identifier. Namespaced names ("xformOp:translate") and
// field suffixes (".timeSamples", ".connect") are part of the identifier.
func (s *scanner) ident() (string, bool) {
	if !isIdentStart(s.peek()) {
		return "", false
	}
	start := s.pos.Offset
	for !s.eof() {
		c := s.peek()
		if isIdentChar(c) || (c == ':' || c == '.') && isIdentStart(s.peekAt(1)) {
			s.advance()
			continue
		}
		break
	}
	return s.src[start:s.pos.Offset], true
}

// typeName consumes an identifier with an optional "[]" array suffix.
func (s *scanner) typeName() (string, bool) {
	name, ok := s.ident()
	if !ok {
		return "", false
	}
	if s.peek() == '[' && s.peekAt(1) == ']' {
		s.advanceN(2)
		name += "[]"
	}
	return name, true
}

// quoted consumes a double-quoted name and returns its contents.
func (s *scanner) quoted() (string, error) {
	if s.peek() != '"' {
		return "", s.errorf("expected quoted name")
	}
	s.advance()
	start := s.pos.Offset
	for !s.eof() && s.peek() != '"' {
		s.advance()
	}
	if s.eof() {
		return "", s.errorf("unterminated quoted name")
	}
	text := s.src[start:s.pos.Offset]
	s.advance()
	return text, nil
}

// restOfLine consumes up to, not including, the next line break.
func (s *scanner) restOfLine() string {
	start := s.pos.Offset
	for !s.eof() && s.peek() != '\n' {
		s.advance()
	}
	return strings.TrimSuffix(s.src[start:s.pos.Offset], "\r")
}

// group consumes a bracketed group starting at the cursor, including nested
// groups and any string or asset-path literals inside, and returns the text
// between the outer delimiters.
func (s *scanner) group() (string, error) {
	open := s.pos
	var stack []byte
	for {
		if s.eof() {
			return "", &SyntaxError{Msg: fmt.Sprintf("unclosed %q", s.src[open.Offset]), Pos: open}
		}
		c := s.peek()
		switch c {
		case '(', '[', '{':
			stack = append(stack, closerOf(c))
			s.advance()
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return "", s.errorf("unexpected %q", c)
			}
			stack = stack[:len(stack)-1]
			s.advance()
			if len(stack) == 0 {
				return s.src[open.Offset+1 : s.pos.Offset-1], nil
			}
		case '"', '\'', '@', '<':
			if err := s.literal(); err != nil {
				return "", err
			}
		case '#':
			s.restOfLine()
		default:
			s.advance()
		}
	}
}

func closerOf(c byte) byte {
	switch c {
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return '}'
}

// literal consumes a string ("", '', triple-quoted), asset path (@..@ or
// @@@..@@@) or prim path (<..>) literal.
func (s *scanner) literal() error {
	start := s.pos
	c := s.peek()
	delim := string(c)
	switch {
	case (c == '"' || c == '\'' || c == '@') && strings.HasPrefix(s.rest(), strings.Repeat(delim, 3)):
		delim = strings.Repeat(delim, 3)
	case c == '<':
		delim = ">"
	}
	s.advanceN(len(delim))
	for !s.eof() {
		if c == '"' || c == '\'' {
			if s.peek() == '\\' {
				s.advanceN(2)
				continue
			}
		}
		if len(delim) == 1 && s.peek() == '\n' {
			break
		}
		if strings.HasPrefix(s.rest(), delim) {
			s.advanceN(len(delim))
			return nil
		}
		s.advance()
	}
	return &SyntaxError{Msg: "unterminated literal", Pos: start}
}

// value consumes one raw property value: a bracketed group, a literal, or a
// run of non-blank characters.
func (s *scanner) value() (string, error) {
	start := s.pos.Offset
	switch s.peek() {
	case '(', '[', '{':
		if _, err := s.group(); err != nil {
			return "", err
		}
	case '"', '\'', '@', '<':
		if err := s.literal(); err != nil {
			return "", err
		}
	default:
		for !s.eof() {
			c := s.peek()
			if c == ' ' || c == '\t' || c == '\r' || c == '(' || s.atLineEnd() {
				break
			}
			s.advance()
		}
	}
	if s.pos.Offset == start {
		return "", s.errorf("expected value")
	}
	return s.src[start:s.pos.Offset], nil
}
