package usd

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var listOps = []string{"prepend", "append", "delete", "add", "reorder"}

type parser struct {
	s        scanner
	maxDepth int
	depth    int
}

// Parse parses a USD text layer.
//
// The grammar recognised is:
//
//	document := (layer-metadata | node | comment)*
//	node     := specifier [type] quoted [metadata] '{' (node | comment | property)* '}'
//	comment  := '#' text-to-end-of-line
//	property := [list-op] ['custom'] [variability] type name ['=' value] [metadata] [';']
//
// where specifier is def, over or class and list-op is prepend, append,
// delete, add or reorder. Property values and metadata are
// kept as raw text and not interpreted. Anything else fails the whole parse
// with a *SyntaxError; no partial document is returned.
//
// Parse returns ErrInvalidEncoding if buf is not UTF-8 and ErrLimitExceeded
// if prims nest deeper than the configured maximum (see WithMaxDepth). An
// empty buf yields an empty document.
func Parse(buf []byte, opts ...Option) (*Document, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxDepth <= 0 {
		cfg.maxDepth = defaultMaxDepth
	}
	if !utf8.Valid(buf) {
		return nil, ErrInvalidEncoding
	}
	buf = bytes.TrimPrefix(buf, utf8BOM)

	p := &parser{s: newScanner(string(buf)), maxDepth: cfg.maxDepth}
	return p.parseDocument()
}

func (p *parser) parseDocument() (*Document, error) {
	doc := &Document{}
	for {
		p.s.skipSpace()
		if p.s.eof() {
			return doc, nil
		}
		if p.s.peek() == '(' {
			if doc.Metadata != "" || len(doc.Nodes()) > 0 {
				return nil, p.s.errorf("layer metadata must precede all prims")
			}
			md, err := p.s.group()
			if err != nil {
				return nil, err
			}
			doc.Metadata = strings.TrimSpace(md)
			continue
		}
		part, err := p.parsePart()
		if err != nil {
			return nil, err
		}
		doc.Parts = append(doc.Parts, part)
	}
}

// parsePart tries each alternative in order, restoring the cursor before
// moving to the next one.
func (p *parser) parsePart() (Part, error) {
	mark := p.s
	n, ok, err := p.tryNode()
	if err != nil {
		return nil, err
	}
	if ok {
		return n, nil
	}
	p.s = mark
	if c, ok := p.tryComment(); ok {
		return c, nil
	}
	p.s = mark
	return nil, p.s.errorf("expected prim definition or comment")
}

func (p *parser) tryComment() (*Comment, bool) {
	if p.s.peek() != '#' {
		return nil, false
	}
	p.s.advance()
	return &Comment{Text: p.s.restOfLine()}, true
}

// tryNode reports false without consuming input when the cursor is not at a
// specifier. Once a specifier matches, any mismatch is an error.
func (p *parser) tryNode() (*Node, bool, error) {
	n := &Node{}
	switch {
	case p.s.keyword("def"):
		n.Specifier = "def"
	case p.s.keyword("over"):
		n.Specifier = "over"
	case p.s.keyword("class"):
		n.Specifier = "class"
	default:
		return nil, false, nil
	}

	p.s.skipSpace()
	if p.s.peek() != '"' {
		kind, ok := p.s.ident()
		if !ok {
			return nil, false, p.s.errorf("expected prim type or name after %q", n.Specifier)
		}
		n.Kind = kind
		p.s.skipSpace()
	}
	name, err := p.s.quoted()
	if err != nil {
		return nil, false, err
	}
	n.Name = name

	p.s.skipSpace()
	if p.s.peek() == '(' {
		md, err := p.s.group()
		if err != nil {
			return nil, false, err
		}
		n.Metadata = strings.TrimSpace(md)
		p.s.skipSpace()
	}
	if p.s.peek() != '{' {
		return nil, false, p.s.errorf("expected '{' after prim %q", n.Name)
	}

	p.depth++
	if p.depth > p.maxDepth {
		return nil, false, fmt.Errorf("%w: prims nested deeper than %d at %s", ErrLimitExceeded, p.maxDepth, p.s.pos)
	}
	p.s.advance()
	if err := p.parseBody(n); err != nil {
		return nil, false, err
	}
	p.depth--
	return n, true, nil
}

// parseBody parses prim body items up to and including the closing brace.
func (p *parser) parseBody(n *Node) error {
	for {
		p.s.skipSpace()
		switch {
		case p.s.eof():
			return p.s.errorf("unterminated body of prim %q", n.Name)
		case p.s.peek() == '}':
			p.s.advance()
			return nil
		}

		mark := p.s
		child, ok, err := p.tryNode()
		if err != nil {
			return err
		}
		if ok {
			n.Children = append(n.Children, child)
			continue
		}
		p.s = mark
		if c, ok := p.tryComment(); ok {
			n.Children = append(n.Children, c)
			continue
		}
		p.s = mark
		prop, ok, err := p.tryProperty()
		if err != nil {
			return err
		}
		if ok {
			n.Properties = append(n.Properties, prop)
			continue
		}
		p.s = mark
		return p.s.errorf("unexpected content in body of prim %q", n.Name)
	}
}

// tryProperty reports false when the cursor is not at a property
// declaration. A declaration whose value or trailer is malformed is an error.
func (p *parser) tryProperty() (Property, bool, error) {
	var prop Property
	for _, op := range listOps {
		if p.s.keyword(op) {
			prop.ListOp = op
			p.s.skipSpace()
			break
		}
	}
	if p.s.keyword("custom") {
		prop.Custom = true
		p.s.skipSpace()
	}
	for _, v := range []string{"uniform", "varying", "config"} {
		if p.s.keyword(v) {
			prop.Variability = v
			p.s.skipSpace()
			break
		}
	}

	if p.s.keyword("rel") {
		prop.Kind = "rel"
	} else {
		kind, ok := p.s.typeName()
		if !ok {
			return Property{}, false, nil
		}
		prop.Kind = kind
	}
	p.s.skipInlineSpace()
	name, ok := p.s.ident()
	switch {
	case ok:
		prop.Name = name
	case prop.ListOp != "" && p.s.peek() == '=' && prop.Kind != "rel":
		// List-edited fields such as "prepend references = @a.usda@" carry
		// no type.
		prop.Name, prop.Kind = prop.Kind, ""
	default:
		return Property{}, false, nil
	}

	p.s.skipInlineSpace()
	if p.s.peek() == '=' {
		p.s.advance()
		p.s.skipInlineSpace()
		v, err := p.s.value()
		if err != nil {
			return Property{}, false, err
		}
		prop.Value = v
		p.s.skipInlineSpace()
	}
	if p.s.peek() == '(' {
		md, err := p.s.group()
		if err != nil {
			return Property{}, false, err
		}
		prop.Metadata = strings.TrimSpace(md)
		p.s.skipInlineSpace()
	}
	if p.s.peek() == ';' {
		p.s.advance()
		p.s.skipInlineSpace()
		return prop, true, nil
	}
	if !p.s.atLineEnd() {
		return Property{}, false, p.s.errorf("unexpected text after property %q", prop.Name)
	}
	return prop, true, nil
}
