package usd

import "strings"

// Part is a top-level or body element of a document: *Node or *Comment.
// The set is closed.
type Part interface {
	part()
}

// Comment is a '#' line comment. Text excludes the '#' and the line break.
type Comment struct {
	Text string
}

func (*Comment) part() {}

// Node is a prim definition:
//
//	def Xform "hello" ( kind = "component" ) { ... }
type Node struct {
	Specifier  string // def, over or class
	Kind       string // prim type name, empty for typeless prims
	Name       string
	Metadata   string // raw text inside the ( ) block after the name
	Properties []Property
	Children   []Part
}

func (*Node) part() {}

// Property is an attribute or relationship declared in a prim body. Values
// are kept as raw source text.
type Property struct {
	Name        string
	Kind        string // type name such as "double3" or "token[]", or "rel"
	Value       string // raw text after '=', empty when unassigned
	Metadata    string // raw text inside a trailing ( ) block
	Custom      bool
	Variability string // uniform, varying, config, or empty
	ListOp      string // prepend, append, delete, add, reorder, or empty
}

// Document is a parsed USD text layer.
type Document struct {
	Metadata string // raw text inside the layer's leading ( ) block
	Parts    []Part
}

// Nodes returns the top-level prims in source order.
func (d *Document) Nodes() []*Node {
	return nodesOf(d.Parts)
}

// ChildNodes returns the prims defined directly in n's body.
func (n *Node) ChildNodes() []*Node {
	return nodesOf(n.Children)
}

// Property returns the first property named name.
func (n *Node) Property(name string) (Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

func nodesOf(parts []Part) []*Node {
	var out []*Node
	for _, p := range parts {
		switch v := p.(type) {
		case *Node:
			out = append(out, v)
		case *Comment:
		}
	}
	return out
}

// Walk visits every prim depth-first in source order. path is the prim's
// slash-separated path, for example "/hello/world". Returning false from fn
// skips the prim's children.
func (d *Document) Walk(fn func(path string, n *Node) bool) {
	walk("", d.Nodes(), fn)
}

func walk(parent string, nodes []*Node, fn func(string, *Node) bool) {
	for _, n := range nodes {
		p := parent + "/" + n.Name
		if fn(p, n) {
			walk(p, n.ChildNodes(), fn)
		}
	}
}

// Find returns the first prim at path, such as "/hello/world". Names are
// matched exactly.
func (d *Document) Find(path string) (*Node, bool) {
	if !strings.HasPrefix(path, "/") || path == "/" {
		return nil, false
	}
	nodes := d.Nodes()
	var found *Node
	for _, name := range strings.Split(path[1:], "/") {
		found = nil
		for _, n := range nodes {
			if n.Name == name {
				found = n
				break
			}
		}
		if found == nil {
			return nil, false
		}
		nodes = found.ChildNodes()
	}
	return found, true
}
