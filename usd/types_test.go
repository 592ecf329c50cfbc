package usd

import (
	"reflect"
	"testing"
)

func TestWalkAndFind(t *testing.T) {
	doc, err := Parse([]byte(`
def Xform "root" {
    def Mesh "a" { def Scope "a1" {} }
    # between
    def Mesh "b" {}
}
def Xform "other" {}
`))
	if err != nil {
		t.Fatal(err)
	}

	var paths []string
	doc.Walk(func(path string, n *Node) bool {
		paths = append(paths, path)
		return true
	})
	want := []string{"/root", "/root/a", "/root/a/a1", "/root/b", "/other"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("want %v got %v", want, paths)
	}

	paths = nil
	doc.Walk(func(path string, n *Node) bool {
		paths = append(paths, path)
		return n.Name != "a"
	})
	want = []string{"/root", "/root/a", "/root/b", "/other"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("skip children: want %v got %v", want, paths)
	}

	if n, ok := doc.Find("/root/a/a1"); !ok || n.Kind != "Scope" {
		t.Fatalf("Find /root/a/a1: %v %+v", ok, n)
	}
	for _, p := range []string{"", "/", "root", "/root/c", "/root/a/a1/x", "/Root"} {
		if _, ok := doc.Find(p); ok {
			t.Fatalf("Find(%q): expected miss", p)
		}
	}
}

func TestNodeHelpers(t *testing.T) {
	n := &Node{
		Properties: []Property{{Name: "x", Value: "1"}, {Name: "x", Value: "2"}},
		Children:   []Part{&Comment{Text: "c"}, &Node{Name: "k"}},
	}
	if p, ok := n.Property("x"); !ok || p.Value != "1" {
		t.Fatalf("expected first x, got %#v", p)
	}
	if _, ok := n.Property("y"); ok {
		t.Fatal("expected miss")
	}
	kids := n.ChildNodes()
	if len(kids) != 1 || kids[0].Name != "k" {
		t.Fatalf("unexpected children %#v", kids)
	}
}
