// Package usd parses the text form of USD (Universal Scene Description)
// layers into a tree of prims.
//
// Only the scene hierarchy is modelled: prim specifiers, type names, names,
// properties and comments. Property values, metadata and time samples are
// kept as raw source text for callers that need them.
//
//	doc, err := usd.Parse(data)
//	if err != nil {
//		return err
//	}
//	doc.Walk(func(path string, n *usd.Node) bool {
//		fmt.Println(path, n.Kind)
//		return true
//	})
package usd
