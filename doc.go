// Package usdz decodes USDZ packages: ZIP archives that carry a USD scene
// document together with the assets it references (textures, audio, other
// layers).
//
// # File Format Overview
//
// A USDZ package is a ZIP file restricted to a small subset of the format:
//   - One local file header per entry, followed directly by the entry data
//   - A central directory header per entry
//   - A single end of central directory record
//
// Entries are normally stored without compression and each payload begins on
// a 64-byte boundary so it can be mapped in place. The first entry is the
// package's default layer.
//
// DecodeArchive walks the buffer record by record, dispatching on each
// record's 4-byte signature, and returns the records in byte order. Stored
// entries carry their payload; compressed entries are decoded structurally
// and their payload is left absent unless [WithInflate] is used.
//
// # Basic Usage
//
// To read a package and its scene:
//
//	buf, _ := os.ReadFile("basic.usdz")
//	f, err := usdz.Parse(buf)
//	if err != nil {
//		return err
//	}
//	for _, name := range f.Files() {
//		fmt.Println(name)
//	}
//	data, ok := f.FileData("basic/basic.usda")
//	if ok {
//		doc, err := usd.Parse(data)
//		...
//	}
//
// To write a package:
//
//	err := usdz.Encode(w, []usdz.Entry{
//		{Name: "scene.usda", Data: scene},
//		{Name: "textures/albedo.png", Data: png},
//	})
//
// # Security Considerations
//
// Payloads are bounded by the declared entry sizes, which are checked against
// the input length before any copy. Inflation is opt-in and bounded by
// [Limits]. CRC-32 values are recorded but not verified on decode.
package usdz
