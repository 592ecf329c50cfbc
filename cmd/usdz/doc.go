// Command usdz inspects USDZ packages.
//
//	usdz ls scene.usdz             list entries with sizes and methods
//	usdz cat scene.usdz tex.png    write one entry's bytes to stdout
//	usdz tree scene.usdz           print the prim hierarchy of the root layer
//	usdz records scene.usdz        dump every ZIP record as JSON
//
// Limits and the prim nesting limit can be set in a TOML file passed with
// --config:
//
//	inflate = true
//
//	[limits]
//	max_entries = 1024
//	max_entry_size = 67108864
//	max_inflated_size = 268435456
//
//	[usd]
//	max_depth = 256
package main
