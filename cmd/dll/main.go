// Package main provides C-compatible exports for the usdz library.
// Build with: go build -buildmode=c-shared -o usdz.dll
package main

/*
#include <stdlib.h>
#include <stdint.h>

// Result structure for operations that return data
typedef struct {
    char* data;
    int   data_len;
    char* error;
} UsdzResult;

// Entry for creating packages
typedef struct {
    char* name;
    char* data;
    int   data_len;
} CUsdzEntry;
*/
import "C"

import (
	"bytes"
	"encoding/json"
	"unsafe"

	"github.com/logicossoftware/go-usdz"
	"github.com/logicossoftware/go-usdz/usd"
)

func main() {}

// UsdzFreeResult frees memory allocated by other Usdz functions.
// Must be called to avoid memory leaks.
//
//export UsdzFreeResult
func UsdzFreeResult(result C.UsdzResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

// UsdzFreeString frees a C string allocated by Go.
//
//export UsdzFreeString
func UsdzFreeString(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func makeResult(data []byte) C.UsdzResult {
	var result C.UsdzResult
	if len(data) > 0 {
		result.data = (*C.char)(C.CBytes(data))
		result.data_len = C.int(len(data))
	}
	return result
}

func makeError(err error) C.UsdzResult {
	var result C.UsdzResult
	result.error = C.CString(err.Error())
	return result
}

func parse(data *C.char, dataLen C.int, inflate C.int) (*usdz.File, error) {
	goData := C.GoBytes(unsafe.Pointer(data), dataLen)
	return usdz.Parse(goData, usdz.WithInflate(inflate != 0))
}

// UsdzListFiles returns a JSON array of the entry names in a USDZ package.
// Parameters:
//   - data: pointer to USDZ file bytes
//   - dataLen: length of the data
//
// Returns UsdzResult with the JSON or error. Call UsdzFreeResult when done.
//
//export UsdzListFiles
func UsdzListFiles(data *C.char, dataLen C.int) C.UsdzResult {
	f, err := parse(data, dataLen, 0)
	if err != nil {
		return makeError(err)
	}
	names := f.Files()
	if names == nil {
		names = []string{}
	}
	jsonBytes, err := json.Marshal(names)
	if err != nil {
		return makeError(err)
	}
	return makeResult(jsonBytes)
}

// UsdzGetFileData retrieves the payload of one entry.
// Parameters:
//   - data: pointer to USDZ file bytes
//   - dataLen: length of the data
//   - name: entry name, matched exactly
//   - inflate: non-zero to decompress deflate and zstd entries
//
// Returns UsdzResult with the entry bytes or error. Call UsdzFreeResult when done.
//
//export UsdzGetFileData
func UsdzGetFileData(data *C.char, dataLen C.int, name *C.char, inflate C.int) C.UsdzResult {
	f, err := parse(data, dataLen, inflate)
	if err != nil {
		return makeError(err)
	}
	entry := C.GoString(name)
	payload, ok := f.FileData(entry)
	if !ok {
		var result C.UsdzResult
		result.error = C.CString("entry not found: " + entry)
		return result
	}
	return makeResult(payload)
}

// UsdzParseScene parses the package's root layer and returns its prim
// hierarchy as JSON.
// Parameters:
//   - data: pointer to USDZ file bytes
//   - dataLen: length of the data
//
// Returns UsdzResult with the JSON or error. Call UsdzFreeResult when done.
// Each part is an object with "comment" or with "specifier", "type", "name",
// "metadata", "properties" and "children".
//
//export UsdzParseScene
func UsdzParseScene(data *C.char, dataLen C.int) C.UsdzResult {
	f, err := parse(data, dataLen, 1)
	if err != nil {
		return makeError(err)
	}
	doc, err := f.Scene()
	if err != nil {
		return makeError(err)
	}
	result := map[string]any{
		"metadata": doc.Metadata,
		"parts":    partsJSON(doc.Parts),
	}
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return makeError(err)
	}
	return makeResult(jsonBytes)
}

func partsJSON(parts []usd.Part) []map[string]any {
	out := make([]map[string]any, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case *usd.Comment:
			out = append(out, map[string]any{"comment": v.Text})
		case *usd.Node:
			props := make([]map[string]any, len(v.Properties))
			for i, prop := range v.Properties {
				props[i] = map[string]any{
					"name":        prop.Name,
					"type":        prop.Kind,
					"value":       prop.Value,
					"metadata":    prop.Metadata,
					"custom":      prop.Custom,
					"variability": prop.Variability,
					"listOp":      prop.ListOp,
				}
			}
			out = append(out, map[string]any{
				"specifier":  v.Specifier,
				"type":       v.Kind,
				"name":       v.Name,
				"metadata":   v.Metadata,
				"properties": props,
				"children":   partsJSON(v.Children),
			})
		}
	}
	return out
}

// UsdzValidate checks that data decodes as a USDZ package.
// Returns NULL on success, or an error message string on failure.
// Call UsdzFreeString on the result if non-NULL.
//
//export UsdzValidate
func UsdzValidate(data *C.char, dataLen C.int) *C.char {
	if _, err := parse(data, dataLen, 0); err != nil {
		return C.CString(err.Error())
	}
	return nil
}

// UsdzGetFileCount returns the number of entries in a USDZ package.
// Returns -1 on error.
//
//export UsdzGetFileCount
func UsdzGetFileCount(data *C.char, dataLen C.int) C.int {
	f, err := parse(data, dataLen, 0)
	if err != nil {
		return -1
	}
	return C.int(len(f.Files()))
}

// UsdzEncode writes a store-only USDZ package.
// Parameters:
//   - entries: array of CUsdzEntry structs; the first must be a USD layer
//   - count: number of entries
//   - comment: optional archive comment (can be NULL)
//
// Returns UsdzResult with the package bytes or error. Call UsdzFreeResult when done.
//
//export UsdzEncode
func UsdzEncode(entries *C.CUsdzEntry, count C.int, comment *C.char) C.UsdzResult {
	goEntries := make([]usdz.Entry, 0, int(count))
	if count > 0 && entries != nil {
		for _, e := range unsafe.Slice(entries, int(count)) {
			goEntries = append(goEntries, usdz.Entry{
				Name: C.GoString(e.name),
				Data: C.GoBytes(unsafe.Pointer(e.data), e.data_len),
			})
		}
	}

	var opts []usdz.WriteOption
	if comment != nil {
		opts = append(opts, usdz.WithComment(C.GoString(comment)))
	}

	var buf bytes.Buffer
	if err := usdz.Encode(&buf, goEntries, opts...); err != nil {
		return makeError(err)
	}
	return makeResult(buf.Bytes())
}
