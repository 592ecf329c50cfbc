package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-usdz"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "records <file.usdz>",
		Short: "Dump every ZIP record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ctx.openPackage(cmd, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, recordViews(f.Archive()))
		},
	}
}

type recordView struct {
	Type             string `json:"type"`
	Offset           int    `json:"offset"`
	Name             string `json:"name,omitempty"`
	Method           string `json:"method,omitempty"`
	Flags            uint16 `json:"flags,omitempty"`
	CRC32            string `json:"crc32,omitempty"`
	CompressedSize   uint32 `json:"compressed_size,omitempty"`
	UncompressedSize uint32 `json:"uncompressed_size,omitempty"`
	Extra            string `json:"extra,omitempty"`
	HasPayload       *bool  `json:"has_payload,omitempty"`
	LocalOffset      *int   `json:"local_header_offset,omitempty"`
	TotalEntries     *int   `json:"total_entries,omitempty"`
	Comment          string `json:"comment,omitempty"`
}

func recordViews(a *usdz.Archive) []recordView {
	records := a.Records()
	out := make([]recordView, 0, len(records))
	for _, r := range records {
		switch h := r.(type) {
		case *usdz.LocalFileHeader:
			has := h.HasPayload()
			out = append(out, recordView{
				Type:             "local",
				Offset:           h.Offset,
				Name:             h.Name,
				Method:           h.Method.String(),
				Flags:            h.Flags,
				CRC32:            fmt.Sprintf("%08x", h.CRC32),
				CompressedSize:   h.CompressedSize,
				UncompressedSize: h.UncompressedSize,
				Extra:            hex.EncodeToString(h.Extra),
				HasPayload:       &has,
			})
		case *usdz.CentralDirectoryHeader:
			off := int(h.LocalHeaderOffset)
			out = append(out, recordView{
				Type:             "central",
				Offset:           h.Offset,
				Name:             h.Name,
				Method:           h.Method.String(),
				Flags:            h.Flags,
				CRC32:            fmt.Sprintf("%08x", h.CRC32),
				CompressedSize:   h.CompressedSize,
				UncompressedSize: h.UncompressedSize,
				Extra:            hex.EncodeToString(h.Extra),
				LocalOffset:      &off,
				Comment:          string(h.Comment),
			})
		case *usdz.EndOfCentralDirectoryRecord:
			total := int(h.TotalEntries)
			out = append(out, recordView{
				Type:         "end",
				Offset:       h.Offset,
				TotalEntries: &total,
				Comment:      string(h.Comment),
			})
		}
	}
	return out
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
