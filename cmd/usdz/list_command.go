package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-usdz"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "ls <file.usdz>",
		Aliases: []string{"list"},
		Short:   "List package entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ctx.openPackage(cmd, args[0])
			if err != nil {
				return err
			}
			rows := listRows(f.Archive())
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries")
				return nil
			}
			headers := []string{"Name", "Method", "Size", "Stored", "Offset", "Modified"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func listRows(a *usdz.Archive) [][]string {
	var rows [][]string
	for _, r := range a.Records() {
		h, ok := r.(*usdz.LocalFileHeader)
		if !ok {
			continue
		}
		size := humanize.IBytes(uint64(h.UncompressedSize))
		if !h.HasPayload() {
			size += " *"
		}
		rows = append(rows, []string{
			h.Name,
			h.Method.String(),
			size,
			humanize.IBytes(uint64(len(h.Stored))),
			strconv.Itoa(h.Offset),
			h.Modified().Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}
