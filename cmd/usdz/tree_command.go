package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-usdz/usd"
)

func newTreeCommand(ctx *commandContext) *cobra.Command {
	var showProps bool
	cmd := &cobra.Command{
		Use:   "tree <file.usdz>",
		Short: "Print the prim hierarchy of the root layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ctx.openPackage(cmd, args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			doc, err := f.Scene(cfg.usdOptions()...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTree(doc, showProps))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showProps, "properties", "p", false, "Include properties")
	return cmd
}

func renderTree(doc *usd.Document, showProps bool) string {
	var b strings.Builder
	doc.Walk(func(path string, n *usd.Node) bool {
		indent := strings.Repeat("  ", strings.Count(path, "/")-1)
		b.WriteString(indent)
		b.WriteString(n.Specifier)
		if n.Kind != "" {
			b.WriteString(" " + n.Kind)
		}
		fmt.Fprintf(&b, " %q\n", n.Name)
		if showProps {
			for _, p := range n.Properties {
				fmt.Fprintf(&b, "%s  .%s %s", indent, p.Kind, p.Name)
				if p.Value != "" {
					b.WriteString(" = " + firstLine(p.Value))
				}
				b.WriteByte('\n')
			}
		}
		return true
	})
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
