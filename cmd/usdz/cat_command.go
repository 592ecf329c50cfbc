package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-usdz"
)

func newCatCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <file.usdz> [entry]",
		Short: "Write an entry to stdout (default: the root layer)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ctx.openPackage(cmd, args[0])
			if err != nil {
				return err
			}
			name, err := entryArg(f, args[1:])
			if err != nil {
				return err
			}
			data, ok := f.FileData(name)
			if !ok {
				if _, exists := f.Archive().Lookup(name); exists {
					return fmt.Errorf("%w: %q is compressed or encrypted (try --inflate)", usdz.ErrEntryNotFound, name)
				}
				return fmt.Errorf("%w: %q", usdz.ErrEntryNotFound, name)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func entryArg(f *usdz.File, rest []string) (string, error) {
	if len(rest) > 0 {
		return rest[0], nil
	}
	name, ok := f.DefaultLayer()
	if !ok {
		return "", fmt.Errorf("%w: package has no USD layer", usdz.ErrEntryNotFound)
	}
	return name, nil
}
