package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool
	var inflateFlag bool

	ctx := newCommandContext(&configFlag, &verboseFlag, &inflateFlag)

	rootCmd := &cobra.Command{
		Use:           "usdz",
		Short:         "Inspect USDZ packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log decoder activity")
	rootCmd.PersistentFlags().BoolVar(&inflateFlag, "inflate", false, "Decompress deflate and zstd entries")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newCatCommand(ctx))
	rootCmd.AddCommand(newTreeCommand(ctx))
	rootCmd.AddCommand(newRecordsCommand(ctx))

	return rootCmd
}
