package main

import (
	"github.com/spf13/cobra"

	"github.com/javajack/xlmacro"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags
	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "xlmacro",
		Short:         "Spreadsheet clean-up macros for .xlsx workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: console or json (overrides config)")

	rootCmd.AddCommand(newMacroCommand(ctx, xlmacro.MacroPipes,
		"Replace commas with \" |\" in every cell of a range"))
	rootCmd.AddCommand(newMacroCommand(ctx, xlmacro.MacroTitleCase,
		"Convert every cell of a range to title case"))
	rootCmd.AddCommand(newMacroCommand(ctx, xlmacro.MacroMediaURLs,
		"Replace filenames in one column with WordPress media URLs"))
	rootCmd.AddCommand(newTestConnectionCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
