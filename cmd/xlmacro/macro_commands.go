package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javajack/xlmacro"
)

type macroFlags struct {
	rangeRef   string
	output     string
	where      string
	jsonOutput bool
	hyperlinks bool
	firstWins  bool
}

func newMacroCommand(ctx *commandContext, name, short string) *cobra.Command {
	var flags macroFlags

	cmd := &cobra.Command{
		Use:   name + " <workbook.xlsx>",
		Short: short,
		Long: short + ".\n\n" +
			"Without --range the selection saved in the workbook's active sheet is used.\n" +
			"The workbook is modified in place unless --output is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMacro(cmd, ctx, name, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.rangeRef, "range", "r", "", `Range to process, e.g. "Sheet1!A2:A200" or "B:B"`)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the result to this file instead of the input")
	cmd.Flags().StringVar(&flags.where, "where", "", `Only touch rows matching an expression over row, col and value, e.g. "row > 1"`)
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the report as JSON")
	if name == xlmacro.MacroMediaURLs {
		cmd.Flags().BoolVar(&flags.hyperlinks, "hyperlinks", false, "Make cells resolved to a single URL clickable")
		cmd.Flags().BoolVar(&flags.firstWins, "first-wins", false, "Keep the first media item when several share a filename")
	}
	return cmd
}

func runMacro(cmd *cobra.Command, ctx *commandContext, name, input string, flags macroFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("workbook %q: %w", input, err)
	}

	opts := []xlmacro.Option{
		xlmacro.WithLogger(logger),
		xlmacro.WithRange(flags.rangeRef),
		xlmacro.WithRowFilter(flags.where),
	}
	if name == xlmacro.MacroMediaURLs {
		policy, err := xlmacro.ParseCollisionPolicy(cfg.Reconcile.CollisionPolicy)
		if err != nil {
			return err
		}
		if flags.firstWins {
			policy = xlmacro.FirstWriteWins
		}
		client, err := ctx.wordpressClient()
		if err != nil {
			return err
		}
		opts = append(opts,
			xlmacro.WithPageFetcher(client),
			xlmacro.WithCollisionPolicy(policy),
			xlmacro.WithColors(cfg.Reconcile.PartialColor, cfg.Reconcile.UnresolvedColor),
			xlmacro.WithHyperlinks(cfg.Reconcile.Hyperlinks || flags.hyperlinks),
		)
	}

	output := flags.output
	if output == "" {
		output = input
	}
	report, err := xlmacro.Run(cmd.Context(), name, input, output, opts...)
	if err != nil {
		if xlmacro.IsUsageError(err) {
			return fmt.Errorf("%w\nselect a range with --range (e.g. -r \"Sheet1!A2:A200\") or save the workbook with the cells selected", err)
		}
		return err
	}

	if flags.jsonOutput {
		return writeJSON(cmd, report)
	}
	return printReport(cmd, report, output)
}
