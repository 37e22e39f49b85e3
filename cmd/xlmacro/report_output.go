package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/javajack/xlmacro"
)

// printReport writes the macro summary: a table on a terminal, the plain
// description otherwise so the output stays greppable.
func printReport(cmd *cobra.Command, report *xlmacro.Report, output string) error {
	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		fmt.Fprint(out, report.Describe())
		fmt.Fprintf(out, "Saved %s%s\n", output, fileSize(output))
		return nil
	}

	rows := [][]string{
		{"Range", report.Range},
		{"Cells", humanize.Comma(int64(report.Cells))},
		{"Written", humanize.Comma(int64(report.Written))},
	}
	if report.Filtered > 0 {
		rows = append(rows, []string{"Filtered out", humanize.Comma(int64(report.Filtered))})
	}
	if report.Index != nil {
		rows = append(rows,
			[]string{"Successfully replaced", humanize.Comma(int64(report.Resolved))},
			[]string{"Partially matched", humanize.Comma(int64(report.Partial))},
			[]string{"Not found", humanize.Comma(int64(report.Unresolved))},
			[]string{"Skipped", humanize.Comma(int64(report.Skipped))},
			[]string{"Media items", humanize.Comma(int64(report.Index.Records))},
		)
		if report.Hyperlinks > 0 {
			rows = append(rows, []string{"Hyperlinks", humanize.Comma(int64(report.Hyperlinks))})
		}
	}

	fmt.Fprintln(out, renderTable([]string{report.Macro, ""}, rows, []columnAlignment{alignLeft, alignRight}))
	if report.Index != nil && report.Index.Incomplete {
		fmt.Fprintf(out, "Warning: the media library listing stopped early (HTTP %d); some files may be reported as not found.\n", report.Index.FailedStatus)
	}
	fmt.Fprintf(out, "Saved %s%s\n", output, fileSize(output))
	return nil
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return " (" + humanize.Bytes(uint64(info.Size())) + ")"
}
