package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/report"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <report.json>...",
		Short: "Rank JSON reports of separate runs",
		Long: `Read JSON reports written with --report, typically one per generator, and
print them ranked by mean render time, fastest first.

Examples:
  pdfbench compare fitz.json wand.json pyvips.json
  pdfbench compare --sort-by '$.metrics.render.p95' reports/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sortBy, _ := cmd.Flags().GetString("sort-by")

			entries, err := report.Compare(args, sortBy)
			if err != nil {
				return err
			}
			return report.RenderComparison(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().String("sort-by", report.DefaultSortKey, "JSONPath of the numeric field to rank by")
	return cmd
}
