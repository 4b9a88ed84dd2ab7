package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

func newGeneratorsCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generators",
		Short: "List the available rendering backends",
		Long: `List every generator type registered in this build, with the library it
wraps and how it handles the dpi, page span and password options.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tLIBRARY\tPASSWORD")
			for _, t := range opts.Registry.Registered() {
				desc := generator.Describe(t)
				if desc == nil {
					fmt.Fprintf(tw, "%s\t-\t-\n", t)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t, desc.Library, desc.Options["password"])
				if verbose {
					fmt.Fprintf(tw, "\t%s\t\n", desc.Description)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "Describe how each backend renders")
	return cmd
}
