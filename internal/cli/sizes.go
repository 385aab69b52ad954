package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfdata/internal/output"
	"github.com/wesleyorama2/perfdata/internal/sizes"
)

var sizesCmd = &cobra.Command{
	Use:   "sizes",
	Short: "List the available sizes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		noColor, _ := cmd.Flags().GetBool("no-color")
		p := output.NewPrinter(cmd.OutOrStdout(), noColor)
		return p.SizeTable(sizes.DefaultTable(), sizes.EnglishLabels{})
	},
}
