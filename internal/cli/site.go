package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfdata/internal/metrics"
	"github.com/wesleyorama2/perfdata/internal/worker"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Create every course of a test site",
	Long: `Run the course generator once per course the size requires, one at a
time, naming courses testcourse_N after the highest existing N. The first
failing run stops the build.

Example:
  perfdata site --size S --fixeddataset`,
	RunE: runSite,
}

func runSite(cmd *cobra.Command, args []string) error {
	size, _ := cmd.Flags().GetString("size")
	bypass, _ := cmd.Flags().GetBool("bypasscheck")
	fixed, _ := cmd.Flags().GetBool("fixeddataset")
	limit, _ := cmd.Flags().GetInt("filesizelimit")
	progress, _ := cmd.Flags().GetBool("progress")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tier, err := parseTier(a.table, a.labels, size)
	if err != nil {
		return err
	}

	builder := &worker.SiteBuilder{
		Table:   a.table,
		Labels:  a.labels,
		Courses: a.courses,
		Runner:  worker.NewExecRunner(a.logger),
		Command: worker.Command{Binary: a.cfg.Worker.Binary, Script: a.cfg.Worker.Script},
		Dir:     a.cfg.Site.DirRoot,
		Logger:  a.logger,
		Timings: metrics.NewTimings(),
	}

	res, err := builder.MakeSite(cmd.Context(), tier, worker.SiteOptions{
		BypassCheck:   bypass,
		FixedDataset:  fixed,
		FileSizeLimit: limit,
		Progress:      progress,
	})
	if res != nil {
		a.printer.SiteSummary(a.labels.ShortSize(tier), *res)
		if err != nil && len(res.Shortnames) > 0 {
			a.printer.Warning(fmt.Sprintf("%d courses created before the failure were left in place", len(res.Shortnames)))
		}
	}
	return err
}

func init() {
	siteCmd.Flags().StringP("size", "s", "", "Size: XS, S, M, L, XL or XXL")
	siteCmd.Flags().Bool("bypasscheck", false, "Pass --bypasscheck to the course generator")
	siteCmd.Flags().Bool("fixeddataset", false, "Use a fixed dataset instead of random data")
	siteCmd.Flags().Int("filesizelimit", 0, "Limit the size of generated files, in bytes")
	siteCmd.Flags().Bool("progress", false, "Show the course generator's own progress output")
	siteCmd.MarkFlagRequired("size")
}
