package cli

import (
	"github.com/spf13/cobra"
)

var testplanCmd = &cobra.Command{
	Use:   "testplan",
	Short: "Create a JMeter test plan for a course",
	Long: `Render the test plan template for a course and size and store it in the
configured artifact backend.

Example:
  perfdata testplan --course testcourse_12 --size M`,
	RunE: runTestPlan,
}

func runTestPlan(cmd *cobra.Command, args []string) error {
	course, _ := cmd.Flags().GetString("course")
	size, _ := cmd.Flags().GetString("size")
	planfilesPath, _ := cmd.Flags().GetString("planfilespath")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tier, err := parseTier(a.table, a.labels, size)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := a.store(ctx, planfilesPath)
	if err != nil {
		return err
	}
	g, err := a.generator(store)
	if err != nil {
		return err
	}

	courseID, err := g.ResolveCourse(ctx, course)
	if err != nil {
		return err
	}
	h, err := g.CreateTestPlanFile(ctx, courseID, tier)
	if err != nil {
		return err
	}
	a.printer.Artifact("Test plan", h)
	return nil
}

func init() {
	testplanCmd.Flags().String("course", "", "Course id or shortname")
	testplanCmd.Flags().StringP("size", "s", "", "Size: XS, S, M, L, XL or XXL")
	testplanCmd.Flags().String("planfilespath", "", "Directory plan files are written to")
	testplanCmd.MarkFlagRequired("course")
	testplanCmd.MarkFlagRequired("size")
}
