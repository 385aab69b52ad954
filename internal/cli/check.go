package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfdata/internal/generator"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a course can be load tested at a size",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	course, _ := cmd.Flags().GetString("course")
	size, _ := cmd.Flags().GetString("size")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tier, err := parseTier(a.table, a.labels, size)
	if err != nil {
		return err
	}
	g, err := a.generator(nil)
	if err != nil {
		return err
	}

	id, err := g.CheckCourse(cmd.Context(), course, tier)
	var problems *generator.CourseProblems
	if errors.As(err, &problems) {
		a.printer.Problems(problems.Fields)
		return fmt.Errorf("course %s cannot be used for size %s", course, a.labels.ShortSize(tier))
	}
	if err != nil {
		return err
	}

	a.printer.Success(fmt.Sprintf("Course %d is ready for size %s", id, a.labels.ShortSize(tier)))
	return nil
}

func init() {
	checkCmd.Flags().String("course", "", "Course id or shortname")
	checkCmd.Flags().StringP("size", "s", "", "Size: XS, S, M, L, XL or XXL")
	checkCmd.MarkFlagRequired("course")
	checkCmd.MarkFlagRequired("size")
}
