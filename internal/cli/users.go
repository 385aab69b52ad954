package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfdata/internal/generator"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Create the users file for a course",
	Long: `List the users enrolled in a course as username,password lines. With
--size the list is cut to the number of users the size simulates; with
--update-passwords every listed user's password is set first.`,
	RunE: runUsers,
}

func runUsers(cmd *cobra.Command, args []string) error {
	course, _ := cmd.Flags().GetString("course")
	size, _ := cmd.Flags().GetString("size")
	planfilesPath, _ := cmd.Flags().GetString("planfilespath")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	opts := generator.UsersOptions{UpdatePasswords: a.cfg.Users.UpdatePasswords}
	if cmd.Flags().Changed("update-passwords") {
		opts.UpdatePasswords, _ = cmd.Flags().GetBool("update-passwords")
	}
	if size != "" {
		tier, err := parseTier(a.table, a.labels, size)
		if err != nil {
			return err
		}
		opts.LimitToTier, opts.Tier = true, tier
	}
	if opts.UpdatePasswords {
		if err := a.requireDatabase("updating passwords"); err != nil {
			return err
		}
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
	h, err := g.CreateUsersFile(ctx, courseID, opts)
	if err != nil {
		return err
	}
	a.printer.Artifact("Users file", h)
	return nil
}

func init() {
	usersCmd.Flags().String("course", "", "Course id or shortname")
	usersCmd.Flags().StringP("size", "s", "", "Limit the list to the users this size simulates")
	usersCmd.Flags().Bool("update-passwords", false, "Set every listed user's password to the configured one")
	usersCmd.Flags().String("planfilespath", "", "Directory plan files are written to")
	usersCmd.MarkFlagRequired("course")
}
