package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfdata/internal/generator"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Apply the settings a performance site runs with",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireDatabase("configure"); err != nil {
			return err
		}

		c := &generator.SiteConfigurer{
			Settings:  a.sql,
			Frontpage: a.sql,
			Logger:    a.logger,
		}
		if err := c.Configure(cmd.Context()); err != nil {
			return err
		}
		a.printer.Success("Site configured")
		return nil
	},
}
