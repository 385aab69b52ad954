package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "perfdata",
	Short:   "Generate LMS performance test sites, plans and users",
	Version: version,
	Long: `perfdata builds scaled test sites on a Moodle installation and produces
the JMeter test plan and users file needed to load test them.

Sizes run from XS (1 user, 3 courses) to XXL (10,000 users, 4,177 courses);
run "perfdata sizes" to list them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it until it
// finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "perfdata.yaml", "Configuration file (YAML or JSON)")
	RootCmd.PersistentFlags().String("log-level", "", "Override the configured log level")
	RootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	RootCmd.AddCommand(testplanCmd)
	RootCmd.AddCommand(usersCmd)
	RootCmd.AddCommand(checkCmd)
	RootCmd.AddCommand(siteCmd)
	RootCmd.AddCommand(configureCmd)
	RootCmd.AddCommand(sizesCmd)
}
