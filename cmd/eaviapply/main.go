package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/cmd/eaviapply/commands"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/logger"
)

var rootCmd = &cobra.Command{
	Use:   "eaviapply",
	Short: "eaviapply - East Africa Vision College admissions pipeline",
	Long: `eaviapply - Admission decision scheduling and notification pipeline.

Applications sit in Pending until a staff decision or, in automatic mode,
until the configured delay elapses and the applicant is accepted. Every
acceptance renders an admission letter and delivers it by mail, with an
append-only notification log as the audit trail.

Available commands:
  serve    - Run the decision scheduler daemon
  submit   - Record a new application
  decide   - Accept, reject, or reset an applicant
  settings - Show or change decision mode and delay
  letter   - View or re-send an admission letter
  course   - Manage the course catalogue
  db       - Manage database operations

Examples:
  eaviapply serve                         # Run the scheduler daemon
  eaviapply submit --name "Amina Wanjiru" --email amina@example.com --course cs-diploma
  eaviapply decide accept 4f3a2b1c        # Accept an applicant now
  eaviapply settings set mode automatic   # Enable delayed auto-acceptance
  eaviapply db stats                      # Show database statistics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit structured JSON logs instead of console output")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.SubmitCmd)
	rootCmd.AddCommand(commands.DecideCmd)
	rootCmd.AddCommand(commands.SettingsCmd)
	rootCmd.AddCommand(commands.LetterCmd)
	rootCmd.AddCommand(commands.CourseCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
