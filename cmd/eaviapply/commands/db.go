package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/admission"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage database operations",
	Long: `Manage database operations.

Examples:
  eaviapply db migrate   # Apply any pending schema migrations
  eaviapply db stats     # Show applicant and notification counts`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply any pending schema migrations",
	RunE:  runDbMigrate,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE:  runDbStats,
}

func init() {
	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	// openDatabase migrates as part of opening.
	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Println("Database schema is up to date")
	return nil
}

func runDbStats(cmd *cobra.Command, args []string) error {
	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	for _, status := range []admission.Status{admission.StatusPending, admission.StatusAccepted, admission.StatusRejected} {
		var count int
		err := database.QueryRow(`SELECT COUNT(*) FROM applicants WHERE status = ?`, string(status)).Scan(&count)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s %d\n", status, count)
	}

	var courses, letters int
	if err := database.QueryRow(`SELECT COUNT(*) FROM courses`).Scan(&courses); err != nil {
		return err
	}
	if err := database.QueryRow(`SELECT COUNT(*) FROM notification_log`).Scan(&letters); err != nil {
		return err
	}
	fmt.Printf("%-10s %d\n", "courses", courses)
	fmt.Printf("%-10s %d\n", "letters", letters)
	return nil
}
