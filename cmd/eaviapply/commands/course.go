package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/admission"
)

// CourseCmd represents the course command
var CourseCmd = &cobra.Command{
	Use:   "course",
	Short: "Manage the course catalogue",
	Long: `Manage the course catalogue.

Each course carries the fee facts that appear in admission letters.
Adding an existing course id replaces its name and fees.

Example:
  eaviapply course add cs-diploma --name "Diploma in Computer Science" \
    --fee-per-year 120000 --fee-balance 45000`,
}

var (
	courseName       string
	courseFeeBalance float64
	courseFeePerYear float64
)

var courseAddCmd = &cobra.Command{
	Use:   "add COURSE_ID",
	Short: "Add or update a course",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseAdd,
}

func init() {
	courseAddCmd.Flags().StringVar(&courseName, "name", "", "Course display name (required)")
	courseAddCmd.Flags().Float64Var(&courseFeeBalance, "fee-balance", 0, "Outstanding fee balance shown on the letter")
	courseAddCmd.Flags().Float64Var(&courseFeePerYear, "fee-per-year", 0, "Annual fee shown on the letter")
	courseAddCmd.MarkFlagRequired("name")

	CourseCmd.AddCommand(courseAddCmd)
}

func runCourseAdd(cmd *cobra.Command, args []string) error {
	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := admission.NewStore(database)
	course := admission.Course{
		ID:         args[0],
		Name:       courseName,
		FeeBalance: courseFeeBalance,
		FeePerYear: courseFeePerYear,
	}
	if err := store.CreateCourse(context.Background(), course); err != nil {
		return err
	}

	fmt.Printf("Course %s (%s) saved\n", course.ID, course.Name)
	return nil
}
