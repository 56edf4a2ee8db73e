package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/admission"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/config"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
)

// SubmitCmd represents the submit command
var SubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record a new application",
	Long: `Record a new application in Pending status.

The running serve daemon picks the applicant up on its next sweep; in
automatic mode that arms the auto-acceptance timer anchored at the
submission time recorded here.

Example:
  eaviapply submit --name "Amina Wanjiru" --email amina@example.com \
    --phone +254700000001 --course cs-diploma --grade B+ --location Nakuru`,
	RunE: runSubmit,
}

var (
	submitName     string
	submitEmail    string
	submitPhone    string
	submitCourse   string
	submitGrade    string
	submitLocation string
)

func init() {
	SubmitCmd.Flags().StringVar(&submitName, "name", "", "Applicant full name (required)")
	SubmitCmd.Flags().StringVar(&submitEmail, "email", "", "Contact email address")
	SubmitCmd.Flags().StringVar(&submitPhone, "phone", "", "Contact phone number")
	SubmitCmd.Flags().StringVar(&submitCourse, "course", "", "Course id from the catalogue (required)")
	SubmitCmd.Flags().StringVar(&submitGrade, "grade", "", "Prior academic grade")
	SubmitCmd.Flags().StringVar(&submitLocation, "location", "", "Applicant location")
	SubmitCmd.MarkFlagRequired("name")
	SubmitCmd.MarkFlagRequired("course")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	svc, store, _, err := buildService(database, cfg)
	if err != nil {
		return err
	}
	defer svc.OnProcessStop()

	ctx := context.Background()
	if _, err := store.GetCourse(ctx, submitCourse); err != nil {
		if errors.IsNotFound(err) {
			return errors.Newf("course %q is not in the catalogue; add it with 'eaviapply course add'", submitCourse)
		}
		return err
	}

	applicant, err := store.CreateApplicant(ctx, admission.Applicant{
		FullName:   submitName,
		Email:      submitEmail,
		Phone:      submitPhone,
		CourseID:   submitCourse,
		PriorGrade: submitGrade,
		Location:   submitLocation,
		Source:     admission.SourceManual,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Application recorded: %s (%s)\n", applicant.ID, applicant.FullName)
	fmt.Printf("Admission number: %s\n", applicant.AdmissionNumber())
	return nil
}
