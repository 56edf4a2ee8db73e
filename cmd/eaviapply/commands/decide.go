package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/admission"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/config"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
)

// DecideCmd represents the decide command
var DecideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Accept, reject, or reset an applicant",
	Long: `Apply a staff decision to an applicant.

Accepting an applicant with a usable email address renders the admission
letter and delivers it by mail. Rejecting or resetting never sends
anything. Resetting puts the applicant back in Pending; in automatic mode
the serve daemon re-arms the timer from the original submission time on
its next sweep.`,
}

var decideAcceptCmd = &cobra.Command{
	Use:   "accept APPLICANT_ID",
	Short: "Accept an applicant and send the admission letter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecide(args[0], admission.StatusAccepted)
	},
}

var decideRejectCmd = &cobra.Command{
	Use:   "reject APPLICANT_ID",
	Short: "Reject an applicant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecide(args[0], admission.StatusRejected)
	},
}

var decideResetCmd = &cobra.Command{
	Use:   "reset APPLICANT_ID",
	Short: "Put an applicant back in Pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecide(args[0], admission.StatusPending)
	},
}

func init() {
	DecideCmd.AddCommand(decideAcceptCmd)
	DecideCmd.AddCommand(decideRejectCmd)
	DecideCmd.AddCommand(decideResetCmd)
}

func runDecide(applicantID string, target admission.Status) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	svc, _, _, err := buildService(database, cfg)
	if err != nil {
		return err
	}
	defer svc.OnProcessStop()

	outcome, err := svc.OnManualDecision(context.Background(), applicantID, target)
	if err != nil {
		return err
	}

	fmt.Printf("Applicant %s is now %s\n", outcome.Applicant.ID, outcome.Applicant.Status)

	// Wait out the notification so the letter is delivered before exit.
	if notifyErr := <-outcome.Notification; notifyErr != nil {
		fmt.Printf("Warning: decision recorded but the admission letter was not delivered: %v\n", notifyErr)
		fmt.Println("Re-send it with 'eaviapply letter send' once the problem is fixed.")
		return nil
	}

	if target == admission.StatusAccepted && outcome.Applicant.HasUsableEmail() {
		fmt.Printf("Admission letter sent to %s\n", outcome.Applicant.Email)
	}
	return nil
}
