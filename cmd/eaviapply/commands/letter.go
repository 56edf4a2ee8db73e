package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/config"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/notify"
)

// LetterCmd represents the letter command
var LetterCmd = &cobra.Command{
	Use:   "letter",
	Short: "View or re-send an admission letter",
	Long: `View or re-send an applicant's admission letter.

Viewing renders the letter without sending anything and leaves no trace
in the notification log. Re-sending delivers the letter again and writes
a fresh log entry; it only works for Accepted applicants.`,
}

var letterOutFlag string

var letterShowCmd = &cobra.Command{
	Use:   "show APPLICANT_ID",
	Short: "Render the admission letter to stdout or a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLetterShow,
}

var letterSendCmd = &cobra.Command{
	Use:   "send APPLICANT_ID",
	Short: "Re-send the admission letter by mail",
	Args:  cobra.ExactArgs(1),
	RunE:  runLetterSend,
}

var letterLogCmd = &cobra.Command{
	Use:   "log APPLICANT_ID",
	Short: "Show the notification log for an applicant",
	Args:  cobra.ExactArgs(1),
	RunE:  runLetterLog,
}

func init() {
	letterShowCmd.Flags().StringVarP(&letterOutFlag, "out", "o", "", "Write the letter to a file instead of stdout")

	LetterCmd.AddCommand(letterShowCmd)
	LetterCmd.AddCommand(letterSendCmd)
	LetterCmd.AddCommand(letterLogCmd)
}

func runLetterShow(cmd *cobra.Command, args []string) error {
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

	letter, err := svc.LetterBytes(context.Background(), args[0])
	if err != nil {
		return err
	}

	if letterOutFlag != "" {
		if err := os.WriteFile(letterOutFlag, letter, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", letterOutFlag)
		}
		fmt.Printf("Letter written to %s\n", letterOutFlag)
		return nil
	}

	fmt.Println(string(letter))
	return nil
}

func runLetterSend(cmd *cobra.Command, args []string) error {
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

	if err := svc.ResendAcceptance(context.Background(), args[0]); err != nil {
		return err
	}

	fmt.Println("Admission letter sent")
	return nil
}

func runLetterLog(cmd *cobra.Command, args []string) error {
	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	logStore := notify.NewLogStore(database)
	entries, err := logStore.ListForApplicant(context.Background(), args[0], notify.KindAdmission)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No admission letters have been sent to this applicant.")
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%s  %s  %s  %s\n",
			entry.SentAt.Format("2006-01-02 15:04:05"),
			entry.Outcome,
			entry.Recipient,
			entry.Subject,
		)
	}
	return nil
}
