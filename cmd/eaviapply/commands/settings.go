package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/admission"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
)

// SettingsCmd represents the settings command
var SettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change decision mode and delay",
	Long: `Show or change the persisted decision settings.

Settings live in the database, next to the applicants they govern, and
survive restarts. Changes apply to applications submitted afterwards;
timers already pending keep the delay they were armed with.

Examples:
  eaviapply settings show
  eaviapply settings set mode automatic
  eaviapply settings set delay 30`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current decision settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a decision setting (mode manual|automatic, delay MINUTES)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	SettingsCmd.AddCommand(settingsShowCmd)
	SettingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := admission.NewStore(database)
	settings, err := admission.LoadSchedulerSettings(context.Background(), store, 0)
	if err != nil {
		return err
	}

	fmt.Printf("Decision mode: %s\n", settings.Mode)
	if settings.Automatic() {
		fmt.Printf("Auto-decision delay: %s\n", settings.Delay)
	} else {
		fmt.Println("Auto-decision delay: not in effect (manual mode)")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := admission.NewStore(database)
	ctx := context.Background()

	switch key {
	case "mode":
		mode := admission.DecisionMode(value)
		if mode != admission.DecisionModeManual && mode != admission.DecisionModeAutomatic {
			return errors.Newf("mode must be %q or %q", admission.DecisionModeManual, admission.DecisionModeAutomatic)
		}
		if err := store.SetSetting(ctx, admission.SettingDecisionMode, value); err != nil {
			return err
		}
		fmt.Printf("Decision mode set to %s\n", mode)

	case "delay":
		minutes, err := strconv.ParseFloat(value, 64)
		if err != nil || minutes <= 0 {
			return errors.Newf("delay must be a positive number of minutes, got %q", value)
		}
		if err := store.SetSetting(ctx, admission.SettingAutoDecisionDelayMinutes, value); err != nil {
			return err
		}
		fmt.Printf("Auto-decision delay set to %s minutes\n", value)

	default:
		return errors.Newf("unknown setting %q (expected mode or delay)", key)
	}

	fmt.Println("Note: timers already pending keep their original delay.")
	return nil
}
