package admission

import (
	"context"
	"strconv"
	"time"
)

// DecisionMode selects between human-driven and delayed automatic decisions.
type DecisionMode string

// Decision modes.
const (
	DecisionModeManual    DecisionMode = "manual"
	DecisionModeAutomatic DecisionMode = "automatic"
)

// Persisted setting keys. These live in the record store's settings table,
// not in process configuration, and are read at submission time and at
// process bootstrap. Changing them does not reschedule already-pending
// timers.
const (
	SettingDecisionMode             = "decision_mode"
	SettingAutoDecisionDelayMinutes = "auto_decision_delay_minutes"
)

// SchedulerSettings is the snapshot of the persisted scheduling settings.
type SchedulerSettings struct {
	Mode  DecisionMode
	Delay time.Duration
}

// Automatic reports whether auto-decisions are enabled.
func (s SchedulerSettings) Automatic() bool {
	return s.Mode == DecisionModeAutomatic
}

// LoadSchedulerSettings reads the persisted decision mode and delay.
// Missing or unparsable values fall back to manual mode and defaultDelay.
func LoadSchedulerSettings(ctx context.Context, store RecordStore, defaultDelay time.Duration) (SchedulerSettings, error) {
	settings := SchedulerSettings{
		Mode:  DecisionModeManual,
		Delay: defaultDelay,
	}

	mode, err := store.GetSetting(ctx, SettingDecisionMode)
	if err != nil {
		return settings, err
	}
	if DecisionMode(mode) == DecisionModeAutomatic {
		settings.Mode = DecisionModeAutomatic
	}

	raw, err := store.GetSetting(ctx, SettingAutoDecisionDelayMinutes)
	if err != nil {
		return settings, err
	}
	if raw != "" {
		minutes, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr == nil && minutes > 0 {
			settings.Delay = time.Duration(minutes * float64(time.Minute))
		}
	}

	return settings, nil
}
