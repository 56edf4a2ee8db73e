package admission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchedulerSettingsDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	settings, err := LoadSchedulerSettings(context.Background(), store, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, DecisionModeManual, settings.Mode)
	assert.False(t, settings.Automatic())
	assert.Equal(t, 30*time.Minute, settings.Delay)
}

func TestLoadSchedulerSettingsAutomatic(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetSetting(ctx, SettingDecisionMode, string(DecisionModeAutomatic)))
	require.NoError(t, store.SetSetting(ctx, SettingAutoDecisionDelayMinutes, "2.5"))

	settings, err := LoadSchedulerSettings(ctx, store, 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, settings.Automatic())
	assert.Equal(t, 150*time.Second, settings.Delay)
}

func TestLoadSchedulerSettingsBadDelayFallsBack(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetSetting(ctx, SettingDecisionMode, string(DecisionModeAutomatic)))

	for _, raw := range []string{"not-a-number", "-5", "0"} {
		require.NoError(t, store.SetSetting(ctx, SettingAutoDecisionDelayMinutes, raw))

		settings, err := LoadSchedulerSettings(ctx, store, 45*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 45*time.Minute, settings.Delay, "raw value %q", raw)
	}
}

func TestLoadSchedulerSettingsUnknownModeIsManual(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetSetting(ctx, SettingDecisionMode, "aggressive"))

	settings, err := LoadSchedulerSettings(ctx, store, time.Minute)
	require.NoError(t, err)
	assert.False(t, settings.Automatic())
}
