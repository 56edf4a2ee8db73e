package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerIsSafeBeforeInitialize(t *testing.T) {
	// The package-level no-op logger must absorb calls made before Initialize.
	require.NotNil(t, Logger)
	Infow("pre-init message", "key", "value")
	Errorw("pre-init error", "key", "value")
}

func TestInitializeConsole(t *testing.T) {
	err := Initialize(false)
	require.NoError(t, err)
	require.NotNil(t, Logger)
	assert.False(t, JSONOutput)

	Infow("console message", "applicant_id", "APL_test")
	Cleanup()
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(true)
	require.NoError(t, err)
	require.NotNil(t, Logger)
	assert.True(t, JSONOutput)

	Infow("json message", "applicant_id", "APL_test")
	Cleanup()
}
