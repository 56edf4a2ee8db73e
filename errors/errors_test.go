package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "applicant lookup")

	assert.Contains(t, wrapped.Error(), "applicant lookup")
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrPersistence, ErrRender, ErrTransport, ErrInvalidRequest}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "sentinel %v must not match %v", a, b)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(Wrap(ErrNotFound, "context")))
	assert.True(t, IsNotFound(NewNotFound("applicant %s", "APL_missing")))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(New("unrelated")))
}

func TestIsPersistence(t *testing.T) {
	driverErr := New("database is locked")
	err := WrapPersistence(driverErr, "update applicant status")

	assert.True(t, IsPersistence(err))
	assert.Contains(t, err.Error(), "update applicant status")
	assert.False(t, IsPersistence(driverErr))
}

func TestIsRender(t *testing.T) {
	assert.True(t, IsRender(Wrapf(ErrRender, "field %q missing", "reportingDate")))
	assert.False(t, IsRender(ErrTransport))
}

func TestIsTransport(t *testing.T) {
	assert.True(t, IsTransport(Wrap(ErrTransport, "smtp send")))
	assert.False(t, IsTransport(ErrRender))
}

func TestWithDetail(t *testing.T) {
	err := New("error")
	withDetail := WithDetail(err, "detailed information")

	details := GetAllDetails(withDetail)
	require.Len(t, details, 1)
	assert.Equal(t, "detailed information", details[0])
}
