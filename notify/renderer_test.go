package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
)

func testNotice() AdmissionNotice {
	return AdmissionNotice{
		ApplicantID:     "a1",
		FullName:        "Amina Wanjiru",
		Email:           "amina@example.com",
		CourseName:      "Diploma in Computer Science",
		AdmissionNumber: "EAVI/2026/1A2B3C4D",
		ReportingDate:   time.Date(2026, 4, 24, 0, 0, 0, 0, time.UTC),
		FeeBalance:      45000,
		FeePerYear:      120000,
	}
}

func TestRenderLetterContents(t *testing.T) {
	renderer, err := NewLetterRenderer()
	require.NoError(t, err)

	letter, err := renderer.Render(testNotice())
	require.NoError(t, err)

	html := string(letter)
	assert.Contains(t, html, "Amina Wanjiru")
	assert.Contains(t, html, "Diploma in Computer Science")
	assert.Contains(t, html, "EAVI/2026/1A2B3C4D")
	assert.Contains(t, html, "24 April 2026")
	assert.Contains(t, html, "KES 45,000.00")
	assert.Contains(t, html, "KES 120,000.00")
}

func TestRenderIsDeterministic(t *testing.T) {
	renderer, err := NewLetterRenderer()
	require.NoError(t, err)

	first, err := renderer.Render(testNotice())
	require.NoError(t, err)
	second, err := renderer.Render(testNotice())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderMissingFields(t *testing.T) {
	renderer, err := NewLetterRenderer()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*AdmissionNotice)
	}{
		{"no full name", func(n *AdmissionNotice) { n.FullName = "" }},
		{"no course name", func(n *AdmissionNotice) { n.CourseName = "" }},
		{"no admission number", func(n *AdmissionNotice) { n.AdmissionNumber = "" }},
		{"no reporting date", func(n *AdmissionNotice) { n.ReportingDate = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notice := testNotice()
			tt.mutate(&notice)

			_, err := renderer.Render(notice)
			require.Error(t, err)
			assert.True(t, errors.IsRender(err))
		})
	}
}

func TestFormatKES(t *testing.T) {
	assert.Equal(t, "KES 0.00", formatKES(0))
	assert.Equal(t, "KES 950.00", formatKES(950))
	assert.Equal(t, "KES 12,500.00", formatKES(12500))
	assert.Equal(t, "KES 1,234,567.89", formatKES(1234567.89))
	assert.Equal(t, "KES -45,000.00", formatKES(-45000))
}
