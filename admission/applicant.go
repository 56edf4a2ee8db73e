// Package admission owns applicant records, the decision state machine, and
// the service surface the surrounding application calls into.
package admission

import (
	"fmt"
	"strings"
	"time"
)

// Status is the decision state of an applicant.
// Transitions happen only through the decision state machine.
type Status string

// Possible applicant statuses.
const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusRejected Status = "Rejected"
)

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Source records how an application entered the system.
// Informational only; it has no effect on scheduling.
const (
	SourceManual      = "manual"
	SourceSelfService = "self_service"
)

// Applicant is the record whose status this subsystem manages.
type Applicant struct {
	ID         string
	FullName   string
	Email      string
	Phone      string
	CourseID   string
	PriorGrade string
	Location   string
	Source     string
	Status     Status

	// SubmittedAt is set once at creation and never changes. It is the
	// sole anchor for recomputing elapsed/remaining delay after a restart.
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// HasUsableEmail reports whether the applicant can receive an admission letter.
func (a Applicant) HasUsableEmail() bool {
	return strings.Contains(a.Email, "@")
}

// AdmissionNumber derives the applicant's admission number from the record id
// and submission year. Stable for the lifetime of the record.
func (a Applicant) AdmissionNumber() string {
	short := strings.ReplaceAll(a.ID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("EAVI/%d/%s", a.SubmittedAt.Year(), strings.ToUpper(short))
}

// Course carries the fee facts looked up at letter-render time.
// Read-only from this subsystem's perspective.
type Course struct {
	ID         string
	Name       string
	FeeBalance float64
	FeePerYear float64
}
