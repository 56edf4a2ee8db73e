// Package notify renders admission letters and delivers them by mail,
// recording each successful delivery in the notification log.
package notify

import "time"

// Notification kinds and outcomes recorded in the log.
const (
	KindAdmission = "admission"
	OutcomeSent   = "sent"
)

// AdmissionNotice carries the facts rendered into an admission letter.
// Built by the admission package from the applicant profile and the course
// fee facts; the pipeline treats it as a pure value.
type AdmissionNotice struct {
	ApplicantID     string
	FullName        string
	Email           string
	CourseName      string
	AdmissionNumber string
	ReportingDate   time.Time
	FeeBalance      float64
	FeePerYear      float64
}
