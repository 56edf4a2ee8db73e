package admission

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/notify"
)

// TimerSet is the slice of the scheduler the state machine needs: every
// transition clears the applicant's pending timer before touching status,
// so the human and scheduler drivers can never double-transition.
type TimerSet interface {
	Cancel(applicantID string) bool
}

// Notifier delivers the acceptance notification. *notify.Pipeline is the
// production implementation.
type Notifier interface {
	NotifyAcceptance(ctx context.Context, notice notify.AdmissionNotice) error
}

// TransitionOutcome reports a committed transition.
type TransitionOutcome struct {
	Applicant Applicant

	// Notification receives at most one value: the outcome of the
	// acceptance notification (nil on success), then the channel is closed.
	// It is closed without a value when no notification was attempted.
	// The channel is buffered, so ignoring it never blocks anything.
	Notification <-chan error
}

// Machine is the decision state machine. It is the only code path that
// mutates applicant status.
type Machine struct {
	store             RecordStore
	timers            TimerSet
	notifier          Notifier
	reportingLeadDays int
	logger            *zap.SugaredLogger
	now               func() time.Time
}

// NewMachine wires the state machine's collaborators.
func NewMachine(store RecordStore, timers TimerSet, notifier Notifier, reportingLeadDays int, logger *zap.SugaredLogger) *Machine {
	return &Machine{
		store:             store,
		timers:            timers,
		notifier:          notifier,
		reportingLeadDays: reportingLeadDays,
		logger:            logger,
		now:               time.Now,
	}
}

// Transition moves the applicant to the target status.
//
// Side effects, in order:
//  1. the pending timer for this applicant is cancelled unconditionally;
//  2. the new status is persisted; the call returns success only once the
//     store write is durable;
//  3. for Accepted with a usable contact address, the notification pipeline
//     runs asynchronously - its failure is reported out-of-band through the
//     outcome channel and never rolls back or fails the transition.
//
// A missing applicant or a failed store write propagates synchronously; in
// the latter case the transition is considered not applied.
func (m *Machine) Transition(ctx context.Context, applicantID string, target Status) (*TransitionOutcome, error) {
	if !ValidStatus(target) {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "unknown status %q", target)
	}

	applicant, err := m.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	// Cancel before writing so an in-flight timer can no longer race this
	// transition; a fire already past its status re-check wins instead.
	m.timers.Cancel(applicantID)

	if err := m.store.UpdateApplicantStatus(ctx, applicantID, target); err != nil {
		return nil, err
	}

	previous := applicant.Status
	applicant.Status = target
	m.logger.Infow("Applicant status changed",
		"applicant_id", applicantID,
		"from", previous,
		"to", target,
	)

	outcome := &TransitionOutcome{Applicant: applicant}

	if target == StatusAccepted && applicant.HasUsableEmail() {
		result := make(chan error, 1)
		outcome.Notification = result
		go m.notifyAccepted(applicant, result)
	} else {
		closed := make(chan error)
		close(closed)
		outcome.Notification = closed
	}

	return outcome, nil
}

// notifyAccepted runs the notification pipeline off the transition path.
// It uses a background context: the decision has committed, and an early
// caller cancellation must not produce a half-delivered letter.
func (m *Machine) notifyAccepted(applicant Applicant, result chan<- error) {
	defer close(result)

	ctx := context.Background()
	notice, err := m.BuildNotice(ctx, applicant)
	if err != nil {
		m.logger.Errorw("Acceptance notification aborted",
			"applicant_id", applicant.ID,
			"error", err,
		)
		result <- err
		return
	}

	if err := m.notifier.NotifyAcceptance(ctx, notice); err != nil {
		result <- err
		return
	}
	result <- nil
}

// BuildNotice assembles the letter facts for an applicant: profile fields,
// course fee facts, and the reporting date derived from the configured lead.
func (m *Machine) BuildNotice(ctx context.Context, applicant Applicant) (notify.AdmissionNotice, error) {
	course, err := m.store.GetCourse(ctx, applicant.CourseID)
	if err != nil {
		return notify.AdmissionNotice{}, errors.Wrapf(err, "course facts for applicant %s", applicant.ID)
	}

	return notify.AdmissionNotice{
		ApplicantID:     applicant.ID,
		FullName:        applicant.FullName,
		Email:           applicant.Email,
		CourseName:      course.Name,
		AdmissionNumber: applicant.AdmissionNumber(),
		ReportingDate:   m.reportingDate(),
		FeeBalance:      course.FeeBalance,
		FeePerYear:      course.FeePerYear,
	}, nil
}

// reportingDate is the configured number of days from now, at midnight UTC,
// so letters rendered on the same day are byte-identical.
func (m *Machine) reportingDate() time.Time {
	d := m.now().UTC().AddDate(0, 0, m.reportingLeadDays)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
