package admission

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/notify"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/scheduler"
)

// Service is the surface the surrounding application calls into. It ties the
// record store, the deferred-task scheduler, the decision state machine, and
// the notification pipeline together for one process.
type Service struct {
	store        RecordStore
	machine      *Machine
	timers       *scheduler.Scheduler
	pipeline     *notify.Pipeline
	defaultDelay time.Duration
	logger       *zap.SugaredLogger
	now          func() time.Time
}

// NewService wires the admission service. The scheduler it creates fires
// into the service's own auto-decision path; callers own shutdown via
// OnProcessStop.
func NewService(store RecordStore, pipeline *notify.Pipeline, reportingLeadDays int, defaultDelay time.Duration, logger *zap.SugaredLogger) *Service {
	s := &Service{
		store:        store,
		pipeline:     pipeline,
		defaultDelay: defaultDelay,
		logger:       logger,
		now:          time.Now,
	}
	s.timers = scheduler.New(s.autoDecide, logger)
	s.machine = NewMachine(store, s.timers, pipeline, reportingLeadDays, logger)
	return s
}

// Timers exposes the active timer set, mainly for tests and introspection.
func (s *Service) Timers() *scheduler.Scheduler {
	return s.timers
}

// OnApplicationSubmitted schedules the auto-decision timer for a freshly
// submitted applicant when automatic mode is enabled. The settings are read
// now, not at fire time: a later settings change does not reschedule timers
// already pending.
func (s *Service) OnApplicationSubmitted(ctx context.Context, applicantID string) error {
	settings, err := LoadSchedulerSettings(ctx, s.store, s.defaultDelay)
	if err != nil {
		return errors.Wrap(err, "read scheduler settings")
	}

	if !settings.Automatic() {
		s.logger.Debugw("Manual decision mode, no timer scheduled", "applicant_id", applicantID)
		return nil
	}

	s.timers.Schedule(applicantID, settings.Delay)
	return nil
}

// OnManualDecision applies a human decision. The pending timer is cancelled
// and the transition runs synchronously; the returned outcome carries the
// notification result channel for callers that want to surface a secondary
// warning.
func (s *Service) OnManualDecision(ctx context.Context, applicantID string, decision Status) (*TransitionOutcome, error) {
	return s.machine.Transition(ctx, applicantID, decision)
}

// OnProcessStart recovers scheduler state from durable data.
func (s *Service) OnProcessStart(ctx context.Context) error {
	return s.RecoverAll(ctx)
}

// OnProcessStop cancels every active timer. The decisions themselves are
// durable; a restart re-derives them through RecoverAll.
func (s *Service) OnProcessStop() {
	s.timers.Shutdown()
}

// RecoverAll rebuilds the in-memory timer set purely from persisted data:
// for every Pending applicant, the delay remaining is recomputed from the
// immutable submitted_at anchor. Applicants already past the configured
// delay are decided immediately, in submission order.
//
// The sweep is idempotent: applicants that already hold a pending timer are
// left alone, so re-running it (the serve loop does, periodically) picks up
// new submissions without re-arming existing timers under changed settings.
func (s *Service) RecoverAll(ctx context.Context) error {
	settings, err := LoadSchedulerSettings(ctx, s.store, s.defaultDelay)
	if err != nil {
		return errors.Wrap(err, "read scheduler settings")
	}

	if !settings.Automatic() {
		s.logger.Infow("Manual decision mode, nothing to recover")
		return nil
	}

	pending, err := s.store.ListApplicantsByStatus(ctx, StatusPending)
	if err != nil {
		return errors.Wrap(err, "list pending applicants")
	}

	recovered, overdue := 0, 0
	now := s.now()
	for _, applicant := range pending {
		if _, scheduled := s.timers.Pending(applicant.ID); scheduled {
			continue
		}

		elapsed := now.Sub(applicant.SubmittedAt)
		if elapsed >= settings.Delay {
			overdue++
			s.autoDecide(ctx, applicant.ID)
			continue
		}

		recovered++
		s.timers.Schedule(applicant.ID, settings.Delay-elapsed)
	}

	s.logger.Infow("Scheduler state recovered",
		"pending_applicants", len(pending),
		"timers_scheduled", recovered,
		"decided_immediately", overdue,
		"delay", settings.Delay,
	)
	return nil
}

// autoDecide is the timer fire path. It re-reads the current status from the
// record store - never a status captured at schedule time - and only drives
// the Accepted transition when the applicant is still Pending. A human
// decision that landed in the meantime makes this a no-op.
func (s *Service) autoDecide(ctx context.Context, applicantID string) {
	applicant, err := s.store.GetApplicant(ctx, applicantID)
	if err != nil {
		s.logger.Errorw("Auto-decision lookup failed",
			"applicant_id", applicantID,
			"error", err,
		)
		return
	}

	if applicant.Status != StatusPending {
		s.logger.Debugw("Auto-decision skipped, applicant already decided",
			"applicant_id", applicantID,
			"status", applicant.Status,
		)
		return
	}

	outcome, err := s.machine.Transition(ctx, applicantID, StatusAccepted)
	if err != nil {
		s.logger.Errorw("Auto-decision transition failed",
			"applicant_id", applicantID,
			"error", err,
		)
		return
	}

	// Drain the notification outcome so delivery failures reach the log even
	// when nobody is watching this fire.
	if notifyErr := <-outcome.Notification; notifyErr != nil {
		s.logger.Warnw("Auto-decision notification failed",
			"applicant_id", applicantID,
			"error", notifyErr,
		)
	}
}

// ResendAcceptance is the deliberate, explicitly-named re-send operation.
// It re-runs the notification pipeline for an applicant who is already
// Accepted; it performs no transition and no timer work.
func (s *Service) ResendAcceptance(ctx context.Context, applicantID string) error {
	applicant, err := s.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return err
	}
	if applicant.Status != StatusAccepted {
		return errors.Wrapf(errors.ErrInvalidRequest, "applicant %s is %s, not Accepted", applicantID, applicant.Status)
	}
	if !applicant.HasUsableEmail() {
		return errors.Wrapf(errors.ErrInvalidRequest, "applicant %s has no usable contact address", applicantID)
	}

	notice, err := s.machine.BuildNotice(ctx, applicant)
	if err != nil {
		return err
	}
	return s.pipeline.NotifyAcceptance(ctx, notice)
}

// LetterBytes renders the applicant's admission letter without sending mail
// and without writing a notification log entry. Backs the view and download
// flows.
func (s *Service) LetterBytes(ctx context.Context, applicantID string) ([]byte, error) {
	applicant, err := s.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	notice, err := s.machine.BuildNotice(ctx, applicant)
	if err != nil {
		return nil, err
	}
	return s.pipeline.RenderLetter(notice)
}
