package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Pipeline renders the decision document, delivers it by mail, and logs the
// outcome. It is not idempotent by construction: calling it twice sends
// twice. Idempotence is enforced upstream by the decision state machine,
// which only invokes it on an actual Pending-to-Accepted transition.
type Pipeline struct {
	renderer Renderer
	mailer   Mailer
	log      *LogStore
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewPipeline wires the renderer, mail transport, and notification log.
func NewPipeline(renderer Renderer, mailer Mailer, log *LogStore, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		renderer: renderer,
		mailer:   mailer,
		log:      log,
		logger:   logger,
		now:      time.Now,
	}
}

// NotifyAcceptance renders the admission letter for the notice and delivers
// it to the applicant, then appends a log entry.
//
// Failure ordering matters:
//   - render failure aborts before any delivery attempt and logs nothing,
//     since nothing was sent;
//   - transport failure logs nothing and is surfaced to the caller - there
//     is no automatic retry, a re-send is an explicit operator action;
//   - only a completed delivery writes a notification log entry.
func (p *Pipeline) NotifyAcceptance(ctx context.Context, notice AdmissionNotice) error {
	letter, err := p.renderer.Render(notice)
	if err != nil {
		p.logger.Errorw("Admission letter render failed",
			"applicant_id", notice.ApplicantID,
			"error", err,
		)
		return err
	}

	subject := acceptanceSubject(notice)
	msg := Message{
		To:       notice.Email,
		Subject:  subject,
		HTMLBody: coverBody(notice),
		Attachment: &Attachment{
			Filename: attachmentFilename(notice),
			MIMEType: "text/html",
			Bytes:    letter,
		},
	}

	messageID, err := p.mailer.Send(ctx, msg)
	if err != nil {
		p.logger.Errorw("Admission letter delivery failed",
			"applicant_id", notice.ApplicantID,
			"recipient", notice.Email,
			"error", err,
		)
		return err
	}

	entry := LogEntry{
		Kind:          KindAdmission,
		ApplicantID:   notice.ApplicantID,
		ApplicantName: notice.FullName,
		Recipient:     notice.Email,
		Subject:       subject,
		Outcome:       OutcomeSent,
		SentAt:        p.now().UTC(),
	}
	if err := p.log.Append(ctx, entry); err != nil {
		// The letter went out; only the audit record is missing.
		p.logger.Errorw("Notification log write failed after delivery",
			"applicant_id", notice.ApplicantID,
			"message_id", messageID,
			"error", err,
		)
		return err
	}

	p.logger.Infow("Admission letter sent",
		"applicant_id", notice.ApplicantID,
		"recipient", notice.Email,
		"message_id", messageID,
	)
	return nil
}

// RenderLetter produces the letter bytes without sending anything and
// without writing a log entry. Used by the view and download flows.
func (p *Pipeline) RenderLetter(notice AdmissionNotice) ([]byte, error) {
	return p.renderer.Render(notice)
}

func acceptanceSubject(notice AdmissionNotice) string {
	return fmt.Sprintf("Admission Letter - %s (%s)", notice.FullName, notice.AdmissionNumber)
}

func coverBody(notice AdmissionNotice) string {
	return fmt.Sprintf(
		"<p>Dear %s,</p><p>Congratulations! Your admission letter for the %s programme is attached. "+
			"Your admission number is %s.</p><p>East Africa Vision College, Office of Admissions</p>",
		notice.FullName, notice.CourseName, notice.AdmissionNumber,
	)
}

func attachmentFilename(notice AdmissionNotice) string {
	safe := strings.NewReplacer("/", "-", " ", "-").Replace(notice.AdmissionNumber)
	return fmt.Sprintf("admission-letter-%s.html", safe)
}
