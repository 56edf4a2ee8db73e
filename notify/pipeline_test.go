package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
	eavitest "github.com/eastafricavision9-cell/eavicollageapply-sub001/internal/testing"
)

// stubMailer records messages and fails on demand.
type stubMailer struct {
	messages []Message
	err      error
}

func (m *stubMailer) Send(_ context.Context, msg Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.messages = append(m.messages, msg)
	return "<stub-id@localhost>", nil
}

// failingRenderer always reports a render failure.
type failingRenderer struct{}

func (failingRenderer) Render(AdmissionNotice) ([]byte, error) {
	return nil, errors.Wrap(errors.ErrRender, "template execution failed")
}

func newTestPipeline(t *testing.T, renderer Renderer, mailer Mailer) (*Pipeline, *LogStore) {
	t.Helper()
	conn := eavitest.CreateTestDB(t)
	logStore := NewLogStore(conn)
	if renderer == nil {
		r, err := NewLetterRenderer()
		require.NoError(t, err)
		renderer = r
	}
	return NewPipeline(renderer, mailer, logStore, zap.NewNop().Sugar()), logStore
}

func TestNotifyAcceptanceSendsAndLogs(t *testing.T) {
	mailer := &stubMailer{}
	pipeline, logStore := newTestPipeline(t, nil, mailer)
	notice := testNotice()

	require.NoError(t, pipeline.NotifyAcceptance(context.Background(), notice))

	require.Len(t, mailer.messages, 1)
	msg := mailer.messages[0]
	assert.Equal(t, notice.Email, msg.To)
	assert.Equal(t, "Admission Letter - Amina Wanjiru (EAVI/2026/1A2B3C4D)", msg.Subject)
	require.NotNil(t, msg.Attachment)
	assert.Equal(t, "admission-letter-EAVI-2026-1A2B3C4D.html", msg.Attachment.Filename)
	assert.Contains(t, string(msg.Attachment.Bytes), notice.FullName)

	entries, err := logStore.ListForApplicant(context.Background(), notice.ApplicantID, KindAdmission)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, OutcomeSent, entries[0].Outcome)
	assert.Equal(t, notice.Email, entries[0].Recipient)
	assert.Equal(t, msg.Subject, entries[0].Subject)
}

func TestRenderFailureSendsNothing(t *testing.T) {
	mailer := &stubMailer{}
	pipeline, logStore := newTestPipeline(t, failingRenderer{}, mailer)
	notice := testNotice()

	err := pipeline.NotifyAcceptance(context.Background(), notice)
	require.Error(t, err)
	assert.True(t, errors.IsRender(err))

	assert.Empty(t, mailer.messages)
	count, err := logStore.CountForApplicant(context.Background(), notice.ApplicantID, KindAdmission)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransportFailureLogsNothing(t *testing.T) {
	mailer := &stubMailer{err: errors.Wrap(errors.ErrTransport, "connection refused")}
	pipeline, logStore := newTestPipeline(t, nil, mailer)
	notice := testNotice()

	err := pipeline.NotifyAcceptance(context.Background(), notice)
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))

	count, err := logStore.CountForApplicant(context.Background(), notice.ApplicantID, KindAdmission)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRenderLetterNeverLogs(t *testing.T) {
	mailer := &stubMailer{}
	pipeline, logStore := newTestPipeline(t, nil, mailer)
	notice := testNotice()

	letter, err := pipeline.RenderLetter(notice)
	require.NoError(t, err)
	assert.NotEmpty(t, letter)

	assert.Empty(t, mailer.messages)
	count, err := logStore.CountForApplicant(context.Background(), notice.ApplicantID, KindAdmission)
	require.NoError(t, err)
	assert.Zero(t, count)
}
