package notify

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
)

// LogEntry is one append-only audit record of a completed transport attempt.
// Absence of an entry for an applicant+kind means "not yet attempted",
// not "failed".
type LogEntry struct {
	ID            string
	Kind          string
	ApplicantID   string
	ApplicantName string
	Recipient     string
	Subject       string
	Outcome       string
	SentAt        time.Time
}

// LogStore handles persistence of notification log entries.
type LogStore struct {
	db *sql.DB
}

// NewLogStore creates a new notification log store
func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db}
}

// Append writes a log entry. An empty ID is assigned a UUID and a zero
// SentAt is stamped with the current UTC time.
func (s *LogStore) Append(ctx context.Context, entry LogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now().UTC()
	}

	query := `
		INSERT INTO notification_log (
			id, kind, applicant_id, applicant_name,
			recipient, subject, outcome, sent_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Kind,
		entry.ApplicantID,
		entry.ApplicantName,
		entry.Recipient,
		entry.Subject,
		entry.Outcome,
		entry.SentAt.Format(time.RFC3339),
	)
	if err != nil {
		return errors.WrapPersistence(err, "append notification log entry")
	}

	return nil
}

// ListForApplicant returns log entries for one applicant and kind,
// oldest first.
func (s *LogStore) ListForApplicant(ctx context.Context, applicantID, kind string) ([]LogEntry, error) {
	query := `
		SELECT id, kind, applicant_id, applicant_name,
		       recipient, subject, outcome, sent_at
		FROM notification_log
		WHERE applicant_id = ? AND kind = ?
		ORDER BY sent_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, applicantID, kind)
	if err != nil {
		return nil, errors.Wrapf(err, "list notification log for applicant %s", applicantID)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var entry LogEntry
		var sentAt string
		err := rows.Scan(
			&entry.ID,
			&entry.Kind,
			&entry.ApplicantID,
			&entry.ApplicantName,
			&entry.Recipient,
			&entry.Subject,
			&entry.Outcome,
			&sentAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan notification log row")
		}

		entry.SentAt, err = time.Parse(time.RFC3339, sentAt)
		if err != nil {
			return nil, errors.Wrapf(err, "parse sent_at for log entry %s", entry.ID)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CountForApplicant returns the number of entries for one applicant and kind.
func (s *LogStore) CountForApplicant(ctx context.Context, applicantID, kind string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notification_log WHERE applicant_id = ? AND kind = ?`,
		applicantID, kind,
	).Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "count notification log for applicant %s", applicantID)
	}
	return count, nil
}
