package admission

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
)

// RecordStore is the durable storage consumed by the decision state machine,
// the scheduler recovery path, and the notification pipeline wiring.
// Store is the SQLite implementation; tests substitute fakes for failure
// injection.
type RecordStore interface {
	GetApplicant(ctx context.Context, id string) (Applicant, error)
	ListApplicantsByStatus(ctx context.Context, status Status) ([]Applicant, error)
	UpdateApplicantStatus(ctx context.Context, id string, status Status) error
	GetCourse(ctx context.Context, id string) (Course, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Store handles persistence of applicants, courses, and settings.
type Store struct {
	db *sql.DB
}

// NewStore creates a new admission store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateApplicant inserts a new applicant record. An empty ID is assigned a
// UUID, a zero SubmittedAt is stamped with the current UTC time, and an empty
// status defaults to Pending. SubmittedAt is immutable after this call.
func (s *Store) CreateApplicant(ctx context.Context, a Applicant) (Applicant, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if !ValidStatus(a.Status) {
		return Applicant{}, errors.Wrapf(errors.ErrInvalidRequest, "unknown status %q", a.Status)
	}
	if a.Source == "" {
		a.Source = SourceManual
	}
	now := time.Now().UTC()
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = now
	}
	a.UpdatedAt = now

	query := `
		INSERT INTO applicants (
			id, full_name, email, phone, course_id,
			prior_grade, location, source, status,
			submitted_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.FullName,
		a.Email,
		a.Phone,
		a.CourseID,
		a.PriorGrade,
		a.Location,
		a.Source,
		string(a.Status),
		a.SubmittedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Applicant{}, errors.WrapPersistence(err, "create applicant")
	}

	return a, nil
}

const applicantColumns = `id, full_name, email, phone, course_id,
	       prior_grade, location, source, status, submitted_at, updated_at`

// GetApplicant retrieves an applicant by ID
func (s *Store) GetApplicant(ctx context.Context, id string) (Applicant, error) {
	query := `
		SELECT ` + applicantColumns + `
		FROM applicants
		WHERE id = ?
	`

	a, err := scanApplicant(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Applicant{}, errors.NewNotFound("applicant %s", id)
		}
		return Applicant{}, errors.Wrapf(err, "get applicant %s", id)
	}
	return a, nil
}

// ListApplicantsByStatus returns applicants with the given status, oldest
// submission first. Submission order matters to recovery so that overdue
// applicants are decided in the order they applied.
func (s *Store) ListApplicantsByStatus(ctx context.Context, status Status) ([]Applicant, error) {
	query := `
		SELECT ` + applicantColumns + `
		FROM applicants
		WHERE status = ?
		ORDER BY submitted_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, errors.Wrapf(err, "list applicants with status %s", status)
	}
	defer rows.Close()

	var applicants []Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan applicant row")
		}
		applicants = append(applicants, a)
	}

	return applicants, rows.Err()
}

// UpdateApplicantStatus persists a new status for the applicant.
// submitted_at is deliberately untouched; it anchors restart recovery.
func (s *Store) UpdateApplicantStatus(ctx context.Context, id string, status Status) error {
	if !ValidStatus(status) {
		return errors.Wrapf(errors.ErrInvalidRequest, "unknown status %q", status)
	}

	query := `
		UPDATE applicants
		SET status = ?,
		    updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, string(status), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return errors.WrapPersistence(err, "update applicant status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.WrapPersistence(err, "update applicant status")
	}
	if rows == 0 {
		return errors.NewNotFound("applicant %s", id)
	}

	return nil
}

// CreateCourse inserts or replaces a course's fee facts.
func (s *Store) CreateCourse(ctx context.Context, c Course) error {
	query := `
		INSERT INTO courses (id, name, fee_balance, fee_per_year)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			fee_balance = excluded.fee_balance,
			fee_per_year = excluded.fee_per_year
	`
	if _, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.FeeBalance, c.FeePerYear); err != nil {
		return errors.WrapPersistence(err, "create course")
	}
	return nil
}

// GetCourse retrieves course fee facts by course id
func (s *Store) GetCourse(ctx context.Context, id string) (Course, error) {
	query := `SELECT id, name, fee_balance, fee_per_year FROM courses WHERE id = ?`

	var c Course
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.FeeBalance, &c.FeePerYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, errors.NewNotFound("course %s", id)
		}
		return Course{}, errors.Wrapf(err, "get course %s", id)
	}
	return c, nil
}

// GetSetting returns the value for a settings key, or the empty string when
// the key has never been written.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", errors.Wrapf(err, "get setting %s", key)
	}
	return value, nil
}

// SetSetting writes a settings key, replacing any previous value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return errors.WrapPersistence(err, "set setting")
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanApplicant(row scanner) (Applicant, error) {
	var a Applicant
	var status, submittedAt, updatedAt string

	err := row.Scan(
		&a.ID,
		&a.FullName,
		&a.Email,
		&a.Phone,
		&a.CourseID,
		&a.PriorGrade,
		&a.Location,
		&a.Source,
		&status,
		&submittedAt,
		&updatedAt,
	)
	if err != nil {
		return Applicant{}, err
	}

	a.Status = Status(status)

	// Parse timestamps (return error if parsing fails - indicates data corruption or schema mismatch)
	a.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt)
	if err != nil {
		return Applicant{}, errors.Wrapf(err, "parse submitted_at for applicant %s", a.ID)
	}
	a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return Applicant{}, errors.Wrapf(err, "parse updated_at for applicant %s", a.ID)
	}

	return a, nil
}
