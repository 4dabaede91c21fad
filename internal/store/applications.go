package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hiring-workers/internal/common/database"
	"hiring-workers/internal/models"
)

const (
	constraintApplicantCode     = "applications_applicant_code_key"
	constraintApplicantPosition = "applications_applicant_position_key"
)

const applicationColumns = `id, applicant_id, position_id, applicant_code, status, created_at, updated_at`

func scanApplication(r rowScanner) (*models.Application, error) {
	var a models.Application
	if err := r.Scan(&a.ID, &a.ApplicantID, &a.PositionID, &a.ApplicantCode, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication inserts a submitted application. A repeat application for the
// same position returns ErrDuplicate; a clashing applicant code returns
// ErrCodeCollision so the caller can draw a new one.
func (s *Store) CreateApplication(ctx context.Context, a *models.Application) (*models.Application, error) {
	now := time.Now().UTC()
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO applications (applicant_id, position_id, applicant_code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at, updated_at`,
		a.ApplicantID, a.PositionID, a.ApplicantCode, a.Status, now,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if database.IsUniqueViolation(err) {
		if database.ConstraintName(err) == constraintApplicantCode {
			return nil, fmt.Errorf("%w: %s", ErrCodeCollision, a.ApplicantCode)
		}
		return nil, fmt.Errorf("%w: applicant %d already applied to position %d", ErrDuplicate, a.ApplicantID, a.PositionID)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) ApplicationExists(ctx context.Context, applicantID, positionID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE applicant_id = $1 AND position_id = $2)`,
		applicantID, positionID).Scan(&exists)
	return exists, err
}

func (s *Store) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	a, err := scanApplication(s.q.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "application", id)
	}
	return a, nil
}

// LockApplication reads the application FOR UPDATE; it must run inside a
// transaction so concurrent stage writes on the same application serialize.
func (s *Store) LockApplication(ctx context.Context, id int64) (*models.Application, error) {
	a, err := scanApplication(s.q.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, "application", id)
	}
	return a, nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, status string) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: application %d", ErrNotFound, id)
	}
	return nil
}

// ApplicationFilter narrows ListApplications. Zero values mean "any".
type ApplicationFilter struct {
	ApplicantID int64
	PositionID  int64
	Status      string
	Limit       int
	Offset      int
}

func (s *Store) ListApplications(ctx context.Context, f ApplicationFilter) ([]models.ApplicationSummary, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ApplicantID > 0 {
		add("a.applicant_id = $%d", f.ApplicantID)
	}
	if f.PositionID > 0 {
		add("a.position_id = $%d", f.PositionID)
	}
	if f.Status != "" {
		add("a.status = $%d", f.Status)
	}

	query := `
		SELECT a.id, a.applicant_code, a.status, a.applicant_id, ap.name, a.position_id, p.title, a.created_at
		FROM applications a
		JOIN applicants ap ON ap.id = a.applicant_id
		JOIN positions p ON p.id = a.position_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY a.created_at DESC, a.id DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf("\n\t\tLIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ApplicationSummary{}
	for rows.Next() {
		var r models.ApplicationSummary
		if err := rows.Scan(&r.ID, &r.ApplicantCode, &r.Status, &r.ApplicantID, &r.ApplicantName,
			&r.PositionID, &r.PositionTitle, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetApplicationDetail assembles the application with its applicant, position and
// whichever stage results exist.
func (s *Store) GetApplicationDetail(ctx context.Context, id int64) (*models.ApplicationDetail, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &models.ApplicationDetail{Application: *app}

	if detail.Applicant, err = s.GetApplicant(ctx, app.ApplicantID); err != nil {
		return nil, err
	}
	if detail.Position, err = s.GetPosition(ctx, app.PositionID); err != nil {
		return nil, err
	}

	ie, err := s.InitialEvaluationForApplication(ctx, app.ID)
	if err != nil {
		return partial(detail, err)
	}
	detail.InitialEvaluation = ie

	score, err := s.AssessmentScoreForEvaluation(ctx, ie.ID)
	if err != nil {
		return partial(detail, err)
	}
	detail.AssessmentScore = score

	school, err := s.GetSchool(ctx, score.SchoolID)
	if err != nil {
		return partial(detail, err)
	}
	detail.SchoolName = school.Name

	fd, err := s.FinalDeliberationForScore(ctx, score.ID)
	if err != nil {
		return partial(detail, err)
	}
	detail.FinalDeliberation = fd
	return detail, nil
}

// partial returns what has been assembled so far when the next stage simply
// does not exist yet.
func partial(detail *models.ApplicationDetail, err error) (*models.ApplicationDetail, error) {
	if errors.Is(err, ErrNotFound) {
		return detail, nil
	}
	return nil, err
}
