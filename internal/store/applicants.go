package store

import (
	"context"
	"time"

	"hiring-workers/internal/models"
)

const applicantColumns = `id, user_id, name, address, age, sex, civil_status, religion, disability,
	ethnic_group, email, contact, education, training, experience, eligibility, pds_url,
	letter_url, created_at, updated_at`

func scanApplicant(r rowScanner) (*models.Applicant, error) {
	var a models.Applicant
	err := r.Scan(&a.ID, &a.UserID, &a.Name, &a.Address, &a.Age, &a.Sex, &a.CivilStatus, &a.Religion,
		&a.Disability, &a.EthnicGroup, &a.Email, &a.Contact, &a.Education, &a.Training, &a.Experience,
		&a.Eligibility, &a.PDSURL, &a.LetterURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveApplicant inserts the profile for a.UserID or overwrites the existing one.
func (s *Store) SaveApplicant(ctx context.Context, a *models.Applicant) (*models.Applicant, error) {
	now := time.Now().UTC()
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO applicants (user_id, name, address, age, sex, civil_status, religion, disability,
			ethnic_group, email, contact, education, training, experience, eligibility, pds_url,
			letter_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address, age = EXCLUDED.age, sex = EXCLUDED.sex,
			civil_status = EXCLUDED.civil_status, religion = EXCLUDED.religion,
			disability = EXCLUDED.disability, ethnic_group = EXCLUDED.ethnic_group,
			email = EXCLUDED.email, contact = EXCLUDED.contact, education = EXCLUDED.education,
			training = EXCLUDED.training, experience = EXCLUDED.experience,
			eligibility = EXCLUDED.eligibility, pds_url = EXCLUDED.pds_url,
			letter_url = EXCLUDED.letter_url, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`,
		a.UserID, a.Name, a.Address, a.Age, a.Sex, a.CivilStatus, a.Religion, a.Disability,
		a.EthnicGroup, a.Email, a.Contact, a.Education, a.Training, a.Experience, a.Eligibility,
		a.PDSURL, a.LetterURL, now,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) GetApplicantByUserID(ctx context.Context, userID string) (*models.Applicant, error) {
	a, err := scanApplicant(s.q.QueryRowContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE user_id = $1`, userID))
	if err != nil {
		return nil, notFound(err, "applicant for user", userID)
	}
	return a, nil
}

func (s *Store) GetApplicant(ctx context.Context, id int64) (*models.Applicant, error) {
	a, err := scanApplicant(s.q.QueryRowContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "applicant", id)
	}
	return a, nil
}

func (s *Store) ListApplicants(ctx context.Context) ([]models.Applicant, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+applicantColumns+` FROM applicants ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Applicant{}
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
