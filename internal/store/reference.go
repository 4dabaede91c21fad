package store

import (
	"context"
	"fmt"
	"time"

	"hiring-workers/internal/common/database"
	"hiring-workers/internal/models"
)

// ReferenceReader is the read side of positions, schools and majors.
type ReferenceReader interface {
	GetPosition(ctx context.Context, id int64) (*models.Position, error)
	ListPositions(ctx context.Context) ([]models.Position, error)
	GetSchool(ctx context.Context, id int64) (*models.School, error)
	SchoolExists(ctx context.Context, id int64) (bool, error)
	ListSchools(ctx context.Context) ([]models.School, error)
	ListMajors(ctx context.Context) ([]models.Major, error)
}

const positionColumns = `id, title, salary_grade, monthly_salary, school_year, level,
	standard_education, standard_training, standard_experience`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPosition(r rowScanner) (*models.Position, error) {
	var p models.Position
	err := r.Scan(&p.ID, &p.Title, &p.SalaryGrade, &p.MonthlySalary, &p.SchoolYear, &p.Level,
		&p.StandardEducation, &p.StandardTraining, &p.StandardExperience)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetPosition(ctx context.Context, id int64) (*models.Position, error) {
	p, err := scanPosition(s.q.QueryRowContext(ctx,
		`SELECT `+positionColumns+` FROM positions WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "position", id)
	}
	return p, nil
}

func (s *Store) ListPositions(ctx context.Context) ([]models.Position, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+positionColumns+` FROM positions ORDER BY salary_grade, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) GetSchool(ctx context.Context, id int64) (*models.School, error) {
	var sc models.School
	err := s.q.QueryRowContext(ctx, `SELECT id, name, address FROM schools WHERE id = $1`, id).
		Scan(&sc.ID, &sc.Name, &sc.Address)
	if err != nil {
		return nil, notFound(err, "school", id)
	}
	return &sc, nil
}

func (s *Store) SchoolExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schools WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (s *Store) ListSchools(ctx context.Context) ([]models.School, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, name, address FROM schools ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.School{}
	for rows.Next() {
		var sc models.School
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Address); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) ListMajors(ctx context.Context) ([]models.Major, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, name FROM majors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Major{}
	for rows.Next() {
		var m models.Major
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) CreatePosition(ctx context.Context, p *models.Position) (*models.Position, error) {
	now := time.Now().UTC()
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO positions (title, salary_grade, monthly_salary, school_year, level,
			standard_education, standard_training, standard_experience, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id`,
		p.Title, p.SalaryGrade, p.MonthlySalary, p.SchoolYear, p.Level,
		p.StandardEducation, p.StandardTraining, p.StandardExperience, now,
	).Scan(&p.ID)
	if database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: position title %q", ErrDuplicate, p.Title)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) UpdatePosition(ctx context.Context, p *models.Position) (*models.Position, error) {
	res, err := s.q.ExecContext(ctx, `
		UPDATE positions SET title = $2, salary_grade = $3, monthly_salary = $4, school_year = $5,
			level = $6, standard_education = $7, standard_training = $8, standard_experience = $9,
			updated_at = $10
		WHERE id = $1`,
		p.ID, p.Title, p.SalaryGrade, p.MonthlySalary, p.SchoolYear, p.Level,
		p.StandardEducation, p.StandardTraining, p.StandardExperience, time.Now().UTC(),
	)
	if database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: position title %q", ErrDuplicate, p.Title)
	}
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: position %d", ErrNotFound, p.ID)
	}
	return p, nil
}

// DeletePosition refuses while any application references the position.
func (s *Store) DeletePosition(ctx context.Context, id int64) error {
	var inUse bool
	if err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE position_id = $1)`, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: position %d", ErrInUse, id)
	}

	res, err := s.q.ExecContext(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: position %d", ErrInUse, id)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: position %d", ErrNotFound, id)
	}
	return nil
}
