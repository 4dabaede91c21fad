// Package storetest provides an in-memory ReferenceReader for worker tests.
package storetest

import (
	"context"
	"fmt"

	"hiring-workers/internal/models"
	"hiring-workers/internal/store"
)

type Reference struct {
	Positions []models.Position
	Schools   []models.School
	Majors    []models.Major
	Err       error
}

var _ store.ReferenceReader = (*Reference)(nil)

func (r *Reference) GetPosition(_ context.Context, id int64) (*models.Position, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.Positions {
		if r.Positions[i].ID == id {
			p := r.Positions[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: position %d", store.ErrNotFound, id)
}

func (r *Reference) ListPositions(context.Context) ([]models.Position, error) {
	return r.Positions, r.Err
}

func (r *Reference) GetSchool(_ context.Context, id int64) (*models.School, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.Schools {
		if r.Schools[i].ID == id {
			s := r.Schools[i]
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%w: school %d", store.ErrNotFound, id)
}

func (r *Reference) SchoolExists(ctx context.Context, id int64) (bool, error) {
	_, err := r.GetSchool(ctx, id)
	if err != nil && r.Err == nil {
		return false, nil
	}
	return err == nil, err
}

func (r *Reference) ListSchools(context.Context) ([]models.School, error) {
	return r.Schools, r.Err
}

func (r *Reference) ListMajors(context.Context) ([]models.Major, error) {
	return r.Majors, r.Err
}

// Default mirrors the seeded reference data.
func Default() *Reference {
	return &Reference{
		Positions: []models.Position{
			{ID: 1, Title: "Teacher I", SalaryGrade: 11, StandardEducation: 6, StandardTraining: 1, StandardExperience: 2},
			{ID: 2, Title: "Teacher II", SalaryGrade: 12, StandardEducation: 8, StandardTraining: 2, StandardExperience: 4},
			{ID: 3, Title: "Master Teacher I", SalaryGrade: 18, StandardEducation: 15, StandardTraining: 10, StandardExperience: 10},
		},
		Schools: []models.School{
			{ID: 1, Name: "Central Elementary School", Address: "Poblacion, City"},
			{ID: 2, Name: "National High School", Address: "Brgy. San Jose, City"},
		},
		Majors: []models.Major{{ID: 1, Name: "English"}, {ID: 2, Name: "Mathematics"}},
	}
}
