package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"

	"hiring-workers/internal/common/database"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedData is the reference data document hiringctl seed loads.
type SeedData struct {
	Positions []SeedPosition `yaml:"positions"`
	Schools   []SeedSchool   `yaml:"schools"`
	Majors    []string       `yaml:"majors"`
}

type SeedPosition struct {
	Title              string          `yaml:"title"`
	SalaryGrade        int             `yaml:"salaryGrade"`
	MonthlySalary      decimal.Decimal `yaml:"monthlySalary"`
	SchoolYear         string          `yaml:"schoolYear"`
	Level              string          `yaml:"level"`
	StandardEducation  int             `yaml:"standardEducation"`
	StandardTraining   int             `yaml:"standardTraining"`
	StandardExperience int             `yaml:"standardExperience"`
}

type SeedSchool struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// SeedResult counts the rows actually inserted; existing rows are left alone.
type SeedResult struct {
	Positions int
	Schools   int
	Majors    int
}

func DefaultSeed() (*SeedData, error) {
	return parseSeed(defaultSeed)
}

func LoadSeedFile(path string) (*SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSeed(data)
}

func parseSeed(data []byte) (*SeedData, error) {
	var sd SeedData
	if err := yaml.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("parse seed document: %w", err)
	}
	for _, p := range sd.Positions {
		for _, v := range []int{p.StandardEducation, p.StandardTraining, p.StandardExperience} {
			if v < 0 || v > 31 {
				return nil, fmt.Errorf("position %q: standards must be between 0 and 31", p.Title)
			}
		}
	}
	return &sd, nil
}

// Seed inserts the reference data in one transaction, skipping rows whose
// natural key already exists.
func Seed(ctx context.Context, db *sql.DB, sd *SeedData) (SeedResult, error) {
	var res SeedResult
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		count := func(r sql.Result) int {
			n, _ := r.RowsAffected()
			return int(n)
		}

		for _, p := range sd.Positions {
			r, err := tx.ExecContext(ctx, `
				INSERT INTO positions (title, salary_grade, monthly_salary, school_year, level,
					standard_education, standard_training, standard_experience)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (title) DO NOTHING`,
				p.Title, p.SalaryGrade, p.MonthlySalary, p.SchoolYear, p.Level,
				p.StandardEducation, p.StandardTraining, p.StandardExperience)
			if err != nil {
				return fmt.Errorf("seed position %q: %w", p.Title, err)
			}
			res.Positions += count(r)
		}

		for _, s := range sd.Schools {
			r, err := tx.ExecContext(ctx,
				`INSERT INTO schools (name, address) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				s.Name, s.Address)
			if err != nil {
				return fmt.Errorf("seed school %q: %w", s.Name, err)
			}
			res.Schools += count(r)
		}

		for _, m := range sd.Majors {
			r, err := tx.ExecContext(ctx,
				`INSERT INTO majors (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, m)
			if err != nil {
				return fmt.Errorf("seed major %q: %w", m, err)
			}
			res.Majors += count(r)
		}
		return nil
	})
	return res, err
}
