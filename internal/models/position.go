package models

import "github.com/shopspring/decimal"

type Position struct {
	ID                 int64           `json:"id" db:"id"`
	Title              string          `json:"title" db:"title"`
	SalaryGrade        int             `json:"salaryGrade" db:"salary_grade"`
	MonthlySalary      decimal.Decimal `json:"monthlySalary" db:"monthly_salary"`
	SchoolYear         string          `json:"schoolYear,omitempty" db:"school_year"`
	Level              string          `json:"level,omitempty" db:"level"`
	StandardEducation  int             `json:"standardEducation" db:"standard_education"`
	StandardTraining   int             `json:"standardTraining" db:"standard_training"`
	StandardExperience int             `json:"standardExperience" db:"standard_experience"`
}

type School struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Address string `json:"address,omitempty" db:"address"`
}

type Major struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
