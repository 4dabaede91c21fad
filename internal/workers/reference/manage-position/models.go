// internal/workers/reference/manage-position/models.go
package manageposition

import (
	"hiring-workers/internal/models"

	"github.com/shopspring/decimal"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// MaxStandard bounds the position standards; increments are counted on the same scale.
const MaxStandard = 31

type Input struct {
	SessionToken string        `json:"sessionToken"`
	Operation    string        `json:"operation"`
	PositionID   int64         `json:"positionId,omitempty"`
	Position     PositionInput `json:"position"`
}

type PositionInput struct {
	Title              string          `json:"title"`
	SalaryGrade        int             `json:"salaryGrade"`
	MonthlySalary      decimal.Decimal `json:"monthlySalary"`
	SchoolYear         string          `json:"schoolYear,omitempty"`
	Level              string          `json:"level,omitempty"`
	StandardEducation  int             `json:"standardEducation"`
	StandardTraining   int             `json:"standardTraining"`
	StandardExperience int             `json:"standardExperience"`
}

type Output struct {
	Operation  string           `json:"operation"`
	PositionID int64            `json:"positionId"`
	Position   *models.Position `json:"position,omitempty"`
}
