// internal/workers/reference/list-reference-data/models.go
package listreferencedata

import "hiring-workers/internal/models"

const (
	KindPositions = "positions"
	KindSchools   = "schools"
	KindMajors    = "majors"
)

type Input struct {
	SessionToken string   `json:"sessionToken"`
	Kinds        []string `json:"kinds,omitempty"` // empty means all
}

type Output struct {
	Positions []models.Position `json:"positions,omitempty"`
	Schools   []models.School   `json:"schools,omitempty"`
	Majors    []models.Major    `json:"majors,omitempty"`
}
