// internal/workers/applicant/list-applicants/models.go
package listapplicants

import "hiring-workers/internal/models"

type Input struct {
	SessionToken string `json:"sessionToken"`
}

type Output struct {
	Applicants []models.Applicant `json:"applicants"`
	Total      int                `json:"total"`
}
