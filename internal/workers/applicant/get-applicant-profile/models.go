// internal/workers/applicant/get-applicant-profile/models.go
package getapplicantprofile

import "hiring-workers/internal/models"

type Input struct {
	SessionToken string `json:"sessionToken"`
}

type Output struct {
	Profile *models.Applicant `json:"profile"`
}
