// internal/workers/application/get-application/models.go
package getapplication

import "hiring-workers/internal/models"

type Input struct {
	SessionToken  string `json:"sessionToken"`
	ApplicationID int64  `json:"applicationId"`
}

type Output struct {
	Application *models.ApplicationDetail `json:"application"`
	// Stage is the furthest evaluation stage recorded: 0 (none) to 3.
	Stage int `json:"stage"`
}
