// internal/workers/application/list-applications/models.go
package listapplications

import "hiring-workers/internal/models"

type Input struct {
	SessionToken string `json:"sessionToken"`
	Status       string `json:"status,omitempty"`
	PositionID   int64  `json:"positionId,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

type Output struct {
	Applications []models.ApplicationSummary `json:"applications"`
	Count        int                         `json:"count"`
	Limit        int                         `json:"limit"`
	Offset       int                         `json:"offset"`
}
