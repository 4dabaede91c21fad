// internal/workers/application/create-application-record/models.go
package createapplicationrecord

type Input struct {
	SessionToken string `json:"sessionToken"`
	PositionID   int64  `json:"positionId"`
}

type Output struct {
	ApplicationID     int64  `json:"applicationId"`
	ApplicantCode     string `json:"applicantCode"`
	ApplicationStatus string `json:"applicationStatus"`
	CreatedAt         string `json:"createdAt"` // ISO 8601
}
