package models

import "time"

// Application links an applicant to a position. Status is advanced only by the
// evaluation stages.
type Application struct {
	ID            int64     `json:"id" db:"id"`
	ApplicantID   int64     `json:"applicantId" db:"applicant_id"`
	PositionID    int64     `json:"positionId" db:"position_id"`
	ApplicantCode string    `json:"applicantCode" db:"applicant_code"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// ApplicationSummary is the row shape of application listings.
type ApplicationSummary struct {
	ID            int64     `json:"id"`
	ApplicantCode string    `json:"applicantCode"`
	Status        string    `json:"status"`
	ApplicantID   int64     `json:"applicantId"`
	ApplicantName string    `json:"applicantName"`
	PositionID    int64     `json:"positionId"`
	PositionTitle string    `json:"positionTitle"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ApplicationDetail is an application with everything recorded against it.
type ApplicationDetail struct {
	Application
	Applicant         *Applicant         `json:"applicant"`
	Position          *Position          `json:"position"`
	SchoolName        string             `json:"schoolName,omitempty"`
	InitialEvaluation *InitialEvaluation `json:"initialEvaluation,omitempty"`
	AssessmentScore   *AssessmentScore   `json:"assessmentScore,omitempty"`
	FinalDeliberation *FinalDeliberation `json:"finalDeliberation,omitempty"`
}
