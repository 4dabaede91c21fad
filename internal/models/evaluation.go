package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitialEvaluation is the stage 1 result (IER).
type InitialEvaluation struct {
	ID                  int64     `json:"id" db:"id"`
	ApplicationID       int64     `json:"applicationId" db:"application_id"`
	PositionID          int64     `json:"positionId" db:"position_id"`
	Eligibility         string    `json:"eligibility" db:"eligibility"`
	Remarks             string    `json:"remarks" db:"remarks"`
	Feedback            string    `json:"feedback,omitempty" db:"feedback"`
	StandardEducation   int       `json:"standardEducation" db:"standard_education"`
	StandardTraining    int       `json:"standardTraining" db:"standard_training"`
	StandardExperience  int       `json:"standardExperience" db:"standard_experience"`
	ApplicantEducation  int       `json:"applicantEducation" db:"applicant_education"`
	ApplicantTraining   int       `json:"applicantTraining" db:"applicant_training"`
	ApplicantExperience int       `json:"applicantExperience" db:"applicant_experience"`
	IncrementEducation  int       `json:"incrementEducation" db:"increment_education"`
	IncrementTraining   int       `json:"incrementTraining" db:"increment_training"`
	IncrementExperience int       `json:"incrementExperience" db:"increment_experience"`
	EvaluatedBy         string    `json:"evaluatedBy" db:"evaluated_by"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
}

// AssessmentScore is the stage 2 result (IES).
type AssessmentScore struct {
	ID                  int64           `json:"id" db:"id"`
	InitialEvaluationID int64           `json:"initialEvaluationId" db:"initial_evaluation_id"`
	SchoolID            int64           `json:"schoolId" db:"school_id"`
	Education           decimal.Decimal `json:"education" db:"education"`
	Training            decimal.Decimal `json:"training" db:"training"`
	Experience          decimal.Decimal `json:"experience" db:"experience"`
	ExamRating          decimal.Decimal `json:"examRating" db:"exam_rating"`
	ClassObservation    decimal.Decimal `json:"classObservation" db:"class_observation"`
	NonClassObservation decimal.Decimal `json:"nonClassObservation" db:"non_class_observation"`
	ActualScore         decimal.Decimal `json:"actualScore" db:"actual_score"`
	AssessedBy          string          `json:"assessedBy" db:"assessed_by"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
}

// FinalDeliberation is the stage 3 result (CAR).
type FinalDeliberation struct {
	ID                         int64     `json:"id" db:"id"`
	AssessmentScoreID          int64     `json:"assessmentScoreId" db:"assessment_score_id"`
	Remarks                    string    `json:"remarks,omitempty" db:"remarks"`
	BackgroundInvestigation    string    `json:"backgroundInvestigation,omitempty" db:"background_investigation"`
	ForAppointment             string    `json:"forAppointment,omitempty" db:"for_appointment"`
	StatusOfAppointment        string    `json:"statusOfAppointment,omitempty" db:"status_of_appointment"`
	ForBackgroundInvestigation string    `json:"forBackgroundInvestigation" db:"for_background_investigation"`
	DateOfFinalDeliberation    time.Time `json:"dateOfFinalDeliberation" db:"date_of_final_deliberation"`
	FinalizedBy                string    `json:"finalizedBy" db:"finalized_by"`
	CreatedAt                  time.Time `json:"createdAt" db:"created_at"`
}

// RankedAssessment is one line of the comparative assessment result.
type RankedAssessment struct {
	Rank          int             `json:"rank"`
	ApplicationID int64           `json:"applicationId"`
	ApplicantCode string          `json:"applicantCode"`
	ApplicantName string          `json:"applicantName"`
	Status        string          `json:"status"`
	SchoolName    string          `json:"schoolName"`
	ActualScore   decimal.Decimal `json:"actualScore"`
}
