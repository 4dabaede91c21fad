// internal/workers/evaluation/assessment-scoring/models.go
package assessmentscoring

import "github.com/shopspring/decimal"

type Input struct {
	SessionToken        string          `json:"sessionToken"`
	InitialEvaluationID int64           `json:"initialEvaluationId"`
	SchoolID            int64           `json:"schoolId"`
	ExamRating          decimal.Decimal `json:"examRating"`
	ClassObservation    decimal.Decimal `json:"classObservation"`
	NonClassObservation decimal.Decimal `json:"nonClassObservation"`
}

// Output carries every score as a fixed two-decimal string.
type Output struct {
	AssessmentScoreID   int64  `json:"assessmentScoreId"`
	InitialEvaluationID int64  `json:"initialEvaluationId"`
	ApplicationID       int64  `json:"applicationId"`
	Education           string `json:"education"`
	Training            string `json:"training"`
	Experience          string `json:"experience"`
	ExamRating          string `json:"examRating"`
	ClassObservation    string `json:"classObservation"`
	NonClassObservation string `json:"nonClassObservation"`
	ActualScore         string `json:"actualScore"`
	ApplicationStatus   string `json:"applicationStatus"`
}
