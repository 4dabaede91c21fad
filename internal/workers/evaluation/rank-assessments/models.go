// internal/workers/evaluation/rank-assessments/models.go
package rankassessments

type Input struct {
	SessionToken string `json:"sessionToken"`
	PositionID   int64  `json:"positionId"`
}

type Ranking struct {
	Rank          int    `json:"rank"`
	ApplicationID int64  `json:"applicationId"`
	ApplicantCode string `json:"applicantCode"`
	ApplicantName string `json:"applicantName"`
	Status        string `json:"status"`
	SchoolName    string `json:"schoolName"`
	ActualScore   string `json:"actualScore"`
}

// Output is the comparative assessment result of one position.
type Output struct {
	PositionID    int64     `json:"positionId"`
	PositionTitle string    `json:"positionTitle"`
	Rankings      []Ranking `json:"rankings"`
	Total         int       `json:"total"`
}
