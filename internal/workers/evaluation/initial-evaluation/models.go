// internal/workers/evaluation/initial-evaluation/models.go
package initialevaluation

type Input struct {
	SessionToken        string `json:"sessionToken"`
	ApplicationID       int64  `json:"applicationId"`
	ApplicantEducation  int    `json:"applicantEducation"`
	ApplicantTraining   int    `json:"applicantTraining"`
	ApplicantExperience int    `json:"applicantExperience"`
	Eligibility         string `json:"eligibility"`
	Remarks             string `json:"remarks,omitempty"` // optional override: qualified|disqualified
	Feedback            string `json:"feedback,omitempty"`
}

type Output struct {
	InitialEvaluationID int64  `json:"initialEvaluationId"`
	ApplicationID       int64  `json:"applicationId"`
	Remarks             string `json:"remarks"`
	IncrementEducation  int    `json:"incrementEducation"`
	IncrementTraining   int    `json:"incrementTraining"`
	IncrementExperience int    `json:"incrementExperience"`
	ApplicationStatus   string `json:"applicationStatus"`
}
