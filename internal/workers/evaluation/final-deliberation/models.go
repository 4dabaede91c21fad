// internal/workers/evaluation/final-deliberation/models.go
package finaldeliberation

type Input struct {
	SessionToken               string `json:"sessionToken"`
	AssessmentScoreID          int64  `json:"assessmentScoreId"`
	Remarks                    string `json:"remarks,omitempty"`
	BackgroundInvestigation    string `json:"backgroundInvestigation,omitempty"`
	ForAppointment             string `json:"forAppointment,omitempty"`
	StatusOfAppointment        string `json:"statusOfAppointment,omitempty"`
	ForBackgroundInvestigation string `json:"forBackgroundInvestigation,omitempty"` // yes|no, defaults to yes
}

type Output struct {
	FinalDeliberationID        int64  `json:"finalDeliberationId"`
	AssessmentScoreID          int64  `json:"assessmentScoreId"`
	ApplicationID              int64  `json:"applicationId"`
	ForBackgroundInvestigation string `json:"forBackgroundInvestigation"`
	DateOfFinalDeliberation    string `json:"dateOfFinalDeliberation"` // RFC 3339, UTC
	ApplicationStatus          string `json:"applicationStatus"`
}
