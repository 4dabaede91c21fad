// internal/workers/applicant/save-applicant-profile/models.go
package saveapplicantprofile

import "hiring-workers/internal/models"

type Input struct {
	SessionToken string  `json:"sessionToken"`
	Profile      Profile `json:"profile"`
}

// Profile is the editable part of an applicant profile; the owner comes from the session.
type Profile struct {
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	Age         int    `json:"age,omitempty"`
	Sex         string `json:"sex,omitempty"`
	CivilStatus string `json:"civilStatus,omitempty"`
	Religion    string `json:"religion,omitempty"`
	Disability  string `json:"disability,omitempty"`
	EthnicGroup string `json:"ethnicGroup,omitempty"`
	Email       string `json:"email,omitempty"`
	Contact     string `json:"contact,omitempty"`
	Education   string `json:"education,omitempty"`
	Training    int    `json:"training"`
	Experience  int    `json:"experience"`
	Eligibility string `json:"eligibility,omitempty"`
	PDSURL      string `json:"pdsUrl,omitempty"`
	LetterURL   string `json:"letterUrl,omitempty"`
}

type Output struct {
	ApplicantID int64             `json:"applicantId"`
	Created     bool              `json:"created"`
	Profile     *models.Applicant `json:"profile"`
}
