package models

import "time"

// Applicant is the profile a user maintains before applying.
type Applicant struct {
	ID          int64     `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address,omitempty" db:"address"`
	Age         int       `json:"age,omitempty" db:"age"`
	Sex         string    `json:"sex,omitempty" db:"sex"`
	CivilStatus string    `json:"civilStatus,omitempty" db:"civil_status"`
	Religion    string    `json:"religion,omitempty" db:"religion"`
	Disability  string    `json:"disability,omitempty" db:"disability"`
	EthnicGroup string    `json:"ethnicGroup,omitempty" db:"ethnic_group"`
	Email       string    `json:"email,omitempty" db:"email"`
	Contact     string    `json:"contact,omitempty" db:"contact"`
	Education   string    `json:"education,omitempty" db:"education"`
	Training    int       `json:"training" db:"training"`     // hours
	Experience  int       `json:"experience" db:"experience"` // months
	Eligibility string    `json:"eligibility,omitempty" db:"eligibility"`
	PDSURL      string    `json:"pdsUrl,omitempty" db:"pds_url"`
	LetterURL   string    `json:"letterUrl,omitempty" db:"letter_url"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
