package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLevel is the top of the ordinal qualification scale.
const MaxLevel = 31

var ErrInvalidInput = errors.New("INVALID_INPUT")

// Verdict is the outcome of the initial evaluation.
type Verdict string

const (
	VerdictQualified    Verdict = "qualified"
	VerdictDisqualified Verdict = "disqualified"
)

func (v Verdict) Valid() bool {
	return v == VerdictQualified || v == VerdictDisqualified
}

// Event maps the verdict onto the lifecycle event it triggers.
func (v Verdict) Event() Event {
	if v == VerdictDisqualified {
		return EventScreenedDisqualified
	}
	return EventScreenedQualified
}

// Levels is an education/training/experience triple. It is used for position
// standards, applicant levels and the signed increments between them.
type Levels struct {
	Education  int `json:"education"`
	Training   int `json:"training"`
	Experience int `json:"experience"`
}

// ValidateRange checks that every level is on the 0..MaxLevel scale.
func (l Levels) ValidateRange(label string) error {
	checks := []struct {
		name  string
		value int
	}{
		{"education", l.Education},
		{"training", l.Training},
		{"experience", l.Experience},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > MaxLevel {
			return fmt.Errorf("%w: %s %s level %d outside 0-%d", ErrInvalidInput, label, c.name, c.value, MaxLevel)
		}
	}
	return nil
}

// Sub returns the per-criterion increment l - std.
func (l Levels) Sub(std Levels) Levels {
	return Levels{
		Education:  l.Education - std.Education,
		Training:   l.Training - std.Training,
		Experience: l.Experience - std.Experience,
	}
}

// ScreeningInput is the administrator's submission for the initial evaluation.
type ScreeningInput struct {
	Applicant   Levels
	Eligibility string
	Override    Verdict // empty when no override was given
	Feedback    string
}

func (in ScreeningInput) Validate() error {
	if err := in.Applicant.ValidateRange("applicant"); err != nil {
		return err
	}
	if strings.TrimSpace(in.Eligibility) == "" {
		return fmt.Errorf("%w: eligibility is required", ErrInvalidInput)
	}
	if in.Override != "" && !in.Override.Valid() {
		return fmt.Errorf("%w: remarks must be qualified or disqualified, got %q", ErrInvalidInput, in.Override)
	}
	return nil
}

type ScreeningResult struct {
	Standard   Levels
	Applicant  Levels
	Increments Levels
	Verdict    Verdict
}

// Screen compares the applicant's levels against the position standard.
// A negative education increment always disqualifies; training and experience
// deficits do not.
func Screen(standard Levels, in ScreeningInput) ScreeningResult {
	inc := in.Applicant.Sub(standard)

	verdict := VerdictQualified
	if in.Override != "" {
		verdict = in.Override
	}
	if inc.Education < 0 {
		verdict = VerdictDisqualified
	}

	return ScreeningResult{
		Standard:   standard,
		Applicant:  in.Applicant,
		Increments: inc,
		Verdict:    verdict,
	}
}
