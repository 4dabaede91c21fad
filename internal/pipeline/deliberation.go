package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// YesNo is the background investigation flag recorded at final deliberation.
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

const maxDeliberationText = 2000

// DeliberationInput is the administrator's submission for the final deliberation.
type DeliberationInput struct {
	Remarks                    string
	BackgroundInvestigation    string
	ForAppointment             string
	StatusOfAppointment        string
	ForBackgroundInvestigation YesNo
}

// Normalize trims the free-text fields and defaults the investigation flag to yes.
func (in DeliberationInput) Normalize() DeliberationInput {
	out := DeliberationInput{
		Remarks:                    strings.TrimSpace(in.Remarks),
		BackgroundInvestigation:    strings.TrimSpace(in.BackgroundInvestigation),
		ForAppointment:             strings.TrimSpace(in.ForAppointment),
		StatusOfAppointment:        strings.TrimSpace(in.StatusOfAppointment),
		ForBackgroundInvestigation: YesNo(strings.ToLower(strings.TrimSpace(string(in.ForBackgroundInvestigation)))),
	}
	if out.ForBackgroundInvestigation == "" {
		out.ForBackgroundInvestigation = Yes
	}
	return out
}

func (in DeliberationInput) Validate() error {
	if in.ForBackgroundInvestigation != Yes && in.ForBackgroundInvestigation != No {
		return fmt.Errorf("%w: forBackgroundInvestigation must be yes or no, got %q", ErrInvalidInput, in.ForBackgroundInvestigation)
	}
	for name, text := range map[string]string{
		"remarks":                 in.Remarks,
		"backgroundInvestigation": in.BackgroundInvestigation,
		"forAppointment":          in.ForAppointment,
		"statusOfAppointment":     in.StatusOfAppointment,
	} {
		if utf8.RuneCountInString(text) > maxDeliberationText {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidInput, name, maxDeliberationText)
		}
	}
	return nil
}
