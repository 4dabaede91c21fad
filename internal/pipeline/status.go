package pipeline

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of an application record.
type Status string

const (
	StatusSubmitted       Status = "submitted"
	StatusQualified       Status = "qualified"
	StatusDisqualified    Status = "disqualified"
	StatusUnderAssessment Status = "under_assessment"
	StatusFinalized       Status = "finalized"
)

// Event is what a completed evaluation stage reports to the lifecycle.
type Event string

const (
	EventScreenedQualified    Event = "screened_qualified"
	EventScreenedDisqualified Event = "screened_disqualified"
	EventAssessed             Event = "assessed"
	EventFinalized            Event = "finalized"
)

var (
	ErrIllegalTransition = errors.New("ILLEGAL_STATUS_TRANSITION")
	ErrUnknownStatus     = errors.New("UNKNOWN_STATUS")
)

var transitions = map[Status]map[Event]Status{
	StatusSubmitted: {
		EventScreenedQualified:    StatusQualified,
		EventScreenedDisqualified: StatusDisqualified,
	},
	StatusQualified: {
		EventAssessed: StatusUnderAssessment,
	},
	StatusUnderAssessment: {
		EventFinalized: StatusFinalized,
	},
}

// Transition returns the status that follows from after ev. Every stage goes
// through here; anything not in the table is rejected.
func Transition(from Status, ev Event) (Status, error) {
	if from.IsTerminal() {
		return "", fmt.Errorf("%w: %s is terminal", ErrIllegalTransition, from)
	}
	next, ok := transitions[from][ev]
	if !ok {
		return "", fmt.Errorf("%w: %s cannot accept %s", ErrIllegalTransition, from, ev)
	}
	return next, nil
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusSubmitted, StatusQualified, StatusDisqualified, StatusUnderAssessment, StatusFinalized:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s Status) IsTerminal() bool {
	return s == StatusDisqualified || s == StatusFinalized
}

func (s Status) String() string { return string(s) }
