package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScorePrecision is the number of fractional digits kept for every score.
const ScorePrecision = 2

// Weights holds the maximum points of the manually rated criteria.
type Weights struct {
	Exam                decimal.Decimal
	ClassObservation    decimal.Decimal
	NonClassObservation decimal.Decimal
}

// DefaultWeights is the canonical table: exam 10, classroom observation 35,
// non-classroom observation 25. With the three derived criteria at 10 each the
// maximum total is 100.
var DefaultWeights = Weights{
	Exam:                decimal.NewFromInt(10),
	ClassObservation:    decimal.NewFromInt(35),
	NonClassObservation: decimal.NewFromInt(25),
}

// MaxDerivedScore caps each increment-derived sub-score.
const MaxDerivedScore = 10

var stepTable = []struct {
	minIncrement int
	score        int
}{
	{MaxDerivedScore, MaxDerivedScore},
	{8, 8},
	{6, 6},
	{4, 4},
	{2, 2},
}

// StepScore maps a qualification increment to its assessment points.
func StepScore(increment int) int {
	for _, step := range stepTable {
		if increment >= step.minIncrement {
			return step.score
		}
	}
	return 0
}

// Ratings are the three criteria an administrator scores by hand.
type Ratings struct {
	Exam                decimal.Decimal
	ClassObservation    decimal.Decimal
	NonClassObservation decimal.Decimal
}

func (r Ratings) Validate(w Weights) error {
	checks := []struct {
		name  string
		value decimal.Decimal
		max   decimal.Decimal
	}{
		{"examRating", r.Exam, w.Exam},
		{"classObservation", r.ClassObservation, w.ClassObservation},
		{"nonClassObservation", r.NonClassObservation, w.NonClassObservation},
	}
	for _, c := range checks {
		if c.value.IsNegative() || c.value.GreaterThan(c.max) {
			return fmt.Errorf("%w: %s %s outside 0-%s", ErrInvalidInput, c.name, c.value.String(), c.max.String())
		}
		if !c.value.Equal(c.value.Round(ScorePrecision)) {
			return fmt.Errorf("%w: %s %s has more than %d decimal places", ErrInvalidInput, c.name, c.value.String(), ScorePrecision)
		}
	}
	return nil
}

// Assessment is the full set of sub-scores and their total.
type Assessment struct {
	Education           decimal.Decimal
	Training            decimal.Decimal
	Experience          decimal.Decimal
	Exam                decimal.Decimal
	ClassObservation    decimal.Decimal
	NonClassObservation decimal.Decimal
	ActualScore         decimal.Decimal
}

// Score derives the education/training/experience points from the screening
// increments and adds the manual ratings.
func Score(increments Levels, r Ratings) Assessment {
	a := Assessment{
		Education:           decimal.NewFromInt(int64(StepScore(increments.Education))),
		Training:            decimal.NewFromInt(int64(StepScore(increments.Training))),
		Experience:          decimal.NewFromInt(int64(StepScore(increments.Experience))),
		Exam:                r.Exam.Round(ScorePrecision),
		ClassObservation:    r.ClassObservation.Round(ScorePrecision),
		NonClassObservation: r.NonClassObservation.Round(ScorePrecision),
	}
	a.ActualScore = decimal.Sum(a.Education, a.Training, a.Experience, a.Exam, a.ClassObservation, a.NonClassObservation).
		Round(ScorePrecision)
	return a
}
