package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestJobTimer(t *testing.T) {
	before := testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("rank-assessments"))
	failedBefore := testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("rank-assessments", "FORBIDDEN"))

	StartJob("rank-assessments").Done("")
	timer := StartJob("rank-assessments")
	assert.Equal(t, float64(1), testutil.ToFloat64(WorkerJobsActive.WithLabelValues("rank-assessments")))
	timer.Done("FORBIDDEN")

	assert.Equal(t, before+1, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("rank-assessments")))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("rank-assessments", "FORBIDDEN")))
	assert.Equal(t, float64(0), testutil.ToFloat64(WorkerJobsActive.WithLabelValues("rank-assessments")))
}

func TestRecordStage(t *testing.T) {
	before := testutil.ToFloat64(StageResults.WithLabelValues("initial_evaluation", "disqualified"))
	RecordStage("initial_evaluation", "disqualified")
	assert.Equal(t, before+1, testutil.ToFloat64(StageResults.WithLabelValues("initial_evaluation", "disqualified")))
}
