// internal/workers/evaluation/assessment-scoring/handler.go
package assessmentscoring

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/camunda"
	"hiring-workers/internal/common/database"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/common/metrics"
	"hiring-workers/internal/models"
	"hiring-workers/internal/pipeline"
	"hiring-workers/internal/store"
	"hiring-workers/internal/workers/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assessment-scoring"
)

type Handler struct {
	config    *Config
	db        *sql.DB
	store     *store.Store
	reference store.ReferenceReader
	sessions  auth.Resolver
	index     shared.Indexer
	runner    *camunda.Runner
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, reference store.ReferenceReader, sessions auth.Resolver, index shared.Indexer, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		db:        db,
		store:     store.New(db),
		reference: reference,
		sessions:  sessions,
		index:     index,
		runner:    camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.execute(ctx, &input)
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	actor, err := auth.Authenticate(ctx, h.sessions, input.SessionToken)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	ratings := pipeline.Ratings{
		Exam:                input.ExamRating,
		ClassObservation:    input.ClassObservation,
		NonClassObservation: input.NonClassObservation,
	}
	if err := ratings.Validate(h.config.Weights); err != nil {
		return nil, apperrors.NewInputValidationError(err.Error())
	}

	var (
		score         *models.AssessmentScore
		applicationID int64
		status        pipeline.Status
	)
	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		st := h.store.WithTx(tx)

		evaluation, err := st.GetInitialEvaluation(ctx, input.InitialEvaluationID)
		if err != nil {
			return shared.StoreError("InitialEvaluation", "get initial evaluation", err)
		}

		app, err := st.LockApplication(ctx, evaluation.ApplicationID)
		if err != nil {
			return shared.StoreError("Application", "lock application", err)
		}
		applicationID = app.ID

		if pipeline.Verdict(evaluation.Remarks) != pipeline.VerdictQualified {
			return apperrors.NewStagePreconditionError(
				fmt.Sprintf("initial evaluation %d is %s", evaluation.ID, evaluation.Remarks))
		}

		_, err = st.AssessmentScoreForEvaluation(ctx, evaluation.ID)
		switch {
		case err == nil:
			return apperrors.NewDuplicateStageResultError(TaskType, evaluation.ID)
		case !errors.Is(err, store.ErrNotFound):
			return shared.StoreError("AssessmentScore", "check assessment score", err)
		}

		exists, err := h.reference.SchoolExists(ctx, input.SchoolID)
		if err != nil {
			return shared.StoreError("School", "check school", err)
		}
		if !exists {
			return apperrors.NewResourceNotFoundError("School", fmt.Sprintf("school %d", input.SchoolID))
		}

		status, err = pipeline.Transition(pipeline.Status(app.Status), pipeline.EventAssessed)
		if err != nil {
			return apperrors.NewStagePreconditionError(err.Error())
		}

		assessment := pipeline.Score(pipeline.Levels{
			Education:  evaluation.IncrementEducation,
			Training:   evaluation.IncrementTraining,
			Experience: evaluation.IncrementExperience,
		}, ratings)

		score, err = st.InsertAssessmentScore(ctx, &models.AssessmentScore{
			InitialEvaluationID: evaluation.ID,
			SchoolID:            input.SchoolID,
			Education:           assessment.Education,
			Training:            assessment.Training,
			Experience:          assessment.Experience,
			ExamRating:          assessment.Exam,
			ClassObservation:    assessment.ClassObservation,
			NonClassObservation: assessment.NonClassObservation,
			ActualScore:         assessment.ActualScore,
			AssessedBy:          actor.UserID,
		})
		if err != nil {
			return shared.StageInsertError(TaskType, evaluation.ID, err)
		}

		if err := st.UpdateApplicationStatus(ctx, app.ID, status.String()); err != nil {
			return apperrors.NewDatabaseInsertFailedError(err)
		}
		return nil
	})
	if err != nil {
		return nil, shared.TxError(err)
	}

	metrics.RecordStage(TaskType, "scored")
	metrics.RecordAssessmentScore(score.ActualScore.InexactFloat64())
	shared.AfterCommit(ctx, h.logger, h.store, h.index, shared.Committed{
		EventType:     "assessment_score_recorded",
		ResourceType:  "application",
		ResourceID:    applicationID,
		ApplicationID: applicationID,
		Details: map[string]interface{}{
			"assessmentScoreId": score.ID,
			"actualScore":       score.ActualScore.StringFixed(pipeline.ScorePrecision),
			"assessedBy":        score.AssessedBy,
		},
	})

	h.logger.Info("assessment score recorded", map[string]interface{}{
		"applicationId":     applicationID,
		"assessmentScoreId": score.ID,
		"actualScore":       score.ActualScore.StringFixed(pipeline.ScorePrecision),
	})

	return &Output{
		AssessmentScoreID:   score.ID,
		InitialEvaluationID: score.InitialEvaluationID,
		ApplicationID:       applicationID,
		Education:           score.Education.StringFixed(pipeline.ScorePrecision),
		Training:            score.Training.StringFixed(pipeline.ScorePrecision),
		Experience:          score.Experience.StringFixed(pipeline.ScorePrecision),
		ExamRating:          score.ExamRating.StringFixed(pipeline.ScorePrecision),
		ClassObservation:    score.ClassObservation.StringFixed(pipeline.ScorePrecision),
		NonClassObservation: score.NonClassObservation.StringFixed(pipeline.ScorePrecision),
		ActualScore:         score.ActualScore.StringFixed(pipeline.ScorePrecision),
		ApplicationStatus:   status.String(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
