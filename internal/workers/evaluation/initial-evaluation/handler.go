// internal/workers/evaluation/initial-evaluation/handler.go
package initialevaluation

import (
	"context"
	"database/sql"
	"errors"
	"strings"

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
	TaskType = "initial-evaluation"
)

type Handler struct {
	db       *sql.DB
	store    *store.Store
	sessions auth.Resolver
	index    shared.Indexer
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, sessions auth.Resolver, index shared.Indexer, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		db:       db,
		store:    store.New(db),
		sessions: sessions,
		index:    index,
		runner:   camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger:   log,
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

	screening := pipeline.ScreeningInput{
		Applicant: pipeline.Levels{
			Education:  input.ApplicantEducation,
			Training:   input.ApplicantTraining,
			Experience: input.ApplicantExperience,
		},
		Eligibility: strings.TrimSpace(input.Eligibility),
		Override:    pipeline.Verdict(strings.ToLower(strings.TrimSpace(input.Remarks))),
		Feedback:    strings.TrimSpace(input.Feedback),
	}
	if err := screening.Validate(); err != nil {
		return nil, apperrors.NewInputValidationError(err.Error())
	}

	var (
		evaluation *models.InitialEvaluation
		status     pipeline.Status
	)
	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		st := h.store.WithTx(tx)

		app, err := st.LockApplication(ctx, input.ApplicationID)
		if err != nil {
			return shared.StoreError("Application", "lock application", err)
		}

		_, err = st.InitialEvaluationForApplication(ctx, app.ID)
		switch {
		case err == nil:
			return apperrors.NewDuplicateStageResultError(TaskType, app.ID)
		case !errors.Is(err, store.ErrNotFound):
			return shared.StoreError("InitialEvaluation", "check initial evaluation", err)
		}

		// The recorded standards are a snapshot, so they bypass the reference cache.
		position, err := st.GetPosition(ctx, app.PositionID)
		if err != nil {
			return shared.StoreError("Position", "get position", err)
		}

		result := pipeline.Screen(pipeline.Levels{
			Education:  position.StandardEducation,
			Training:   position.StandardTraining,
			Experience: position.StandardExperience,
		}, screening)

		status, err = pipeline.Transition(pipeline.Status(app.Status), result.Verdict.Event())
		if err != nil {
			return apperrors.NewStagePreconditionError(err.Error())
		}

		evaluation, err = st.InsertInitialEvaluation(ctx, &models.InitialEvaluation{
			ApplicationID:       app.ID,
			PositionID:          position.ID,
			Eligibility:         screening.Eligibility,
			Remarks:             string(result.Verdict),
			Feedback:            screening.Feedback,
			StandardEducation:   result.Standard.Education,
			StandardTraining:    result.Standard.Training,
			StandardExperience:  result.Standard.Experience,
			ApplicantEducation:  result.Applicant.Education,
			ApplicantTraining:   result.Applicant.Training,
			ApplicantExperience: result.Applicant.Experience,
			IncrementEducation:  result.Increments.Education,
			IncrementTraining:   result.Increments.Training,
			IncrementExperience: result.Increments.Experience,
			EvaluatedBy:         actor.UserID,
		})
		if err != nil {
			return shared.StageInsertError(TaskType, app.ID, err)
		}

		if err := st.UpdateApplicationStatus(ctx, app.ID, status.String()); err != nil {
			return apperrors.NewDatabaseInsertFailedError(err)
		}
		return nil
	})
	if err != nil {
		return nil, shared.TxError(err)
	}

	metrics.RecordStage(TaskType, evaluation.Remarks)
	shared.AfterCommit(ctx, h.logger, h.store, h.index, shared.Committed{
		EventType:     "initial_evaluation_recorded",
		ResourceType:  "application",
		ResourceID:    evaluation.ApplicationID,
		ApplicationID: evaluation.ApplicationID,
		Details: map[string]interface{}{
			"initialEvaluationId": evaluation.ID,
			"remarks":             evaluation.Remarks,
			"evaluatedBy":         evaluation.EvaluatedBy,
		},
	})

	h.logger.Info("initial evaluation recorded", map[string]interface{}{
		"applicationId":       evaluation.ApplicationID,
		"initialEvaluationId": evaluation.ID,
		"remarks":             evaluation.Remarks,
		"applicationStatus":   status,
	})

	return &Output{
		InitialEvaluationID: evaluation.ID,
		ApplicationID:       evaluation.ApplicationID,
		Remarks:             evaluation.Remarks,
		IncrementEducation:  evaluation.IncrementEducation,
		IncrementTraining:   evaluation.IncrementTraining,
		IncrementExperience: evaluation.IncrementExperience,
		ApplicationStatus:   status.String(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
