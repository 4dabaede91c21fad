// internal/workers/evaluation/final-deliberation/handler.go
package finaldeliberation

import (
	"context"
	"database/sql"
	"errors"
	"time"

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
	TaskType = "final-deliberation"
)

type Handler struct {
	config   *Config
	db       *sql.DB
	store    *store.Store
	sessions auth.Resolver
	index    shared.Indexer
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, sessions auth.Resolver, index shared.Indexer, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	if config.Now == nil {
		config.Now = time.Now
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
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

	decision := pipeline.DeliberationInput{
		Remarks:                    input.Remarks,
		BackgroundInvestigation:    input.BackgroundInvestigation,
		ForAppointment:             input.ForAppointment,
		StatusOfAppointment:        input.StatusOfAppointment,
		ForBackgroundInvestigation: pipeline.YesNo(input.ForBackgroundInvestigation),
	}.Normalize()
	if err := decision.Validate(); err != nil {
		return nil, apperrors.NewInputValidationError(err.Error())
	}

	var (
		deliberation  *models.FinalDeliberation
		applicationID int64
		status        pipeline.Status
	)
	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		st := h.store.WithTx(tx)

		score, err := st.GetAssessmentScore(ctx, input.AssessmentScoreID)
		if err != nil {
			return shared.StoreError("AssessmentScore", "get assessment score", err)
		}
		evaluation, err := st.GetInitialEvaluation(ctx, score.InitialEvaluationID)
		if err != nil {
			return shared.StoreError("InitialEvaluation", "get initial evaluation", err)
		}

		app, err := st.LockApplication(ctx, evaluation.ApplicationID)
		if err != nil {
			return shared.StoreError("Application", "lock application", err)
		}
		applicationID = app.ID

		_, err = st.FinalDeliberationForScore(ctx, score.ID)
		switch {
		case err == nil:
			return apperrors.NewDuplicateStageResultError(TaskType, score.ID)
		case !errors.Is(err, store.ErrNotFound):
			return shared.StoreError("FinalDeliberation", "check final deliberation", err)
		}

		status, err = pipeline.Transition(pipeline.Status(app.Status), pipeline.EventFinalized)
		if err != nil {
			return apperrors.NewStagePreconditionError(err.Error())
		}

		deliberation, err = st.InsertFinalDeliberation(ctx, &models.FinalDeliberation{
			AssessmentScoreID:          score.ID,
			Remarks:                    decision.Remarks,
			BackgroundInvestigation:    decision.BackgroundInvestigation,
			ForAppointment:             decision.ForAppointment,
			StatusOfAppointment:        decision.StatusOfAppointment,
			ForBackgroundInvestigation: string(decision.ForBackgroundInvestigation),
			DateOfFinalDeliberation:    h.config.Now().UTC(),
			FinalizedBy:                actor.UserID,
		})
		if err != nil {
			return shared.StageInsertError(TaskType, score.ID, err)
		}

		if err := st.UpdateApplicationStatus(ctx, app.ID, status.String()); err != nil {
			return apperrors.NewDatabaseInsertFailedError(err)
		}
		return nil
	})
	if err != nil {
		return nil, shared.TxError(err)
	}

	metrics.RecordStage(TaskType, deliberation.ForBackgroundInvestigation)
	shared.AfterCommit(ctx, h.logger, h.store, h.index, shared.Committed{
		EventType:     "final_deliberation_recorded",
		ResourceType:  "application",
		ResourceID:    applicationID,
		ApplicationID: applicationID,
		Details: map[string]interface{}{
			"finalDeliberationId":        deliberation.ID,
			"forBackgroundInvestigation": deliberation.ForBackgroundInvestigation,
			"finalizedBy":                deliberation.FinalizedBy,
		},
	})

	h.logger.Info("final deliberation recorded", map[string]interface{}{
		"applicationId":       applicationID,
		"finalDeliberationId": deliberation.ID,
	})

	return &Output{
		FinalDeliberationID:        deliberation.ID,
		AssessmentScoreID:          deliberation.AssessmentScoreID,
		ApplicationID:              applicationID,
		ForBackgroundInvestigation: deliberation.ForBackgroundInvestigation,
		DateOfFinalDeliberation:    deliberation.DateOfFinalDeliberation.Format(time.RFC3339),
		ApplicationStatus:          status.String(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
