// internal/workers/application/create-application-record/handler.go
package createapplicationrecord

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/camunda"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/models"
	"hiring-workers/internal/pipeline"
	"hiring-workers/internal/store"
	"hiring-workers/internal/workers/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "create-application-record"
)

type Handler struct {
	config    *Config
	store     *store.Store
	reference store.ReferenceReader
	sessions  auth.Resolver
	index     shared.Indexer
	codes     CodeGenerator
	runner    *camunda.Runner
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, reference store.ReferenceReader, sessions auth.Resolver, index shared.Indexer, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	if config.CodeAttempts <= 0 {
		config.CodeAttempts = 5
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     store.New(db),
		reference: reference,
		sessions:  sessions,
		index:     index,
		codes:     randomCode,
		runner:    camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger:    log,
	}
}

// WithCodeGenerator replaces the random applicant code source.
func (h *Handler) WithCodeGenerator(g CodeGenerator) *Handler {
	h.codes = g
	return h
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
	if err := auth.RequireApplicant(actor); err != nil {
		return nil, err
	}

	applicant, err := h.store.GetApplicantByUserID(ctx, actor.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewStagePreconditionError("an applicant profile is required before applying")
	}
	if err != nil {
		return nil, shared.StoreError("Applicant", "get applicant profile", err)
	}

	position, err := h.reference.GetPosition(ctx, input.PositionID)
	if err != nil {
		return nil, shared.StoreError("Position", "get position", err)
	}

	exists, err := h.store.ApplicationExists(ctx, applicant.ID, position.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError("check duplicate application", err)
	}
	if exists {
		return nil, apperrors.NewDuplicateApplicationError(applicant.ID, position.ID)
	}

	app, err := h.insert(ctx, applicant.ID, position.ID)
	if err != nil {
		return nil, err
	}

	shared.AfterCommit(ctx, h.logger, h.store, h.index, shared.Committed{
		EventType:     "application_created",
		ResourceType:  "application",
		ResourceID:    app.ID,
		ApplicationID: app.ID,
		Details: map[string]interface{}{
			"applicantId":   applicant.ID,
			"positionId":    position.ID,
			"applicantCode": app.ApplicantCode,
		},
	})

	h.logger.Info("application record created", map[string]interface{}{
		"applicationId": app.ID,
		"applicantCode": app.ApplicantCode,
		"applicantId":   applicant.ID,
		"positionId":    position.ID,
	})

	return &Output{
		ApplicationID:     app.ID,
		ApplicantCode:     app.ApplicantCode,
		ApplicationStatus: app.Status,
		CreatedAt:         app.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// insert draws applicant codes until one is free. The unique index on
// (applicant_id, position_id) still decides a race between two submissions.
func (h *Handler) insert(ctx context.Context, applicantID, positionID int64) (*models.Application, error) {
	var lastErr error
	for attempt := 1; attempt <= h.config.CodeAttempts; attempt++ {
		app, err := h.store.CreateApplication(ctx, &models.Application{
			ApplicantID:   applicantID,
			PositionID:    positionID,
			ApplicantCode: h.codes(),
			Status:        pipeline.StatusSubmitted.String(),
		})
		switch {
		case err == nil:
			return app, nil
		case errors.Is(err, store.ErrCodeCollision):
			h.logger.Debug("applicant code collision, redrawing", map[string]interface{}{
				"attempt": attempt,
				"error":   err,
			})
			lastErr = err
		case errors.Is(err, store.ErrDuplicate):
			return nil, apperrors.NewDuplicateApplicationError(applicantID, positionID)
		default:
			return nil, apperrors.NewDatabaseInsertFailedError(err)
		}
	}
	return nil, apperrors.NewDatabaseInsertFailedError(
		fmt.Errorf("no free applicant code after %d attempts: %w", h.config.CodeAttempts, lastErr))
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
