// internal/workers/application/list-applications/handler.go
package listapplications

import (
	"context"
	"database/sql"
	"errors"

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
	TaskType = "list-applications"

	defaultLimit = 50
	maxLimit     = 200
)

type Handler struct {
	store    *store.Store
	sessions auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, sessions auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		store:    store.New(db),
		sessions: sessions,
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

// execute lists every application for administrators and only the caller's
// own applications for applicants.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	actor, err := auth.Authenticate(ctx, h.sessions, input.SessionToken)
	if err != nil {
		return nil, err
	}

	filter := store.ApplicationFilter{
		PositionID: input.PositionID,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if input.Status != "" {
		status, err := pipeline.ParseStatus(input.Status)
		if err != nil {
			return nil, apperrors.NewInputValidationError(err.Error())
		}
		filter.Status = status.String()
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	out := &Output{Applications: []models.ApplicationSummary{}, Limit: filter.Limit, Offset: filter.Offset}

	if !actor.IsAdmin() {
		applicant, err := h.store.GetApplicantByUserID(ctx, actor.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return out, nil
		}
		if err != nil {
			return nil, shared.StoreError("Applicant", "get applicant profile", err)
		}
		filter.ApplicantID = applicant.ID
	}

	rows, err := h.store.ListApplications(ctx, filter)
	if err != nil {
		return nil, shared.StoreError("Application", "list applications", err)
	}
	out.Applications = rows
	out.Count = len(rows)
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
