// internal/workers/application/get-application/handler.go
package getapplication

import (
	"context"
	"database/sql"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/camunda"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/models"
	"hiring-workers/internal/store"
	"hiring-workers/internal/workers/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-application"
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	actor, err := auth.Authenticate(ctx, h.sessions, input.SessionToken)
	if err != nil {
		return nil, err
	}

	detail, err := h.store.GetApplicationDetail(ctx, input.ApplicationID)
	if err != nil {
		return nil, shared.StoreError("Application", "get application", err)
	}

	if err := auth.CanViewApplication(actor, detail.Applicant.UserID); err != nil {
		h.logger.Warn("application read denied", map[string]interface{}{
			"applicationId": detail.ID,
			"userId":        actor.UserID,
		})
		return nil, err
	}

	return &Output{Application: detail, Stage: stageOf(detail)}, nil
}

func stageOf(d *models.ApplicationDetail) int {
	switch {
	case d.FinalDeliberation != nil:
		return 3
	case d.AssessmentScore != nil:
		return 2
	case d.InitialEvaluation != nil:
		return 1
	}
	return 0
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
