// internal/workers/applicant/get-applicant-profile/handler.go
package getapplicantprofile

import (
	"context"
	"database/sql"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/camunda"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/store"
	"hiring-workers/internal/workers/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-applicant-profile"
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

// execute returns the caller's own profile only.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	actor, err := auth.Authenticate(ctx, h.sessions, input.SessionToken)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireApplicant(actor); err != nil {
		return nil, err
	}

	profile, err := h.store.GetApplicantByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, shared.StoreError("Applicant", "get applicant profile", err)
	}
	return &Output{Profile: profile}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
