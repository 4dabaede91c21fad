// internal/workers/reference/list-reference-data/handler.go
package listreferencedata

import (
	"context"
	"fmt"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/camunda"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/store"
	"hiring-workers/internal/workers/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-reference-data"
)

type Handler struct {
	reference store.ReferenceReader
	sessions  auth.Resolver
	runner    *camunda.Runner
	logger    logger.Logger
}

// NewHandler expects the redis-backed reader in production.
func NewHandler(config *Config, reference store.ReferenceReader, sessions auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		reference: reference,
		sessions:  sessions,
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
	if _, err := auth.Authenticate(ctx, h.sessions, input.SessionToken); err != nil {
		return nil, err
	}

	kinds := input.Kinds
	if len(kinds) == 0 {
		kinds = []string{KindPositions, KindSchools, KindMajors}
	}

	out := &Output{}
	for _, kind := range kinds {
		var err error
		switch kind {
		case KindPositions:
			out.Positions, err = h.reference.ListPositions(ctx)
		case KindSchools:
			out.Schools, err = h.reference.ListSchools(ctx)
		case KindMajors:
			out.Majors, err = h.reference.ListMajors(ctx)
		default:
			return nil, apperrors.NewInputValidationError(fmt.Sprintf("unknown reference kind %q", kind))
		}
		if err != nil {
			return nil, shared.StoreError("Reference data", "list "+kind, err)
		}
	}
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
