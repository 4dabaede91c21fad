// internal/workers/data-access/search-applications/handler.go
package searchapplications

import (
	"context"
	"errors"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/camunda"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/pipeline"
	"hiring-workers/internal/search"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-applications"

	defaultPageSize = 20
	maxPageSize     = 100
)

// Searcher is satisfied by *search.Index.
type Searcher interface {
	Name() string
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

type Handler struct {
	index    Searcher
	sessions auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, index Searcher, sessions auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		index:    index,
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
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	q := search.Query{Text: input.Query}
	if input.Status != "" {
		status, err := pipeline.ParseStatus(input.Status)
		if err != nil {
			return nil, apperrors.NewInputValidationError(err.Error())
		}
		q.Status = status.String()
	}

	q.From, q.Size = input.From, input.Size
	if q.From < 0 {
		q.From = 0
	}
	if q.Size < 1 {
		q.Size = defaultPageSize
	}
	if q.Size > maxPageSize {
		q.Size = maxPageSize
	}

	res, err := h.index.Search(ctx, q)
	if err != nil {
		h.logger.Error("application search failed", map[string]interface{}{
			"error": err,
			"index": h.index.Name(),
		})
		if errors.Is(err, search.ErrSearchFailed) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewSearchQueryFailedError(h.index.Name(), err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	return &Output{
		Hits:   res.Hits,
		Total:  res.Total,
		From:   q.From,
		Size:   q.Size,
		TookMs: res.Took,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
