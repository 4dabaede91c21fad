// internal/workers/evaluation/rank-assessments/handler.go
package rankassessments

import (
	"context"
	"database/sql"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/camunda"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/pipeline"
	"hiring-workers/internal/store"
	"hiring-workers/internal/workers/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-assessments"
)

type Handler struct {
	store     *store.Store
	reference store.ReferenceReader
	sessions  auth.Resolver
	runner    *camunda.Runner
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, reference store.ReferenceReader, sessions auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		store:     store.New(db),
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
	actor, err := auth.Authenticate(ctx, h.sessions, input.SessionToken)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	position, err := h.reference.GetPosition(ctx, input.PositionID)
	if err != nil {
		return nil, shared.StoreError("Position", "get position", err)
	}

	ranked, err := h.store.RankAssessments(ctx, position.ID)
	if err != nil {
		return nil, shared.StoreError("AssessmentScore", "rank assessments", err)
	}

	out := &Output{
		PositionID:    position.ID,
		PositionTitle: position.Title,
		Rankings:      make([]Ranking, 0, len(ranked)),
		Total:         len(ranked),
	}
	for _, r := range ranked {
		out.Rankings = append(out.Rankings, Ranking{
			Rank:          r.Rank,
			ApplicationID: r.ApplicationID,
			ApplicantCode: r.ApplicantCode,
			ApplicantName: r.ApplicantName,
			Status:        r.Status,
			SchoolName:    r.SchoolName,
			ActualScore:   r.ActualScore.StringFixed(pipeline.ScorePrecision),
		})
	}

	h.logger.Debug("assessments ranked", map[string]interface{}{
		"positionId": position.ID,
		"total":      out.Total,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
