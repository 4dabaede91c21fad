// internal/workers/reference/manage-position/handler.go
package manageposition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/camunda"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/models"
	"hiring-workers/internal/store"
	"hiring-workers/internal/workers/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "manage-position"
)

// Invalidator drops cached reference data after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Handler struct {
	store    *store.Store
	cache    Invalidator
	sessions auth.Resolver
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, cache Invalidator, sessions auth.Resolver, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		store:    store.New(db),
		cache:    cache,
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

	out := &Output{Operation: input.Operation, PositionID: input.PositionID}
	switch input.Operation {
	case OperationCreate:
		p, err := toPosition(0, &input.Position)
		if err != nil {
			return nil, err
		}
		if out.Position, err = h.store.CreatePosition(ctx, p); err != nil {
			return nil, writeError(p, err)
		}
		out.PositionID = out.Position.ID
	case OperationUpdate:
		if input.PositionID <= 0 {
			return nil, apperrors.NewInputValidationError("positionId is required for update")
		}
		p, err := toPosition(input.PositionID, &input.Position)
		if err != nil {
			return nil, err
		}
		if out.Position, err = h.store.UpdatePosition(ctx, p); err != nil {
			return nil, writeError(p, err)
		}
	case OperationDelete:
		if input.PositionID <= 0 {
			return nil, apperrors.NewInputValidationError("positionId is required for delete")
		}
		if err := h.store.DeletePosition(ctx, input.PositionID); err != nil {
			if errors.Is(err, store.ErrInUse) {
				return nil, apperrors.NewPositionInUseError(input.PositionID)
			}
			return nil, shared.StoreError("Position", "delete position", err)
		}
	default:
		return nil, apperrors.NewInputValidationError(fmt.Sprintf("unknown operation %q", input.Operation))
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			h.logger.Warn("reference cache invalidation failed", map[string]interface{}{
				"error":      err,
				"positionId": out.PositionID,
			})
		}
	}

	shared.AfterCommit(ctx, h.logger, h.store, nil, shared.Committed{
		EventType:    "position_" + input.Operation + "d",
		ResourceType: "position",
		ResourceID:   out.PositionID,
		Details:      map[string]interface{}{"actor": actor.UserID},
	})

	h.logger.Info("position written", map[string]interface{}{
		"operation":  input.Operation,
		"positionId": out.PositionID,
	})
	return out, nil
}

func toPosition(id int64, in *PositionInput) (*models.Position, error) {
	var problems []string
	title := strings.TrimSpace(in.Title)
	if title == "" {
		problems = append(problems, "title is required")
	}
	if in.SalaryGrade <= 0 {
		problems = append(problems, "salaryGrade must be positive")
	}
	if in.MonthlySalary.IsNegative() {
		problems = append(problems, "monthlySalary must not be negative")
	}
	standards := []struct {
		name  string
		value int
	}{
		{"standardEducation", in.StandardEducation},
		{"standardTraining", in.StandardTraining},
		{"standardExperience", in.StandardExperience},
	}
	for _, s := range standards {
		if s.value < 0 || s.value > MaxStandard {
			problems = append(problems, fmt.Sprintf("%s must be between 0 and %d", s.name, MaxStandard))
		}
	}
	if len(problems) > 0 {
		return nil, apperrors.NewInputValidationError(strings.Join(problems, "; "))
	}

	return &models.Position{
		ID:                 id,
		Title:              title,
		SalaryGrade:        in.SalaryGrade,
		MonthlySalary:      in.MonthlySalary,
		SchoolYear:         in.SchoolYear,
		Level:              in.Level,
		StandardEducation:  in.StandardEducation,
		StandardTraining:   in.StandardTraining,
		StandardExperience: in.StandardExperience,
	}, nil
}

func writeError(p *models.Position, err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return apperrors.NewInputValidationError(fmt.Sprintf("a position titled %q already exists", p.Title))
	}
	if errors.Is(err, store.ErrNotFound) {
		return shared.StoreError("Position", "write position", err)
	}
	return apperrors.NewDatabaseInsertFailedError(err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
