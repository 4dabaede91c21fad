// internal/workers/applicant/save-applicant-profile/handler.go
package saveapplicantprofile

import (
	"context"
	"database/sql"
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
	TaskType = "save-applicant-profile"
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
	if err := auth.RequireApplicant(actor); err != nil {
		return nil, err
	}

	p := input.Profile
	if strings.TrimSpace(p.Name) == "" {
		return nil, apperrors.NewInputValidationError("profile.name is required")
	}
	if p.Training < 0 || p.Experience < 0 {
		return nil, apperrors.NewInputValidationError("profile training and experience cannot be negative")
	}

	saved, err := h.store.SaveApplicant(ctx, &models.Applicant{
		UserID:      actor.UserID,
		Name:        strings.TrimSpace(p.Name),
		Address:     strings.TrimSpace(p.Address),
		Age:         p.Age,
		Sex:         p.Sex,
		CivilStatus: p.CivilStatus,
		Religion:    p.Religion,
		Disability:  p.Disability,
		EthnicGroup: p.EthnicGroup,
		Email:       strings.TrimSpace(p.Email),
		Contact:     strings.TrimSpace(p.Contact),
		Education:   p.Education,
		Training:    p.Training,
		Experience:  p.Experience,
		Eligibility: p.Eligibility,
		PDSURL:      p.PDSURL,
		LetterURL:   p.LetterURL,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	created := saved.CreatedAt.Equal(saved.UpdatedAt)
	eventType := "applicant_profile_updated"
	if created {
		eventType = "applicant_profile_created"
	}
	shared.AfterCommit(ctx, h.logger, h.store, nil, shared.Committed{
		EventType:    eventType,
		ResourceType: "applicant",
		ResourceID:   saved.ID,
		Details:      map[string]interface{}{"userId": saved.UserID},
	})

	h.logger.Info("applicant profile saved", map[string]interface{}{
		"applicantId": saved.ID,
		"userId":      saved.UserID,
		"created":     created,
	})

	return &Output{ApplicantID: saved.ID, Created: created, Profile: saved}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
