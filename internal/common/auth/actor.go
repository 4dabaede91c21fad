package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "hiring-workers/internal/common/errors"
)

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleAdmin     Role = "admin"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

var ErrNoSession = errors.New("NO_SESSION")

// Resolver answers "who is calling" for a session token.
type Resolver interface {
	CurrentUser(ctx context.Context, token string) (*Actor, error)
}

// Authenticate resolves token and maps failures onto the worker error taxonomy.
func Authenticate(ctx context.Context, r Resolver, token string) (*Actor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewUnauthorizedError("session token missing")
	}

	actor, err := r.CurrentUser(ctx, token)
	switch {
	case errors.Is(err, ErrNoSession):
		return nil, apperrors.NewUnauthorizedError("session expired or unknown")
	case err != nil:
		return nil, apperrors.NewCacheUnavailableError(err)
	}
	return actor, nil
}

func RequireAdmin(a *Actor) error {
	if !a.IsAdmin() {
		return apperrors.NewForbiddenError("administrator role required")
	}
	return nil
}

func RequireApplicant(a *Actor) error {
	if a == nil || a.Role != RoleApplicant {
		return apperrors.NewForbiddenError("applicant role required")
	}
	return nil
}

// CanViewApplication allows administrators and the user who owns the underlying profile.
func CanViewApplication(a *Actor, ownerUserID string) error {
	if a.IsAdmin() {
		return nil
	}
	if a != nil && a.UserID != "" && a.UserID == ownerUserID {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("user %s does not own this application", userOf(a)))
}

func userOf(a *Actor) string {
	if a == nil {
		return "anonymous"
	}
	return a.UserID
}

// StaticResolver resolves tokens from a fixed map.
type StaticResolver map[string]Actor

func (s StaticResolver) CurrentUser(_ context.Context, token string) (*Actor, error) {
	a, ok := s[token]
	if !ok {
		return nil, ErrNoSession
	}
	return &a, nil
}
