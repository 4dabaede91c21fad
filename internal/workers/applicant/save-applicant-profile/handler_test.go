// internal/workers/applicant/save-applicant-profile/handler_test.go
package saveapplicantprofile

import (
	"context"
	"errors"
	"testing"
	"time"

	"hiring-workers/internal/common/auth"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// setupSessions backs the handler with a real session store on miniredis.
func setupSessions(t *testing.T) *auth.SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	sessions := auth.NewSessionStore(rdb, "session:", time.Hour)
	require.NoError(t, sessions.Put(context.Background(), "applicant-token", auth.Actor{UserID: "user-7", Role: auth.RoleApplicant}))
	require.NoError(t, sessions.Put(context.Background(), "admin-token", auth.Actor{UserID: "admin-1", Role: auth.RoleAdmin}))
	return sessions
}

func createTestInput() *Input {
	return &Input{
		SessionToken: "applicant-token",
		Profile: Profile{
			Name:        " Ana Cruz ",
			Email:       "ana@example.com",
			Education:   "BSEd English",
			Training:    40,
			Experience:  18,
			Eligibility: "LET",
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_CreatesProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO applicants`).
		WithArgs("user-7", "Ana Cruz", "", 0, "", "", "", "", "", "ana@example.com", "",
			"BSEd English", 40, 18, "LET", "", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(2), now, now))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("applicant_profile_created", "applicant", "2", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(&Config{Timeout: time.Second}, db, setupSessions(t), logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, int64(2), output.ApplicantID)
	assert.True(t, output.Created)
	assert.Equal(t, "user-7", output.Profile.UserID)
	assert.Equal(t, "Ana Cruz", output.Profile.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UpdatesExistingProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Now().Add(-48 * time.Hour).UTC()
	mock.ExpectQuery(`ON CONFLICT \(user_id\) DO UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(2), created, time.Now().UTC()))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("applicant_profile_updated", "applicant", "2", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(&Config{Timeout: time.Second}, db, setupSessions(t), logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.False(t, output.Created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		setup  func(sqlmock.Sqlmock)
		code   apperrors.ErrorCode
	}{
		{
			name:   "admin cannot own a profile",
			modify: func(in *Input) { in.SessionToken = "admin-token" },
			setup:  func(sqlmock.Sqlmock) {},
			code:   apperrors.ErrCodeForbidden,
		},
		{
			name:   "expired session",
			modify: func(in *Input) { in.SessionToken = "gone" },
			setup:  func(sqlmock.Sqlmock) {},
			code:   apperrors.ErrCodeUnauthorized,
		},
		{
			name:   "blank name",
			modify: func(in *Input) { in.Profile.Name = "   " },
			setup:  func(sqlmock.Sqlmock) {},
			code:   apperrors.ErrCodeInputValidationFailed,
		},
		{
			name:   "negative training",
			modify: func(in *Input) { in.Profile.Training = -1 },
			setup:  func(sqlmock.Sqlmock) {},
			code:   apperrors.ErrCodeInputValidationFailed,
		},
		{
			name:   "write fails",
			modify: func(*Input) {},
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`INSERT INTO applicants`).WillReturnError(errors.New("connection reset"))
			},
			code: apperrors.ErrCodeDatabaseInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			input := createTestInput()
			tt.modify(input)

			handler := NewHandler(&Config{Timeout: time.Second}, db, setupSessions(t), logger.NewTestLogger(t))
			_, err = handler.Execute(context.Background(), input)

			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
