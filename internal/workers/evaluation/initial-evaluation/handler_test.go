// internal/workers/evaluation/initial-evaluation/handler_test.go
package initialevaluation

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"hiring-workers/internal/common/auth"
	"hiring-workers/internal/common/config"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/workers/shared"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var applicationColumns = []string{"id", "applicant_id", "position_id", "applicant_code", "status", "created_at", "updated_at"}

var positionColumns = []string{"id", "title", "salary_grade", "monthly_salary", "school_year", "level",
	"standard_education", "standard_training", "standard_experience"}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestInput() *Input {
	return &Input{
		SessionToken:        "admin-token",
		ApplicationID:       5,
		ApplicantEducation:  6,
		ApplicantTraining:   1,
		ApplicantExperience: 2,
		Eligibility:         "LET",
	}
}

func sessions() auth.StaticResolver {
	return auth.StaticResolver{
		"admin-token":     {UserID: "admin-1", Role: auth.RoleAdmin},
		"applicant-token": {UserID: "user-7", Role: auth.RoleApplicant},
	}
}

type recordingIndexer struct {
	synced []int64
}

func (r *recordingIndexer) Sync(_ context.Context, id int64) error {
	r.synced = append(r.synced, id)
	return nil
}

func newHandler(t *testing.T, db *sql.DB, index shared.Indexer) *Handler {
	t.Helper()
	return NewHandler(createTestConfig(), db, sessions(), index, logger.NewTestLogger(t))
}

func expectLockedApplication(mock sqlmock.Sqlmock, status string) {
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM applications WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow(int64(5), int64(2), int64(1), "APP-123456-7", status, now, now))
}

func expectNoInitialEvaluation(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM initial_evaluations WHERE application_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func expectPosition(mock sqlmock.Sqlmock, education, training, experience int) {
	mock.ExpectQuery(`FROM positions WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(positionColumns).
			AddRow(int64(1), "Teacher I", 11, "27000.00", "2025-2026", "Elementary", education, training, experience))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_QualifiedAtStandard(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectLockedApplication(mock, "submitted")
	expectNoInitialEvaluation(mock)
	expectPosition(mock, 6, 1, 2)
	mock.ExpectQuery(`INSERT INTO initial_evaluations`).
		WithArgs(int64(5), int64(1), "LET", "qualified", "",
			6, 1, 2, 6, 1, 2, 0, 0, 0, "admin-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(`UPDATE applications SET status`).
		WithArgs(int64(5), "qualified", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("initial_evaluation_recorded", "application", "5", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	index := &recordingIndexer{}
	output, err := newHandler(t, db, index).Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, int64(11), output.InitialEvaluationID)
	assert.Equal(t, "qualified", output.Remarks)
	assert.Equal(t, 0, output.IncrementEducation)
	assert.Equal(t, 0, output.IncrementTraining)
	assert.Equal(t, 0, output.IncrementExperience)
	assert.Equal(t, "qualified", output.ApplicationStatus)
	assert.Equal(t, []int64{5}, index.synced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_EducationDeficitOverridesRemarks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectLockedApplication(mock, "submitted")
	expectNoInitialEvaluation(mock)
	expectPosition(mock, 6, 1, 2)
	mock.ExpectQuery(`INSERT INTO initial_evaluations`).
		WithArgs(int64(5), int64(1), "LET", "disqualified", "",
			6, 1, 2, 5, 1, 2, -1, 0, 0, "admin-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectExec(`UPDATE applications SET status`).
		WithArgs(int64(5), "disqualified", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	input := createTestInput()
	input.ApplicantEducation = 5
	input.Remarks = "qualified"

	output, err := newHandler(t, db, nil).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "disqualified", output.Remarks)
	assert.Equal(t, -1, output.IncrementEducation)
	assert.Equal(t, "disqualified", output.ApplicationStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ManualDisqualification(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectLockedApplication(mock, "submitted")
	expectNoInitialEvaluation(mock)
	expectPosition(mock, 6, 1, 2)
	mock.ExpectQuery(`INSERT INTO initial_evaluations`).
		WithArgs(int64(5), int64(1), "LET", "disqualified", "incomplete documents",
			6, 1, 2, 10, 4, 6, 4, 3, 4, "admin-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(13)))
	mock.ExpectExec(`UPDATE applications SET status`).
		WithArgs(int64(5), "disqualified", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	input := createTestInput()
	input.ApplicantEducation, input.ApplicantTraining, input.ApplicantExperience = 10, 4, 6
	input.Remarks = " Disqualified "
	input.Feedback = "incomplete documents"

	output, err := newHandler(t, db, nil).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "disqualified", output.Remarks)
	assert.Equal(t, 4, output.IncrementEducation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Precondition Tests
// ==========================

func TestHandler_Execute_ExistingEvaluationRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectLockedApplication(mock, "qualified")
	mock.ExpectQuery(`FROM initial_evaluations WHERE application_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "application_id", "position_id", "eligibility", "remarks", "feedback",
			"standard_education", "standard_training", "standard_experience",
			"applicant_education", "applicant_training", "applicant_experience",
			"increment_education", "increment_training", "increment_experience", "evaluated_by", "created_at",
		}).AddRow(int64(11), int64(5), int64(1), "LET", "qualified", "", 6, 1, 2, 6, 1, 2, 0, 0, 0, "admin-1", time.Now()))
	mock.ExpectRollback()

	_, err = newHandler(t, db, nil).Execute(context.Background(), createTestInput())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDuplicateStageResult))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ConcurrentInsertRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectLockedApplication(mock, "submitted")
	expectNoInitialEvaluation(mock)
	expectPosition(mock, 6, 1, 2)
	mock.ExpectQuery(`INSERT INTO initial_evaluations`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "initial_evaluations_application_key"})
	mock.ExpectRollback()

	_, err = newHandler(t, db, nil).Execute(context.Background(), createTestInput())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDuplicateStageResult))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_IllegalTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectLockedApplication(mock, "finalized")
	expectNoInitialEvaluation(mock)
	expectPosition(mock, 6, 1, 2)
	mock.ExpectRollback()

	_, err = newHandler(t, db, nil).Execute(context.Background(), createTestInput())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStagePreconditionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_StandardsReadInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The position was raised to 8/2/4 after it was first cached elsewhere.
	expectLockedApplication(mock, "submitted")
	expectNoInitialEvaluation(mock)
	expectPosition(mock, 8, 2, 4)
	mock.ExpectQuery(`INSERT INTO initial_evaluations`).
		WithArgs(int64(5), int64(1), "LET", "disqualified", "",
			8, 2, 4, 6, 1, 2, -2, -1, -2, "admin-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(14)))
	mock.ExpectExec(`UPDATE applications SET status`).
		WithArgs(int64(5), "disqualified", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := newHandler(t, db, nil).Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, -2, output.IncrementEducation)
	assert.Equal(t, -1, output.IncrementTraining)
	assert.Equal(t, -2, output.IncrementExperience)
	assert.Equal(t, "disqualified", output.Remarks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_PositionNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectLockedApplication(mock, "submitted")
	expectNoInitialEvaluation(mock)
	mock.ExpectQuery(`FROM positions WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(positionColumns))
	mock.ExpectRollback()

	_, err = newHandler(t, db, nil).Execute(context.Background(), createTestInput())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeResourceNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ApplicationNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows(applicationColumns))
	mock.ExpectRollback()

	_, err = newHandler(t, db, nil).Execute(context.Background(), createTestInput())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeResourceNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DatabaseFailureIsRetryable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err = newHandler(t, db, nil).Execute(context.Background(), createTestInput())

	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeDatabaseQueryFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

// ==========================
// Authorization & Validation Tests
// ==========================

func TestHandler_Execute_RejectedBeforeTouchingStorage(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		code   apperrors.ErrorCode
	}{
		{"missing session", func(in *Input) { in.SessionToken = "" }, apperrors.ErrCodeUnauthorized},
		{"unknown session", func(in *Input) { in.SessionToken = "stale" }, apperrors.ErrCodeUnauthorized},
		{"applicant role", func(in *Input) { in.SessionToken = "applicant-token" }, apperrors.ErrCodeForbidden},
		{"blank eligibility", func(in *Input) { in.Eligibility = "  " }, apperrors.ErrCodeInputValidationFailed},
		{"level above scale", func(in *Input) { in.ApplicantTraining = 32 }, apperrors.ErrCodeInputValidationFailed},
		{"unknown remark", func(in *Input) { in.Remarks = "maybe" }, apperrors.ErrCodeInputValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			input := createTestInput()
			tt.modify(input)

			_, err = newHandler(t, db, nil).Execute(context.Background(), input)

			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLoadConfig_DefaultTimeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, LoadConfig(config.WorkerConfig{Enabled: true}).Timeout)
	assert.Equal(t, 2500*time.Millisecond, LoadConfig(config.WorkerConfig{Enabled: true, Timeout: 2500}).Timeout)
}
