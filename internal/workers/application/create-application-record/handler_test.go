// internal/workers/application/create-application-record/handler_test.go
package createapplicationrecord

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"hiring-workers/internal/common/auth"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/store/storetest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var applicantColumns = []string{
	"id", "user_id", "name", "address", "age", "sex", "civil_status", "religion", "disability",
	"ethnic_group", "email", "contact", "education", "training", "experience", "eligibility", "pds_url",
	"letter_url", "created_at", "updated_at",
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, CodeAttempts: 3}
}

func createTestInput() *Input {
	return &Input{SessionToken: "applicant-token", PositionID: 1}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func sequence(codes ...string) CodeGenerator {
	i := 0
	return func() string {
		c := codes[i%len(codes)]
		i++
		return c
	}
}

func newHandler(t *testing.T, db *sql.DB, codes ...string) *Handler {
	sessions := auth.StaticResolver{
		"applicant-token": {UserID: "user-7", Role: auth.RoleApplicant},
		"admin-token":     {UserID: "admin-1", Role: auth.RoleAdmin},
	}
	h := NewHandler(createTestConfig(), db, storetest.Default(), sessions, nil, newTestLogger(t))
	if len(codes) > 0 {
		h.WithCodeGenerator(sequence(codes...))
	}
	return h
}

func expectProfile(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery(`FROM applicants WHERE user_id = \$1`).
		WithArgs("user-7").
		WillReturnRows(sqlmock.NewRows(applicantColumns).AddRow(
			int64(2), "user-7", "Ana Cruz", "", 27, "", "", "", "", "", "", "", "", 40, 18, "LET", "", "", now, now))
}

func expectNotApplied(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	expectProfile(mock)
	expectNotApplied(mock)
	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(int64(2), int64(1), "APP-123456-7", "submitted", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), created, created))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("application_created", "application", "5", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := newHandler(t, db, "APP-123456-7").Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, int64(5), output.ApplicationID)
	assert.Equal(t, "APP-123456-7", output.ApplicantCode)
	assert.Equal(t, "submitted", output.ApplicationStatus)
	assert.Equal(t, "2026-01-05T08:00:00Z", output.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_RedrawsCollidingCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	expectProfile(mock)
	expectNotApplied(mock)
	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(int64(2), int64(1), "APP-000001-1", "submitted", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "applications_applicant_code_key"})
	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(int64(2), int64(1), "APP-000001-2", "submitted", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(6), now, now))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := newHandler(t, db, "APP-000001-1", "APP-000001-2").Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, "APP-000001-2", output.ApplicantCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_GivesUpAfterAttempts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectProfile(mock)
	expectNotApplied(mock)
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(`INSERT INTO applications`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "applications_applicant_code_key"})
	}

	_, err = newHandler(t, db, "APP-000001-1").Execute(context.Background(), createTestInput())

	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Precondition Tests
// ==========================

func TestHandler_Execute_DuplicateApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectProfile(mock)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err = newHandler(t, db).Execute(context.Background(), createTestInput())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDuplicateApplication))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ConcurrentDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectProfile(mock)
	expectNotApplied(mock)
	mock.ExpectQuery(`INSERT INTO applications`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "applications_applicant_position_key"})

	_, err = newHandler(t, db, "APP-000001-1").Execute(context.Background(), createTestInput())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDuplicateApplication))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ProfileRequired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM applicants WHERE user_id = \$1`).WillReturnRows(sqlmock.NewRows(applicantColumns))

	_, err = newHandler(t, db).Execute(context.Background(), createTestInput())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStagePreconditionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UnknownPosition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectProfile(mock)

	input := createTestInput()
	input.PositionID = 77
	_, err = newHandler(t, db).Execute(context.Background(), input)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeResourceNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AdminCannotApply(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	input := createTestInput()
	input.SessionToken = "admin-token"
	_, err = newHandler(t, db).Execute(context.Background(), input)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeForbidden))
}

// ==========================
// Applicant Code Tests
// ==========================

func TestNewApplicantCode(t *testing.T) {
	at := time.UnixMilli(1_700_000_012_345)
	assert.Equal(t, "APP-012345-42", NewApplicantCode(at, 42))
	assert.Equal(t, "APP-012345-7", NewApplicantCode(at, 1007))

	assert.Regexp(t, regexp.MustCompile(`^APP-\d{6}-\d{1,3}$`), randomCode())
}
