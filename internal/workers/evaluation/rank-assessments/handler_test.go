// internal/workers/evaluation/rank-assessments/handler_test.go
package rankassessments

import (
	"context"
	"errors"
	"testing"
	"time"

	"hiring-workers/internal/common/auth"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/store/storetest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessions = auth.StaticResolver{
	"admin-token":     {UserID: "admin-1", Role: auth.RoleAdmin},
	"applicant-token": {UserID: "user-7", Role: auth.RoleApplicant},
}

func TestHandler_Execute_RanksWithTies(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM assessment_scores s`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "applicant_code", "name", "status", "school", "actual_score"}).
			AddRow(int64(5), "APP-000001-1", "Ana Cruz", "finalized", "Central Elementary School", "81.5").
			AddRow(int64(6), "APP-000002-2", "Ben Reyes", "under_assessment", "National High School", "68").
			AddRow(int64(7), "APP-000003-3", "Cora Lim", "under_assessment", "National High School", "68.00").
			AddRow(int64(8), "APP-000004-4", "Dan Sy", "under_assessment", "Central Elementary School", "40.25"))

	handler := NewHandler(&Config{Timeout: time.Second}, db, storetest.Default(), sessions, logger.NewNoOpLogger())
	output, err := handler.Execute(context.Background(), &Input{SessionToken: "admin-token", PositionID: 1})

	require.NoError(t, err)
	assert.Equal(t, "Teacher I", output.PositionTitle)
	assert.Equal(t, 4, output.Total)

	var ranks []int
	for _, r := range output.Rankings {
		ranks = append(ranks, r.Rank)
	}
	assert.Equal(t, []int{1, 2, 2, 4}, ranks)
	assert.Equal(t, "81.50", output.Rankings[0].ActualScore)
	assert.Equal(t, "68.00", output.Rankings[1].ActualScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_EmptyPosition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM assessment_scores s`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "applicant_code", "name", "status", "school", "actual_score"}))

	handler := NewHandler(&Config{Timeout: time.Second}, db, storetest.Default(), sessions, logger.NewNoOpLogger())
	output, err := handler.Execute(context.Background(), &Input{SessionToken: "admin-token", PositionID: 3})

	require.NoError(t, err)
	assert.NotNil(t, output.Rankings)
	assert.Empty(t, output.Rankings)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		setup func(sqlmock.Sqlmock)
		code  apperrors.ErrorCode
	}{
		{
			name:  "applicant cannot rank",
			input: Input{SessionToken: "applicant-token", PositionID: 1},
			setup: func(sqlmock.Sqlmock) {},
			code:  apperrors.ErrCodeForbidden,
		},
		{
			name:  "unknown position",
			input: Input{SessionToken: "admin-token", PositionID: 42},
			setup: func(sqlmock.Sqlmock) {},
			code:  apperrors.ErrCodeResourceNotFound,
		},
		{
			name:  "query failure",
			input: Input{SessionToken: "admin-token", PositionID: 1},
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`FROM assessment_scores s`).WillReturnError(errors.New("timeout"))
			},
			code: apperrors.ErrCodeDatabaseQueryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			handler := NewHandler(&Config{Timeout: time.Second}, db, storetest.Default(), sessions, logger.NewNoOpLogger())
			_, err = handler.Execute(context.Background(), &tt.input)

			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
