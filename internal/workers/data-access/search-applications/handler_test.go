// internal/workers/data-access/search-applications/handler_test.go
package searchapplications

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"hiring-workers/internal/common/auth"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/search"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var sessions = auth.StaticResolver{
	"admin-token":     {UserID: "admin-1", Role: auth.RoleAdmin},
	"applicant-token": {UserID: "user-7", Role: auth.RoleApplicant},
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type captured struct {
	query string
	body  string
}

// newHandler points a real index at a fake cluster that answers every search with body.
func newHandler(t *testing.T, status int, body string) (*Handler, *captured) {
	seen := &captured{}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen.query = r.URL.RawQuery
			if r.Body != nil {
				b, _ := io.ReadAll(r.Body)
				seen.body = string(b)
			}
			h := http.Header{}
			h.Set("Content-Type", "application/json")
			h.Set("X-Elastic-Product", "Elasticsearch")
			return &http.Response{StatusCode: status, Header: h, Body: io.NopCloser(strings.NewReader(body))}, nil
		}),
	})
	require.NoError(t, err)

	index := search.NewIndex(es, "applications", nil)
	return NewHandler(&Config{Timeout: time.Second}, index, sessions, logger.NewTestLogger(t)), seen
}

const twoHits = `{
	"took": 4,
	"hits": {
		"total": {"value": 27, "relation": "eq"},
		"hits": [
			{"_id": "3", "_source": {"applicationId": 3, "applicantName": "Ana Cruz", "applicantCode": "APP-654321-12", "status": "qualified"}},
			{"_id": "9", "_source": {"applicationId": 9, "applicantName": "Ana Reyes", "applicantCode": "APP-112233-4", "status": "qualified"}}
		]
	}
}`

// ==========================
// Tests
// ==========================

func TestHandler_Execute_Search(t *testing.T) {
	h, seen := newHandler(t, http.StatusOK, twoHits)

	output, err := h.Execute(context.Background(), &Input{
		SessionToken: "admin-token",
		Query:        "ana",
		Status:       "qualified",
		From:         10,
		Size:         10,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(27), output.Total)
	require.Len(t, output.Hits, 2)
	assert.Equal(t, "APP-654321-12", output.Hits[0].ApplicantCode)
	assert.Equal(t, 10, output.From)
	assert.Equal(t, 10, output.Size)

	assert.Contains(t, seen.query, "from=10")
	assert.Contains(t, seen.query, "size=10")
	assert.Contains(t, seen.body, `"multi_match"`)
	assert.Contains(t, seen.body, `"status":"qualified"`)
}

func TestHandler_Execute_DefaultPaging(t *testing.T) {
	h, seen := newHandler(t, http.StatusOK, `{"hits":{"total":{"value":0},"hits":[]}}`)

	output, err := h.Execute(context.Background(), &Input{SessionToken: "admin-token", Size: 1000})

	require.NoError(t, err)
	assert.Empty(t, output.Hits)
	assert.Equal(t, 0, output.From)
	assert.Equal(t, maxPageSize, output.Size)
	assert.Contains(t, seen.query, "from=0")
	assert.Contains(t, seen.body, `"match_all"`)
}

func TestHandler_Execute_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		input  *Input
		code   apperrors.ErrorCode
	}{
		{"no session", http.StatusOK, &Input{}, apperrors.ErrCodeUnauthorized},
		{"applicant", http.StatusOK, &Input{SessionToken: "applicant-token"}, apperrors.ErrCodeForbidden},
		{"bad status", http.StatusOK, &Input{SessionToken: "admin-token", Status: "hired"}, apperrors.ErrCodeInputValidationFailed},
		{"cluster error", http.StatusInternalServerError, &Input{SessionToken: "admin-token"}, apperrors.ErrCodeSearchQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandler(t, tt.status, `{"error":{"type":"search_phase_execution_exception"}}`)
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}
