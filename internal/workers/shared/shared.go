// Package shared holds the pieces every hiring worker repeats at the job
// boundary: mapping store errors onto the error taxonomy and the best-effort
// work that follows a committed write.
package shared

import (
	"context"
	"errors"
	"strings"

	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/store"
)

// Indexer refreshes the search document of one application.
type Indexer interface {
	Sync(ctx context.Context, applicationID int64) error
}

// Auditor is the part of the store that writes audit_log.
type Auditor interface {
	Audit(ctx context.Context, eventType, resourceType string, resourceID int64, details map[string]interface{}) error
}

// StoreError maps a read failure. Not-found becomes RESOURCE_NOT_FOUND, errors
// that already carry a code pass through, anything else is a retryable query failure.
func StoreError(resource, operation string, err error) error {
	if err == nil {
		return nil
	}
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewResourceNotFoundError(resource, strings.TrimPrefix(err.Error(), store.ErrNotFound.Error()+": "))
	}
	return apperrors.NewDatabaseQueryFailedError(operation, err)
}

// StageInsertError maps the insert of a stage result; a unique violation means
// another administrator recorded the same stage first.
func StageInsertError(stage string, parentID int64, err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return apperrors.NewDuplicateStageResultError(stage, parentID)
	}
	return apperrors.NewDatabaseInsertFailedError(err)
}

// TxError passes coded errors returned from inside a transaction through and
// reports begin/commit failures as retryable.
func TxError(err error) error {
	if err == nil {
		return nil
	}
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return apperrors.NewDatabaseQueryFailedError("transaction", err)
}

// Committed describes a write that has just been committed.
type Committed struct {
	EventType     string
	ResourceType  string
	ResourceID    int64
	ApplicationID int64
	Details       map[string]interface{}
}

// AfterCommit writes the audit entry and refreshes the search index. Both are
// best-effort: failures are logged and never surface to the job.
func AfterCommit(ctx context.Context, log logger.Logger, audit Auditor, index Indexer, c Committed) {
	if audit != nil {
		if err := audit.Audit(ctx, c.EventType, c.ResourceType, c.ResourceID, c.Details); err != nil {
			log.Warn("audit log insert failed", map[string]interface{}{
				"error":        err,
				"eventType":    c.EventType,
				"resourceId":   c.ResourceID,
				"resourceType": c.ResourceType,
			})
		}
	}
	if index != nil && c.ApplicationID > 0 {
		if err := index.Sync(ctx, c.ApplicationID); err != nil {
			log.Warn("search index refresh failed", map[string]interface{}{
				"error":         err,
				"applicationId": c.ApplicationID,
			})
		}
	}
}
