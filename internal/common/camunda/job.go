package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/common/metrics"
	"hiring-workers/internal/common/observability"
	"hiring-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const brokerSendTimeout = 10 * time.Second

// Runner holds what every handler does at the job boundary: schema validation,
// decoding, the per-job deadline, tracing and reporting the outcome to the broker.
type Runner struct {
	taskType  string
	timeout   time.Duration
	validator *validation.Validator
	obs       *observability.Observability
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

type RunnerOption func(*Runner)

func WithValidator(v *validation.Validator) RunnerOption {
	return func(r *Runner) { r.validator = v }
}

func WithObservability(o *observability.Observability) RunnerOption {
	return func(r *Runner) { r.obs = o }
}

func NewRunner(taskType string, timeout time.Duration, log logger.Logger, opts ...RunnerOption) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	r := &Runner{
		taskType: taskType,
		timeout:  timeout,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Decode validates the raw variables against the registered schema and then
// unmarshals them into dst.
func (r *Runner) Decode(job entities.Job, dst interface{}) error {
	if err := r.validator.Validate(r.taskType, job.Variables); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(job.Variables), dst); err != nil {
		return apperrors.NewInputValidationError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// Run decodes the job into input, calls exec under the job deadline and completes
// or fails the job.
func (r *Runner) Run(client worker.JobClient, job entities.Job, input interface{}, exec func(ctx context.Context) (interface{}, error)) {
	started := time.Now()
	timer := metrics.StartJob(r.taskType)
	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	ctx, span := r.obs.StartSpan(ctx, r.taskType, attribute.Int64("jobKey", job.Key))
	output, err := r.execute(ctx, job, input, exec)
	observability.EndSpan(span, err)

	status := "completed"
	if err != nil {
		status = "failed"
		timer.Done(string(apperrors.AsStandardError(err).Code))
		r.Fail(client, job, err)
	} else {
		timer.Done("")
		r.Complete(client, job, output)
	}
	r.report(ctx, status, time.Since(started))
}

func (r *Runner) report(ctx context.Context, status string, elapsed time.Duration) {
	r.obs.RecordJobProcessed(ctx, r.taskType, status)
	r.obs.RecordJobDuration(ctx, r.taskType, elapsed, status)
}

func (r *Runner) execute(ctx context.Context, job entities.Job, input interface{}, exec func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if err := r.Decode(job, input); err != nil {
		return nil, err
	}
	return exec(ctx)
}

func (r *Runner) Complete(client worker.JobClient, job entities.Job, output interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), brokerSendTimeout)
	defer cancel()

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		r.Fail(client, job, apperrors.NewInternalError(err))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"error":  err,
			"jobKey": job.Key,
		})
		return
	}
	r.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (r *Runner) Fail(client worker.JobClient, job entities.Job, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), brokerSendTimeout)
	defer cancel()
	r.errors.HandleJobError(ctx, client, job, err)
}
