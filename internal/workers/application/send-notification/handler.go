// internal/workers/application/send-notification/handler.go
package sendnotification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	awsclients "hiring-workers/internal/common/aws"
	"hiring-workers/internal/common/camunda"
	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/common/metrics"
	"hiring-workers/internal/models"
	"hiring-workers/internal/store"
	"hiring-workers/internal/workers/shared"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

var templates = map[string]models.NotificationTemplate{
	TypeApplicationSubmitted: {
		Subject: "Application {{applicantCode}} received",
		Body:    "Hello {{applicantName}}, your application for {{positionTitle}} was received under code {{applicantCode}}.",
	},
	TypeInitialEvaluationCompleted: {
		Subject: "Initial evaluation of application {{applicantCode}}",
		Body:    "Hello {{applicantName}}, the initial evaluation of your application for {{positionTitle}} is complete. Status: {{status}}.",
	},
	TypeAssessmentCompleted: {
		Subject: "Assessment of application {{applicantCode}}",
		Body:    "Hello {{applicantName}}, your comparative assessment for {{positionTitle}} has been recorded. Status: {{status}}.",
	},
	TypeDeliberationCompleted: {
		Subject: "Final deliberation of application {{applicantCode}}",
		Body:    "Hello {{applicantName}}, the final deliberation for {{positionTitle}} is done. Recommended for appointment: {{forAppointment}}.",
	},
}

type Handler struct {
	config    *Config
	store     *store.Store
	sesClient SESService
	snsClient SNSService
	runner    *camunda.Runner
	logger    logger.Logger
	now       func() time.Time
}

// NewHandler builds SES and SNS clients from the default AWS credential chain.
func NewHandler(config *Config, db *sql.DB, log logger.Logger, opts ...camunda.RunnerOption) (*Handler, error) {
	clients, err := awsclients.NewClients(context.Background(), config.AWSRegion)
	if err != nil {
		return nil, err
	}
	return newHandler(config, db, clients.SES, clients.SNS, log, opts...), nil
}

func newHandler(config *Config, db *sql.DB, sesClient SESService, snsClient SNSService, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     store.New(db),
		sesClient: sesClient,
		snsClient: snsClient,
		runner:    camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger:    log,
		now:       time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.execute(ctx, &input)
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	template, exists := templates[input.NotificationType]
	if !exists {
		return nil, apperrors.NewInputValidationError(fmt.Sprintf("unknown notification type %q", input.NotificationType))
	}

	detail, err := h.store.GetApplicationDetail(ctx, input.ApplicationID)
	if err != nil {
		return nil, shared.StoreError("Application", "load notification recipient", err)
	}

	data := map[string]interface{}{
		"applicantName":  detail.Applicant.Name,
		"applicantCode":  detail.ApplicantCode,
		"positionTitle":  detail.Position.Title,
		"status":         detail.Status,
		"forAppointment": "",
	}
	if detail.FinalDeliberation != nil {
		data["forAppointment"] = detail.FinalDeliberation.ForAppointment
	}

	subject := renderTemplate(template.Subject, data)
	body := renderTemplate(template.Body, data)

	out := &Output{
		NotificationID: uuid.New().String(),
		SentAt:         h.now().UTC().Format(time.RFC3339),
	}

	if h.config.EmailEnabled && detail.Applicant.Email != "" {
		err := h.sendEmail(ctx, detail.Applicant.Email, subject, body)
		out.Deliveries = append(out.Deliveries, h.delivery(input, out, ChannelEmail, detail.Applicant.Email, err))
	}

	// Text messages only go out for the final decision.
	if h.config.SMSEnabled && detail.Applicant.Contact != "" && input.NotificationType == TypeDeliberationCompleted {
		err := h.sendSMS(ctx, detail.Applicant.Contact, body)
		out.Deliveries = append(out.Deliveries, h.delivery(input, out, ChannelSMS, detail.Applicant.Contact, err))
	}

	sent, failed := 0, 0
	var lastFailure models.Notification
	for _, d := range out.Deliveries {
		if d.Status == StatusSent {
			sent++
		} else {
			failed++
			lastFailure = d
		}
	}

	switch {
	case len(out.Deliveries) == 0:
		out.Status = StatusDisabled
		metrics.NotificationsSent.WithLabelValues("none", StatusDisabled).Inc()
	case failed == 0:
		out.Status = StatusSent
	case sent == 0:
		// Nothing reached the applicant, so the job is safe to retry.
		return nil, apperrors.NewNotificationSendFailedError(lastFailure.Channel, errors.New(lastFailure.Error))
	default:
		out.Status = StatusFailed
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"applicationId":    input.ApplicationID,
		"notificationType": input.NotificationType,
		"notificationId":   out.NotificationID,
		"status":           out.Status,
	})
	return out, nil
}

func (h *Handler) delivery(input *Input, out *Output, channel, recipient string, err error) models.Notification {
	n := models.Notification{
		ID:            out.NotificationID,
		ApplicationID: input.ApplicationID,
		Type:          input.NotificationType,
		Channel:       channel,
		Recipient:     recipient,
		Status:        StatusSent,
		SentAt:        out.SentAt,
	}
	if err != nil {
		h.logger.Error(channel+" send failed", map[string]interface{}{
			"error":         err,
			"applicationId": input.ApplicationID,
		})
		n.Status = StatusFailed
		n.Error = err.Error()
	}
	metrics.NotificationsSent.WithLabelValues(channel, n.Status).Inc()
	return n
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	in := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if h.config.SenderID != "" {
		in.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(h.config.SenderID)},
		}
	}
	_, err := h.snsClient.Publish(ctx, in)
	return err
}

// renderTemplate substitutes {{key}} placeholders and drops any left unresolved.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
