// internal/workers/application/send-notification/models.go
package sendnotification

import "hiring-workers/internal/models"

type Input struct {
	ApplicationID    int64  `json:"applicationId"`
	NotificationType string `json:"notificationType"`
}

type Output struct {
	NotificationID string                `json:"notificationId"`
	Status         string                `json:"status"` // "sent", "failed", "disabled"
	SentAt         string                `json:"sentAt"` // ISO 8601
	Deliveries     []models.Notification `json:"deliveries"`
}

// Notification types
const (
	TypeApplicationSubmitted       = "application_submitted"
	TypeInitialEvaluationCompleted = "initial_evaluation_completed"
	TypeAssessmentCompleted        = "assessment_completed"
	TypeDeliberationCompleted      = "deliberation_completed"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
