// internal/models/notification.go
package models

// Notification is one delivery attempt to an applicant on a single channel.
type Notification struct {
	ID            string `json:"id"`
	ApplicationID int64  `json:"applicationId"`
	Type          string `json:"type"`    // "application_submitted", "deliberation_completed", ...
	Channel       string `json:"channel"` // "email", "sms"
	Recipient     string `json:"recipient"`
	Status        string `json:"status"` // "sent", "failed"
	Error         string `json:"error,omitempty"`
	SentAt        string `json:"sentAt"`
}

type NotificationTemplate struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
