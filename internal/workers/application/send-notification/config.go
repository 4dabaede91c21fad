// internal/workers/application/send-notification/config.go
package sendnotification

import (
	"time"

	"hiring-workers/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SenderID     string
	AWSRegion    string
	Timeout      time.Duration
}

func LoadConfig(wc config.WorkerConfig, nc config.NotificationConfig) *Config {
	timeout := config.GetDuration(wc.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		EmailEnabled: nc.Email.Enabled,
		SMSEnabled:   nc.SMS.Enabled,
		FromEmail:    nc.Email.FromEmail,
		SenderID:     nc.SMS.SenderID,
		AWSRegion:    nc.AWS.Region,
		Timeout:      timeout,
	}
}
