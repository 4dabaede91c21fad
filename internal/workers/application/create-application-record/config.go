// internal/workers/application/create-application-record/config.go
package createapplicationrecord

import (
	"time"

	"hiring-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// CodeAttempts bounds how often a colliding applicant code is redrawn.
	CodeAttempts int
}

func LoadConfig(wc config.WorkerConfig) *Config {
	timeout := config.GetDuration(wc.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		Timeout:      timeout,
		CodeAttempts: 5,
	}
}
