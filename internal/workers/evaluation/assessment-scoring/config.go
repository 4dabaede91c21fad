// internal/workers/evaluation/assessment-scoring/config.go
package assessmentscoring

import (
	"time"

	"hiring-workers/internal/common/config"
	"hiring-workers/internal/pipeline"
)

type Config struct {
	Timeout time.Duration
	Weights pipeline.Weights
}

func LoadConfig(wc config.WorkerConfig) *Config {
	timeout := config.GetDuration(wc.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		Timeout: timeout,
		Weights: pipeline.DefaultWeights,
	}
}
