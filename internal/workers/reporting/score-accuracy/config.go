// internal/workers/reporting/score-accuracy/config.go
package scoreaccuracy

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
