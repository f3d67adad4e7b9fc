// internal/workers/scoring/batch-score/config.go
package batchscore

import "time"

type Config struct {
	Timeout  time.Duration
	MaxPairs int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  5 * time.Minute,
		MaxPairs: 10000,
	}
}
