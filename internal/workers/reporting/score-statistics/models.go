// internal/workers/reporting/score-statistics/models.go
package scorestatistics

import "matchscore-engine/internal/scoring"

type Input struct {
	WorkerID string   `json:"workerId,omitempty"`
	JobID    string   `json:"jobId,omitempty"`
	From     string   `json:"from,omitempty"`
	To       string   `json:"to,omitempty"`
	MinScore *float64 `json:"minScore,omitempty"`
	MaxScore *float64 `json:"maxScore,omitempty"`
	Period   string   `json:"period,omitempty"`
}

type Output struct {
	Statistics *scoring.Statistics `json:"statistics"`
	Period     string              `json:"period"`
}
