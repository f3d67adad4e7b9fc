// internal/workers/reporting/score-accuracy/models.go
package scoreaccuracy

import "matchscore-engine/internal/scoring"

type Input struct {
	WorkerID string `json:"workerId,omitempty"`
	JobID    string `json:"jobId,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

type Output struct {
	Report *scoring.AccuracyReport `json:"report"`
}
