// internal/workers/scoring/score-recommendations/models.go
package scorerecommendations

import "matchscore-engine/internal/scoring"

type Input struct {
	WorkerID string `json:"workerId"`
	Limit    int    `json:"limit,omitempty"`
}

type Output struct {
	WorkerID        string                 `json:"workerId"`
	Recommendations []scoring.EstimatedJob `json:"recommendations"`
}
