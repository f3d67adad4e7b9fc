// internal/workers/scoring/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	stderrors "matchscore-engine/internal/common/errors"
	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/common/metrics"
	"matchscore-engine/internal/models"
	"matchscore-engine/internal/scoring"
)

const (
	TaskType = "calculate-match-score"
)

// scoreEngine is the slice of the scoring engine this worker needs.
type scoreEngine interface {
	Score(ctx context.Context, workerID, jobID string, opts scoring.ScoreOptions) (*models.ScoreRecord, error)
}

type Handler struct {
	config *Config
	engine scoreEngine
	logger logger.Logger
}

func NewHandler(config *Config, engine scoreEngine, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, string(stderrors.CodeOf(err)), err.Error())
		return
	}

	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.WorkerID == "" || input.JobID == "" {
		return nil, stderrors.NewBatchInputInvalidError("workerId and jobId are required")
	}

	rec, err := h.engine.Score(ctx, input.WorkerID, input.JobID, scoring.ScoreOptions{
		ForceRecalculate: input.ForceRecalculate,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		ScoreID:        rec.ID,
		WorkerID:       rec.WorkerID,
		JobID:          rec.JobID,
		OverallScore:   rec.OverallScore,
		Components:     rec.Components,
		Strengths:      rec.Strengths,
		Weaknesses:     rec.Weaknesses,
		Recommendation: rec.Recommendation,
		Version:        rec.Version,
		CalculatedAt:   rec.CalculatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
