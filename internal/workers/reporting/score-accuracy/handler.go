// internal/workers/reporting/score-accuracy/handler.go
package scoreaccuracy

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
	"matchscore-engine/internal/scoring"
	"matchscore-engine/internal/store"
)

const (
	TaskType = "score-accuracy"
)

type accuracyEvaluator interface {
	Evaluate(ctx context.Context, f store.Filter) (*scoring.AccuracyReport, error)
}

type Handler struct {
	config    *Config
	evaluator accuracyEvaluator
	logger    logger.Logger
}

func NewHandler(config *Config, evaluator accuracyEvaluator, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		evaluator: evaluator,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
	f := store.Filter{
		WorkerID: input.WorkerID,
		JobID:    input.JobID,
	}

	if input.From != "" {
		from, err := time.Parse(time.RFC3339, input.From)
		if err != nil {
			return nil, stderrors.NewFilterInvalidError(fmt.Sprintf("from: %v", err))
		}
		f.From = from
	}
	if input.To != "" {
		to, err := time.Parse(time.RFC3339, input.To)
		if err != nil {
			return nil, stderrors.NewFilterInvalidError(fmt.Sprintf("to: %v", err))
		}
		f.To = to
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	report, err := h.evaluator.Evaluate(ctx, f)
	if err != nil {
		return nil, err
	}

	return &Output{Report: report}, nil
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
