// internal/workers/scoring/batch-score/handler.go
package batchscore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	stderrors "matchscore-engine/internal/common/errors"
	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/common/metrics"
	"matchscore-engine/internal/scoring"
)

const (
	TaskType = "batch-score"
)

// inputSchema is validated before the batch fans out so a malformed payload
// fails fast instead of after thousands of pairs.
const inputSchema = `{
	"type": "object",
	"required": ["pairs"],
	"properties": {
		"pairs": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["workerId", "jobId"],
				"properties": {
					"workerId": {"type": "string", "minLength": 1},
					"jobId": {"type": "string", "minLength": 1}
				}
			}
		},
		"forceRecalculate": {"type": "boolean"}
	}
}`

type batchScorer interface {
	BatchScore(ctx context.Context, pairs []scoring.Pair, force bool) []scoring.PairResult
}

type Handler struct {
	config *Config
	engine batchScorer
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewHandler(config *Config, engine batchScorer, log logger.Logger) *Handler {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(inputSchema))
	if err != nil {
		panic(fmt.Sprintf("batch-score input schema: %v", err))
	}
	return &Handler{
		config: config,
		engine: engine,
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	if err := h.validatePayload(job.Variables); err != nil {
		h.failJob(client, job, string(stderrors.ErrCodeBatchInputInvalid), err.Error())
		return
	}

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
	if len(input.Pairs) > h.config.MaxPairs {
		return nil, stderrors.NewBatchInputInvalidError(
			fmt.Sprintf("batch of %d pairs exceeds limit of %d", len(input.Pairs), h.config.MaxPairs))
	}

	results := h.engine.BatchScore(ctx, input.Pairs, input.ForceRecalculate)

	output := &Output{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Success {
			output.Succeeded++
		} else {
			output.Failed++
		}
	}

	h.logger.Info("batch scored", map[string]interface{}{
		"total":     output.Total,
		"succeeded": output.Succeeded,
		"failed":    output.Failed,
	})
	return output, nil
}

func (h *Handler) validatePayload(variables string) error {
	result, err := h.schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return stderrors.NewBatchInputInvalidError(err.Error())
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return stderrors.NewBatchInputInvalidError(strings.Join(errs, "; "))
	}
	return nil
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

func (h *Handler) ValidatePayload(variables string) error {
	return h.validatePayload(variables)
}
