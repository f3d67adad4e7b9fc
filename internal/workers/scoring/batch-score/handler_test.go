// internal/workers/scoring/batch-score/handler_test.go
package batchscore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	stderrors "matchscore-engine/internal/common/errors"
	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/scoring"
)

type fakeBatchScorer struct {
	results   []scoring.PairResult
	lastForce bool
	lastPairs []scoring.Pair
}

func (f *fakeBatchScorer) BatchScore(_ context.Context, pairs []scoring.Pair, force bool) []scoring.PairResult {
	f.lastPairs = pairs
	f.lastForce = force
	if f.results != nil {
		return f.results
	}
	out := make([]scoring.PairResult, len(pairs))
	for i, p := range pairs {
		out[i] = scoring.PairResult{WorkerID: p.WorkerID, JobID: p.JobID, Success: true}
	}
	return out
}

func TestHandler_Execute(t *testing.T) {
	engine := &fakeBatchScorer{}
	handler := NewHandler(LoadConfig(), engine, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Pairs: []scoring.Pair{
			{WorkerID: "w1", JobID: "j1"},
			{WorkerID: "w2", JobID: "j2"},
		},
		ForceRecalculate: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, output.Total)
	assert.Equal(t, 2, output.Succeeded)
	assert.Equal(t, 0, output.Failed)
	assert.True(t, engine.lastForce)
	assert.Len(t, engine.lastPairs, 2)
}

func TestHandler_Execute_PartialFailure(t *testing.T) {
	engine := &fakeBatchScorer{
		results: []scoring.PairResult{
			{WorkerID: "w1", JobID: "j1", Success: true},
			{WorkerID: "w2", JobID: "missing", Success: false, ErrorCode: "JOB_NOT_FOUND"},
			{WorkerID: "w3", JobID: "j3", Success: true},
		},
	}
	handler := NewHandler(LoadConfig(), engine, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Pairs: []scoring.Pair{
			{WorkerID: "w1", JobID: "j1"},
			{WorkerID: "w2", JobID: "missing"},
			{WorkerID: "w3", JobID: "j3"},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, output.Total)
	assert.Equal(t, 2, output.Succeeded)
	assert.Equal(t, 1, output.Failed)
	assert.False(t, output.Results[1].Success)
	assert.Equal(t, "JOB_NOT_FOUND", output.Results[1].ErrorCode)
}

func TestHandler_Execute_TooManyPairs(t *testing.T) {
	cfg := &Config{MaxPairs: 2}
	handler := NewHandler(cfg, &fakeBatchScorer{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Pairs: []scoring.Pair{
			{WorkerID: "w1", JobID: "j1"},
			{WorkerID: "w2", JobID: "j2"},
			{WorkerID: "w3", JobID: "j3"},
		},
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeBatchInputInvalid))
}

func TestHandler_ValidatePayload(t *testing.T) {
	handler := NewHandler(LoadConfig(), &fakeBatchScorer{}, logger.NewTestLogger(t))

	tests := []struct {
		name    string
		payload string
		valid   bool
	}{
		{
			"valid payload",
			`{"pairs": [{"workerId": "w1", "jobId": "j1"}]}`,
			true,
		},
		{
			"valid with force flag",
			`{"pairs": [{"workerId": "w1", "jobId": "j1"}], "forceRecalculate": true}`,
			true,
		},
		{"empty pairs", `{"pairs": []}`, false},
		{"missing pairs", `{}`, false},
		{"pair missing jobId", `{"pairs": [{"workerId": "w1"}]}`, false},
		{"empty workerId", `{"pairs": [{"workerId": "", "jobId": "j1"}]}`, false},
		{"pairs not an array", `{"pairs": "w1"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handler.ValidatePayload(tt.payload)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeBatchInputInvalid))
			}
		})
	}
}
