// internal/scoring/engine.go
package scoring

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"

	stderrors "matchscore-engine/internal/common/errors"
	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/common/metrics"
	"matchscore-engine/internal/models"
	"matchscore-engine/internal/store"
)

// EngineConfig carries the engine-level tunables.
type EngineConfig struct {
	// BatchConcurrency bounds the batch fan-out; 0 means cores*2.
	BatchConcurrency int
	// HighScoreThreshold marks the historical records the estimator learns
	// from. Shared with the "good" bucket boundary by default.
	HighScoreThreshold float64
	// RecommendationCandidates caps how many unscored jobs are estimated
	// per recommendation request before ranking.
	RecommendationCandidates int
}

// Engine is the single unified scoring engine: it scores pairs, persists
// records idempotently, and serves estimates for unscored pairs. Each call is
// stateless; the only shared-state concern, the one-active-record-per-pair
// invariant, lives in the store.
type Engine struct {
	scorer    *WeightedScorer
	store     store.ScoreStore
	profiles  store.ProfileReader
	estimator *Estimator
	cfg       EngineConfig
	logger    logger.Logger

	mu         sync.Mutex
	onRecorded []func(*models.ScoreRecord)
}

func NewEngine(
	scorer *WeightedScorer,
	st store.ScoreStore,
	profiles store.ProfileReader,
	estimator *Estimator,
	cfg EngineConfig,
	log logger.Logger,
) *Engine {
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = runtime.NumCPU() * 2
	}
	if cfg.HighScoreThreshold <= 0 {
		cfg.HighScoreThreshold = 75
	}
	if cfg.RecommendationCandidates <= 0 {
		cfg.RecommendationCandidates = 100
	}
	return &Engine{
		scorer:    scorer,
		store:     st,
		profiles:  profiles,
		estimator: estimator,
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "score-engine"}),
	}
}

// OnScoreRecorded registers a callback fired after a new record is persisted.
// The application-management side uses it to refresh its cached matchScore;
// the engine itself never writes application records.
func (e *Engine) OnScoreRecorded(fn func(*models.ScoreRecord)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRecorded = append(e.onRecorded, fn)
}

// ScoreOptions controls a single-pair scoring call.
type ScoreOptions struct {
	ForceRecalculate bool
}

// Score computes and persists the match score for one pair. Without
// ForceRecalculate the call is idempotent: an existing active record is
// returned as-is, no recompute.
func (e *Engine) Score(ctx context.Context, workerID, jobID string, opts ScoreOptions) (*models.ScoreRecord, error) {
	if !opts.ForceRecalculate {
		existing, err := e.store.FindByPair(ctx, workerID, jobID)
		if err == nil {
			metrics.ScoresCalculated.WithLabelValues("cached").Inc()
			return existing, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, stderrors.NewQueryExecutionFailedError("find score", err)
		}
	}

	worker, err := e.profiles.WorkerProfile(ctx, workerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, stderrors.NewWorkerNotFoundError(workerID)
		}
		return nil, stderrors.NewQueryExecutionFailedError("load worker", err)
	}

	job, err := e.profiles.JobProfile(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, stderrors.NewJobNotFoundError(jobID)
		}
		return nil, stderrors.NewQueryExecutionFailedError("load job", err)
	}

	rec := e.scorer.Score(worker, job)
	rec.ID = uuid.New().String()
	rec.Active = true

	if opts.ForceRecalculate {
		if err := e.store.Replace(ctx, rec); err != nil {
			metrics.ScoresCalculated.WithLabelValues("failed").Inc()
			return nil, stderrors.NewDatabaseInsertFailedError(err)
		}
		metrics.ScoresCalculated.WithLabelValues("forced").Inc()
	} else {
		err := e.store.Create(ctx, rec)
		if errors.Is(err, store.ErrConflict) {
			// A concurrent writer won the insert race; their record is the
			// answer.
			existing, findErr := e.store.FindByPair(ctx, workerID, jobID)
			if findErr != nil {
				return nil, stderrors.NewQueryExecutionFailedError("find score after conflict", findErr)
			}
			metrics.ScoresCalculated.WithLabelValues("cached").Inc()
			return existing, nil
		}
		if err != nil {
			metrics.ScoresCalculated.WithLabelValues("failed").Inc()
			return nil, stderrors.NewDatabaseInsertFailedError(err)
		}
		metrics.ScoresCalculated.WithLabelValues("calculated").Inc()
	}

	e.logger.Info("match score calculated", map[string]interface{}{
		"workerId":       workerID,
		"jobId":          jobID,
		"overallScore":   rec.OverallScore,
		"recommendation": rec.Recommendation,
		"forced":         opts.ForceRecalculate,
	})

	e.notify(rec)
	return rec, nil
}

func (e *Engine) notify(rec *models.ScoreRecord) {
	e.mu.Lock()
	callbacks := e.onRecorded
	e.mu.Unlock()
	for _, fn := range callbacks {
		fn(rec)
	}
}

// Pair identifies one worker/job combination in a batch request.
type Pair struct {
	WorkerID string `json:"workerId"`
	JobID    string `json:"jobId"`
}

// PairResult reports one pair's outcome. Failures are captured here, never
// propagated: a batch of 10,000 with two bad pairs still yields 9,998 records.
type PairResult struct {
	WorkerID  string              `json:"workerId"`
	JobID     string              `json:"jobId"`
	Success   bool                `json:"success"`
	Record    *models.ScoreRecord `json:"record,omitempty"`
	Error     string              `json:"error,omitempty"`
	ErrorCode string              `json:"errorCode,omitempty"`
}

// BatchScore scores pairs concurrently over a bounded worker pool. Result
// order matches input order.
func (e *Engine) BatchScore(ctx context.Context, pairs []Pair, force bool) []PairResult {
	results := make([]PairResult, len(pairs))
	if len(pairs) == 0 {
		return results
	}

	workers := e.cfg.BatchConcurrency
	if workers > len(pairs) {
		workers = len(pairs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				pair := pairs[idx]
				rec, err := e.Score(ctx, pair.WorkerID, pair.JobID, ScoreOptions{ForceRecalculate: force})
				if err != nil {
					metrics.BatchPairs.WithLabelValues("failure").Inc()
					results[idx] = PairResult{
						WorkerID:  pair.WorkerID,
						JobID:     pair.JobID,
						Success:   false,
						Error:     err.Error(),
						ErrorCode: string(stderrors.CodeOf(err)),
					}
					continue
				}
				metrics.BatchPairs.WithLabelValues("success").Inc()
				results[idx] = PairResult{
					WorkerID: pair.WorkerID,
					JobID:    pair.JobID,
					Success:  true,
					Record:   rec,
				}
			}
		}()
	}

	for idx := range pairs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}

// Recommendations estimates scores for jobs the worker has not been scored
// against, ranked by estimate. Estimates are never persisted: the estimator
// is explicitly weaker than the full scorer and must not overwrite a
// calculated record.
func (e *Engine) Recommendations(ctx context.Context, workerID string, limit int) ([]EstimatedJob, error) {
	if limit <= 0 {
		limit = 10
	}

	worker, err := e.profiles.WorkerProfile(ctx, workerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, stderrors.NewWorkerNotFoundError(workerID)
		}
		return nil, stderrors.NewQueryExecutionFailedError("load worker", err)
	}

	history, err := e.store.FindByWorker(ctx, workerID, store.ListOptions{Limit: 200})
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("load score history", err)
	}

	var highScoreJobIDs []string
	for _, rec := range history {
		if rec.OverallScore >= e.cfg.HighScoreThreshold {
			highScoreJobIDs = append(highScoreJobIDs, rec.JobID)
		}
	}
	highScoreJobs, err := e.profiles.JobProfiles(ctx, highScoreJobIDs)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("load high score jobs", err)
	}

	candidates, err := e.profiles.UnscoredJobs(ctx, workerID, e.cfg.RecommendationCandidates)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("load candidate jobs", err)
	}

	estimates := e.estimator.Estimate(worker, candidates, highScoreJobs)
	sort.SliceStable(estimates, func(i, j int) bool {
		return estimates[i].EstimatedScore > estimates[j].EstimatedScore
	})
	if len(estimates) > limit {
		estimates = estimates[:limit]
	}

	e.logger.Info("recommendations produced", map[string]interface{}{
		"workerId":   workerID,
		"candidates": len(candidates),
		"returned":   len(estimates),
	})
	return estimates, nil
}

// Exists reports whether an active record is stored for the pair.
func (e *Engine) Exists(ctx context.Context, workerID, jobID string) (bool, error) {
	_, err := e.store.FindByPair(ctx, workerID, jobID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find score: %w", err)
	}
	return true, nil
}
