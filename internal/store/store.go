// internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	stderrors "matchscore-engine/internal/common/errors"
	"matchscore-engine/internal/models"
)

var (
	// ErrConflict signals an existing active score record for the pair.
	ErrConflict = errors.New("score record already exists for pair")
	// ErrNotFound signals a missing record or profile.
	ErrNotFound = errors.New("record not found")
)

// ListOptions controls pagination for per-worker and per-job lookups.
// Results are ordered by calculated_at descending.
type ListOptions struct {
	Limit  int
	Offset int
}

// Filter restricts aggregate reads by worker, job, date range and score range.
type Filter struct {
	WorkerID string
	JobID    string
	From     time.Time
	To       time.Time
	MinScore *float64
	MaxScore *float64
	Limit    int
}

// Validate rejects malformed filters before they reach the store.
func (f Filter) Validate() error {
	if f.MinScore != nil && (*f.MinScore < 0 || *f.MinScore > 100) {
		return stderrors.NewFilterInvalidError(fmt.Sprintf("minScore %v out of [0,100]", *f.MinScore))
	}
	if f.MaxScore != nil && (*f.MaxScore < 0 || *f.MaxScore > 100) {
		return stderrors.NewFilterInvalidError(fmt.Sprintf("maxScore %v out of [0,100]", *f.MaxScore))
	}
	if f.MinScore != nil && f.MaxScore != nil && *f.MinScore > *f.MaxScore {
		return stderrors.NewFilterInvalidError("minScore greater than maxScore")
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return stderrors.NewFilterInvalidError("from is after to")
	}
	if f.Limit < 0 {
		return stderrors.NewFilterInvalidError("limit must not be negative")
	}
	return nil
}

// BulkResult reports the outcome for one record of a bulk insert.
type BulkResult struct {
	Index    int
	WorkerID string
	JobID    string
	Err      error
}

// ScoreStore is the persistence abstraction for score records. The
// at-most-one-active-record-per-pair invariant is enforced by the storage
// layer (unique index), not by an application-level existence check.
type ScoreStore interface {
	// Create inserts a new active record; ErrConflict when an active record
	// already exists for the pair.
	Create(ctx context.Context, rec *models.ScoreRecord) error
	// Replace deactivates the pair's current record and inserts rec in one
	// transaction, keeping history queryable.
	Replace(ctx context.Context, rec *models.ScoreRecord) error
	// FindByPair returns the pair's active record, or ErrNotFound.
	FindByPair(ctx context.Context, workerID, jobID string) (*models.ScoreRecord, error)
	FindByWorker(ctx context.Context, workerID string, opts ListOptions) ([]models.ScoreRecord, error)
	FindByJob(ctx context.Context, jobID string, opts ListOptions) ([]models.ScoreRecord, error)
	// History returns every record ever written for the pair, newest first.
	History(ctx context.Context, workerID, jobID string) ([]models.ScoreRecord, error)
	// BulkCreate is best effort: one failed record never poisons the batch.
	BulkCreate(ctx context.Context, recs []*models.ScoreRecord) []BulkResult
	// List returns active records matching the filter, oldest first.
	List(ctx context.Context, f Filter) ([]models.ScoreRecord, error)
}

// ProfileReader supplies the read models owned by the worker- and
// job-management subsystems. The engine never writes through it.
type ProfileReader interface {
	WorkerProfile(ctx context.Context, id string) (*models.WorkerProfile, error)
	JobProfile(ctx context.Context, id string) (*models.JobProfile, error)
	JobProfiles(ctx context.Context, ids []string) ([]models.JobProfile, error)
	// UnscoredJobs lists jobs with no active score record for the worker.
	UnscoredJobs(ctx context.Context, workerID string, limit int) ([]models.JobProfile, error)
}

// OutcomeReader supplies hiring ground truth for the accuracy evaluator.
type OutcomeReader interface {
	Outcomes(ctx context.Context, f Filter) ([]models.ApplicationOutcome, error)
}
