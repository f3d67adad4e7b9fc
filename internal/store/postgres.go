// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/models"
)

const (
	uniqueViolation = "23505"

	defaultPageSize = 50

	scoreColumns = `id, worker_id, job_id, skills_score, experience_score, location_score,
		availability_score, education_score, cultural_score, overall_score,
		strengths, weaknesses, recommendation, version, active, calculated_at`
)

// PostgresStore persists score records in the match_scores table and reads
// hiring outcomes from application_outcomes. A partial unique index on
// (worker_id, job_id) WHERE active closes the check-then-insert race.
type PostgresStore struct {
	db     *sql.DB
	sb     sq.StatementBuilderType
	logger logger.Logger
}

var (
	_ ScoreStore    = (*PostgresStore)(nil)
	_ OutcomeReader = (*PostgresStore)(nil)
)

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: log.WithFields(map[string]interface{}{"component": "score-store"}),
	}
}

func (s *PostgresStore) Create(ctx context.Context, rec *models.ScoreRecord) error {
	return s.insert(ctx, s.db, rec)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *PostgresStore) insert(ctx context.Context, db execer, rec *models.ScoreRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO match_scores (
			id, worker_id, job_id,
			skills_score, experience_score, location_score,
			availability_score, education_score, cultural_score,
			overall_score, strengths, weaknesses,
			recommendation, version, active, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		rec.ID, rec.WorkerID, rec.JobID,
		rec.Components.Skills, rec.Components.Experience, rec.Components.Location,
		rec.Components.Availability, rec.Components.Education, rec.Components.Cultural,
		rec.OverallScore, pq.StringArray(rec.Strengths), pq.StringArray(rec.Weaknesses),
		string(rec.Recommendation), rec.Version, rec.Active, rec.CalculatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("%w: worker %s job %s", ErrConflict, rec.WorkerID, rec.JobID)
		}
		return fmt.Errorf("insert score record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Replace(ctx context.Context, rec *models.ScoreRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE match_scores SET active = false
		WHERE worker_id = $1 AND job_id = $2 AND active`,
		rec.WorkerID, rec.JobID,
	); err != nil {
		return fmt.Errorf("deactivate previous record: %w", err)
	}

	if err := s.insert(ctx, tx, rec); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) FindByPair(ctx context.Context, workerID, jobID string) (*models.ScoreRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+scoreColumns+`
		FROM match_scores
		WHERE worker_id = $1 AND job_id = $2 AND active`,
		workerID, jobID,
	)

	rec, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: worker %s job %s", ErrNotFound, workerID, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("find by pair: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) FindByWorker(ctx context.Context, workerID string, opts ListOptions) ([]models.ScoreRecord, error) {
	return s.findBy(ctx, sq.Eq{"worker_id": workerID}, opts)
}

func (s *PostgresStore) FindByJob(ctx context.Context, jobID string, opts ListOptions) ([]models.ScoreRecord, error) {
	return s.findBy(ctx, sq.Eq{"job_id": jobID}, opts)
}

func (s *PostgresStore) findBy(ctx context.Context, cond sq.Eq, opts ListOptions) ([]models.ScoreRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	query := s.sb.Select(scoreColumns).
		From("match_scores").
		Where(cond).
		Where(sq.Eq{"active": true}).
		OrderBy("calculated_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(opts.Offset))

	return s.queryScores(ctx, query)
}

func (s *PostgresStore) History(ctx context.Context, workerID, jobID string) ([]models.ScoreRecord, error) {
	query := s.sb.Select(scoreColumns).
		From("match_scores").
		Where(sq.Eq{"worker_id": workerID, "job_id": jobID}).
		OrderBy("calculated_at DESC")

	return s.queryScores(ctx, query)
}

func (s *PostgresStore) BulkCreate(ctx context.Context, recs []*models.ScoreRecord) []BulkResult {
	results := make([]BulkResult, 0, len(recs))
	for i, rec := range recs {
		err := s.Create(ctx, rec)
		if err != nil {
			s.logger.Warn("bulk create: record failed", map[string]interface{}{
				"workerId": rec.WorkerID,
				"jobId":    rec.JobID,
				"error":    err,
			})
		}
		results = append(results, BulkResult{
			Index:    i,
			WorkerID: rec.WorkerID,
			JobID:    rec.JobID,
			Err:      err,
		})
	}
	return results
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]models.ScoreRecord, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	query := s.sb.Select(scoreColumns).
		From("match_scores").
		Where(sq.Eq{"active": true}).
		OrderBy("calculated_at ASC")

	if f.WorkerID != "" {
		query = query.Where(sq.Eq{"worker_id": f.WorkerID})
	}
	if f.JobID != "" {
		query = query.Where(sq.Eq{"job_id": f.JobID})
	}
	if !f.From.IsZero() {
		query = query.Where(sq.GtOrEq{"calculated_at": f.From})
	}
	if !f.To.IsZero() {
		query = query.Where(sq.LtOrEq{"calculated_at": f.To})
	}
	if f.MinScore != nil {
		query = query.Where(sq.GtOrEq{"overall_score": *f.MinScore})
	}
	if f.MaxScore != nil {
		query = query.Where(sq.LtOrEq{"overall_score": *f.MaxScore})
	}
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}

	return s.queryScores(ctx, query)
}

func (s *PostgresStore) Outcomes(ctx context.Context, f Filter) ([]models.ApplicationOutcome, error) {
	query := s.sb.Select("worker_id, job_id, final_status").
		From("application_outcomes")

	if f.WorkerID != "" {
		query = query.Where(sq.Eq{"worker_id": f.WorkerID})
	}
	if f.JobID != "" {
		query = query.Where(sq.Eq{"job_id": f.JobID})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outcomes query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.ApplicationOutcome
	for rows.Next() {
		var o models.ApplicationOutcome
		var status string
		if err := rows.Scan(&o.WorkerID, &o.JobID, &status); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.FinalStatus = models.OutcomeStatus(status)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

func (s *PostgresStore) queryScores(ctx context.Context, query sq.SelectBuilder) ([]models.ScoreRecord, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build score query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var records []models.ScoreRecord
	for rows.Next() {
		rec, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScore(row rowScanner) (*models.ScoreRecord, error) {
	var rec models.ScoreRecord
	var strengths, weaknesses pq.StringArray
	var recommendation string

	err := row.Scan(
		&rec.ID, &rec.WorkerID, &rec.JobID,
		&rec.Components.Skills, &rec.Components.Experience, &rec.Components.Location,
		&rec.Components.Availability, &rec.Components.Education, &rec.Components.Cultural,
		&rec.OverallScore, &strengths, &weaknesses,
		&recommendation, &rec.Version, &rec.Active, &rec.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Strengths = strengths
	rec.Weaknesses = weaknesses
	rec.Recommendation = models.Recommendation(recommendation)
	return &rec, nil
}
