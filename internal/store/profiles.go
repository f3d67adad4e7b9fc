// internal/store/profiles.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"matchscore-engine/internal/common/logger"
	"matchscore-engine/internal/models"
)

// ProfileStore reads worker and job profiles owned by the management
// subsystems, with a redis read-through cache in front of postgres. The
// redis client may be nil, in which case every read hits the database.
type ProfileStore struct {
	db     *sql.DB
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ ProfileReader = (*ProfileStore)(nil)

func NewProfileStore(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *ProfileStore {
	return &ProfileStore{
		db:     db,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "profile-store"}),
	}
}

func (p *ProfileStore) WorkerProfile(ctx context.Context, id string) (*models.WorkerProfile, error) {
	cacheKey := "worker:profile:" + id
	var cached models.WorkerProfile
	if p.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	row := p.db.QueryRowContext(ctx, `
		SELECT id, skills, experience_years, preferred_locations,
			remote_preferred, availability, education, industry
		FROM workers WHERE id = $1`, id)

	var profile models.WorkerProfile
	var skills, locations, education []byte
	var availability string
	err := row.Scan(&profile.ID, &skills, &profile.ExperienceYears, &locations,
		&profile.RemotePreferred, &availability, &education, &profile.Industry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: worker %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query worker profile: %w", err)
	}

	profile.Availability = models.Availability(availability)
	if err := json.Unmarshal(skills, &profile.Skills); err != nil {
		profile.Skills = []models.Skill{}
	}
	if err := json.Unmarshal(locations, &profile.PreferredLocations); err != nil {
		profile.PreferredLocations = []string{}
	}
	if err := json.Unmarshal(education, &profile.Education); err != nil {
		profile.Education = []models.Education{}
	}

	p.cacheSet(ctx, cacheKey, &profile)
	return &profile, nil
}

func (p *ProfileStore) JobProfile(ctx context.Context, id string) (*models.JobProfile, error) {
	cacheKey := "job:profile:" + id
	var cached models.JobProfile
	if p.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	row := p.db.QueryRowContext(ctx, `
		SELECT id, title, description, requirements, required_skills,
			preferred_skills, experience_level, location, remote,
			industry, category, job_type
		FROM jobs WHERE id = $1`, id)

	var job models.JobProfile
	var required, preferred []byte
	var level string
	err := row.Scan(&job.ID, &job.Title, &job.Description, &job.Requirements,
		&required, &preferred, &level, &job.Location, &job.Remote,
		&job.Industry, &job.Category, &job.JobType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query job profile: %w", err)
	}

	job.ExperienceLevel = models.ExperienceLevel(level)
	if err := json.Unmarshal(required, &job.RequiredSkills); err != nil {
		job.RequiredSkills = []string{}
	}
	if err := json.Unmarshal(preferred, &job.PreferredSkills); err != nil {
		job.PreferredSkills = []string{}
	}

	p.cacheSet(ctx, cacheKey, &job)
	return &job, nil
}

func (p *ProfileStore) JobProfiles(ctx context.Context, ids []string) ([]models.JobProfile, error) {
	jobs := make([]models.JobProfile, 0, len(ids))
	for _, id := range ids {
		job, err := p.JobProfile(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// A job deleted after scoring is expected; skip it.
			continue
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

func (p *ProfileStore) UnscoredJobs(ctx context.Context, workerID string, limit int) ([]models.JobProfile, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT id FROM jobs j
		WHERE NOT EXISTS (
			SELECT 1 FROM match_scores ms
			WHERE ms.job_id = j.id AND ms.worker_id = $1 AND ms.active
		)
		ORDER BY j.created_at DESC
		LIMIT $2`, workerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query unscored jobs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan job id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return p.JobProfiles(ctx, ids)
}

// cacheGet returns true when key was present and decoded cleanly.
func (p *ProfileStore) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if p.redis == nil {
		return false
	}
	val, err := p.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (p *ProfileStore) cacheSet(ctx context.Context, key string, v interface{}) {
	if p.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := p.redis.Set(ctx, key, data, p.ttl).Err(); err != nil {
		p.logger.Warn("profile cache write failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
}
