package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krzotki/eleven-labs-demo/internal/model"
)

// UsageRepository stores usage ledger records. Records are inserted and
// updated, never deleted.
type UsageRepository interface {
	// ListUsageCreatedBetween returns the user's records created in [start, end), oldest first.
	ListUsageCreatedBetween(ctx context.Context, userID string, start, end time.Time) ([]model.UsageRecord, error)
	// ListUsageActiveAt returns the user's records whose cycle contains at, oldest first.
	ListUsageActiveAt(ctx context.Context, userID string, at time.Time) ([]model.UsageRecord, error)
	CreateUsageRecord(ctx context.Context, rec *model.UsageRecord) error
	// UpdateUsageCounters overwrites both counters of a record.
	UpdateUsageCounters(ctx context.Context, id string, u model.Usage) error
}

type usageRepo struct {
	pool *pgxpool.Pool
}

// NewUsageRepo creates a new UsageRepository.
func NewUsageRepo(pool *pgxpool.Pool) UsageRepository {
	return &usageRepo{pool: pool}
}

const usageColumns = `id, discord_id, cycle_start, cycle_end, usage, voice_usage_characters, created_at`

func (r *usageRepo) ListUsageCreatedBetween(ctx context.Context, userID string, start, end time.Time) ([]model.UsageRecord, error) {
	const q = `
		SELECT ` + usageColumns + `
		FROM discord_usage
		WHERE discord_id = $1
		  AND created_at >= $2
		  AND created_at < $3
		ORDER BY created_at ASC
	`
	recs, err := r.list(ctx, q, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing usage records created in window for user %s: %w", userID, err)
	}
	return recs, nil
}

func (r *usageRepo) ListUsageActiveAt(ctx context.Context, userID string, at time.Time) ([]model.UsageRecord, error) {
	const q = `
		SELECT ` + usageColumns + `
		FROM discord_usage
		WHERE discord_id = $1
		  AND cycle_start <= $2
		  AND cycle_end > $2
		ORDER BY created_at ASC
	`
	recs, err := r.list(ctx, q, userID, at)
	if err != nil {
		return nil, fmt.Errorf("listing active usage records for user %s: %w", userID, err)
	}
	return recs, nil
}

func (r *usageRepo) list(ctx context.Context, q string, args ...any) ([]model.UsageRecord, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.UsageRecord])
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *usageRepo) CreateUsageRecord(ctx context.Context, rec *model.UsageRecord) error {
	const q = `
		INSERT INTO discord_usage (id, discord_id, cycle_start, cycle_end, usage, voice_usage_characters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, q, rec.ID, rec.UserID, rec.CycleStart, rec.CycleEnd, rec.TextCount, rec.VoiceChars, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting usage record %s for user %s: %w", rec.ID, rec.UserID, err)
	}
	return nil
}

func (r *usageRepo) UpdateUsageCounters(ctx context.Context, id string, u model.Usage) error {
	const q = `UPDATE discord_usage SET usage = $2, voice_usage_characters = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, u.Text, u.Voice)
	if err != nil {
		return fmt.Errorf("updating usage record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating usage record %s: %w", id, ErrNotFound)
	}
	return nil
}
