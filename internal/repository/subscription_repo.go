package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krzotki/eleven-labs-demo/internal/model"
)

// SubscriptionRepository reads the entitlement sources of a user.
type SubscriptionRepository interface {
	// GetUserIDByExternalID maps a chat-platform id to the dashboard user id.
	// It returns "" when the user never registered.
	GetUserIDByExternalID(ctx context.Context, externalID string) (string, error)
	// GetActiveSubscription returns nil when the user has no active recurring subscription.
	GetActiveSubscription(ctx context.Context, userID string) (*model.ExternalSubscription, error)
	// ListPurchases returns every one-time purchase of the user, highest priority first.
	ListPurchases(ctx context.Context, userID string) ([]model.Purchase, error)
}

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) GetUserIDByExternalID(ctx context.Context, externalID string) (string, error) {
	const q = `SELECT id FROM users WHERE discord_id = $1 LIMIT 1`
	var id string
	err := r.pool.QueryRow(ctx, q, externalID).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch user for external id %s: %w", externalID, err)
	}
	return id, nil
}

// GetActiveSubscription reads the tier from the SUB_TYPE metadata key set by the payment provider.
func (r *subscriptionRepo) GetActiveSubscription(ctx context.Context, userID string) (*model.ExternalSubscription, error) {
	const q = `
        SELECT user_id, metadata->>'SUB_TYPE', status, current_period_start, current_period_end
        FROM subscriptions
        WHERE user_id = $1
          AND status = 'active'
          AND metadata ? 'SUB_TYPE'
        ORDER BY current_period_end DESC
        LIMIT 1
    `
	var sub model.ExternalSubscription
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&sub.UserID,
		&sub.Type,
		&sub.Status,
		&sub.PeriodStart,
		&sub.PeriodEnd,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch active subscription for user %s: %w", userID, err)
	}
	return &sub, nil
}

func (r *subscriptionRepo) ListPurchases(ctx context.Context, userID string) ([]model.Purchase, error) {
	const q = `
        SELECT id, user_id, sub_type, COALESCE((metadata->>'SORT')::int, 0), COALESCE(sub_duration, 'NONE'), created_at
        FROM bought_products
        WHERE user_id = $1
        ORDER BY COALESCE((metadata->>'SORT')::int, 0) DESC, created_at ASC
    `
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("listing purchases for user %s: %w", userID, err)
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.Type, &p.Priority, &p.Duration, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning purchase for user %s: %w", userID, err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchases for user %s: %w", userID, err)
	}
	return purchases, nil
}
