package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krzotki/eleven-labs-demo/internal/model"
)

// MessageRepository is the append-only generated-content audit log.
type MessageRepository interface {
	InsertGeneratedMessage(ctx context.Context, m *model.GeneratedMessage) error
}

type messageRepo struct {
	pool *pgxpool.Pool
}

// NewMessageRepo creates a new MessageRepository.
func NewMessageRepo(pool *pgxpool.Pool) MessageRepository {
	return &messageRepo{pool: pool}
}

func (r *messageRepo) InsertGeneratedMessage(ctx context.Context, m *model.GeneratedMessage) error {
	vars, err := json.Marshal(m.Variables)
	if err != nil {
		return fmt.Errorf("marshal variables for message %s: %w", m.ID, err)
	}
	const q = `
		INSERT INTO generated_messages (id, discord_id, language, message, sub_type, variables, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.pool.Exec(ctx, q, m.ID, m.UserID, m.Language, m.Message, m.Type, vars, m.CreatedAt); err != nil {
		return fmt.Errorf("inserting generated message for user %s: %w", m.UserID, err)
	}
	return nil
}
