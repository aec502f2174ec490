package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/pubsub"
	"github.com/krzotki/eleven-labs-demo/internal/repository"
	"github.com/rs/zerolog"
)

// AuditService writes the generated-content audit log.
type AuditService interface {
	Record(ctx context.Context, m *model.GeneratedMessage) error
}

type auditService struct {
	repo      repository.MessageRepository
	publisher pubsub.Publisher
	topic     string
	logger    zerolog.Logger
}

// NewAuditService stores messages in repo and, when publisher is not nil,
// also publishes them to topic.
func NewAuditService(repo repository.MessageRepository, publisher pubsub.Publisher, topic string, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("service", "AuditService").Logger(),
	}
}

// Record attempts both sinks and returns their joined errors.
func (s *auditService) Record(ctx context.Context, m *model.GeneratedMessage) error {
	var errs []error
	if err := s.repo.InsertGeneratedMessage(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("user_id", m.UserID).Msg("Failed to store generated message")
		errs = append(errs, fmt.Errorf("%w: %w", ErrPersistence, err))
	}

	if s.publisher != nil && s.topic != "" {
		data, err := json.Marshal(m)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal audit event: %w", err))
		} else if _, err := s.publisher.Publish(ctx, s.topic, data); err != nil {
			s.logger.Error().Err(err).Str("topic", s.topic).Msg("Failed to publish audit event")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
