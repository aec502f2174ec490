package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/rs/zerolog"
)

const limitsEndpoint = "/api/limits"

// LimitsService serves the per-tier quota table published by the dashboard.
type LimitsService interface {
	// Refresh reloads the table. On failure the previous table is kept.
	Refresh(ctx context.Context) error
	// For returns the limits of tier, or model.DefaultLimits when the table does not list it.
	For(tier model.SubscriptionType) model.Limits
}

type limitsService struct {
	client  *http.Client
	baseURL string
	logger  zerolog.Logger

	mu    sync.RWMutex
	table map[model.SubscriptionType]model.Limits
}

// NewLimitsService creates a LimitsService reading from the dashboard at
// dashboardURL. An empty URL serves the defaults only.
func NewLimitsService(dashboardURL string, logger zerolog.Logger) LimitsService {
	return &limitsService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(dashboardURL, "/"),
		logger:  logger.With().Str("service", "LimitsService").Logger(),
		table:   map[model.SubscriptionType]model.Limits{},
	}
}

// NewStaticLimitsService serves a fixed table.
func NewStaticLimitsService(table map[model.SubscriptionType]model.Limits, logger zerolog.Logger) LimitsService {
	return &limitsService{
		logger: logger.With().Str("service", "LimitsService").Logger(),
		table:  table,
	}
}

func (s *limitsService) Refresh(ctx context.Context) error {
	if s.baseURL == "" || s.client == nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+limitsEndpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create limits request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch limits, keeping previous table")
		return fmt.Errorf("%w: fetching limits: %w", ErrProvider, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading limits: %w", ErrProvider, err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Error().Int("status", resp.StatusCode).Msg("Limits endpoint returned non-200, keeping previous table")
		return fmt.Errorf("%w: limits endpoint returned HTTP %d", ErrProvider, resp.StatusCode)
	}

	var table map[model.SubscriptionType]model.Limits
	if err := json.Unmarshal(body, &table); err != nil {
		return fmt.Errorf("%w: decoding limits: %w", ErrProvider, err)
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	s.logger.Info().Int("tiers", len(table)).Msg("Limits table loaded")
	return nil
}

func (s *limitsService) For(tier model.SubscriptionType) model.Limits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.table[tier]; ok {
		return l
	}
	return model.DefaultLimits
}
