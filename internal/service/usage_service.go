package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/repository"
	"github.com/rs/zerolog"
)

// UsageService is the usage ledger.
type UsageService interface {
	// GetUsage returns the user's daily and monthly counters for the given
	// period, opening today's record if it does not exist yet.
	GetUsage(ctx context.Context, userID string, period model.SubscriptionPeriod) (*model.UsageSnapshot, error)
	// Snapshot reports the same counters without writing. RecordID is empty
	// when today's record has not been opened yet.
	Snapshot(ctx context.Context, userID string, period model.SubscriptionPeriod) (*model.UsageSnapshot, error)
	// IncreaseUsage writes current plus the delta to the record. The write is
	// a plain read-modify-write: concurrent increments of the same record can
	// be lost.
	IncreaseUsage(ctx context.Context, recordID string, current model.Usage, voiceChars int, onlyVoice bool) error
}

type usageService struct {
	repo   repository.UsageRepository
	logger zerolog.Logger
	now    func() time.Time
	loc    *time.Location
	newID  func() string
}

// UsageOption customises a UsageService.
type UsageOption func(*usageService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) UsageOption {
	return func(s *usageService) { s.now = now }
}

// WithLocation sets the zone whose midnight starts a new day. Defaults to time.Local.
func WithLocation(loc *time.Location) UsageOption {
	return func(s *usageService) { s.loc = loc }
}

// WithIDGenerator replaces the uuid record id generator.
func WithIDGenerator(gen func() string) UsageOption {
	return func(s *usageService) { s.newID = gen }
}

// NewUsageService creates a new UsageService with a scoped logger.
func NewUsageService(repo repository.UsageRepository, logger zerolog.Logger, opts ...UsageOption) UsageService {
	s := &usageService{
		repo:   repo,
		logger: logger.With().Str("service", "UsageService").Logger(),
		now:    time.Now,
		loc:    time.Local,
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *usageService) GetUsage(ctx context.Context, userID string, period model.SubscriptionPeriod) (*model.UsageSnapshot, error) {
	now := s.now().In(s.loc)
	snap, records, err := s.snapshot(ctx, userID, period, now)
	if err != nil {
		return nil, err
	}
	if snap.RecordID != "" {
		return snap, nil
	}

	start, end := cycleBounds(records, period, now)
	rec := &model.UsageRecord{
		ID:         s.newID(),
		UserID:     userID,
		CycleStart: start,
		CycleEnd:   end,
		CreatedAt:  now,
	}
	if err := s.repo.CreateUsageRecord(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to open daily usage record")
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.logger.Debug().Str("user_id", userID).Str("record_id", rec.ID).Time("cycle_end", end).Msg("Opened daily usage record")
	snap.RecordID = rec.ID
	return snap, nil
}

func (s *usageService) Snapshot(ctx context.Context, userID string, period model.SubscriptionPeriod) (*model.UsageSnapshot, error) {
	snap, _, err := s.snapshot(ctx, userID, period, s.now().In(s.loc))
	return snap, err
}

// snapshot sums the window and picks today's record, if any.
func (s *usageService) snapshot(ctx context.Context, userID string, period model.SubscriptionPeriod, now time.Time) (*model.UsageSnapshot, []model.UsageRecord, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	records, err := s.window(ctx, userID, period, now)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list usage records")
		return nil, nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	snap := &model.UsageSnapshot{}
	for _, r := range records {
		snap.Monthly = snap.Monthly.Add(model.Usage{Text: r.TextCount, Voice: r.VoiceChars})
		if snap.RecordID == "" && !r.CreatedAt.Before(midnight) {
			snap.RecordID = r.ID
			snap.Daily = model.Usage{Text: r.TextCount, Voice: r.VoiceChars}
		}
	}
	return snap, records, nil
}

// window returns the records counted towards the current cycle, oldest first.
func (s *usageService) window(ctx context.Context, userID string, period model.SubscriptionPeriod, now time.Time) ([]model.UsageRecord, error) {
	if period.HasWindow() {
		return s.repo.ListUsageCreatedBetween(ctx, userID, *period.Start, *period.End)
	}
	return s.repo.ListUsageActiveAt(ctx, userID, now)
}

// cycleBounds copies the cycle of the earliest record in the window, then
// falls back to the subscription period, then to a 30 day cycle starting now.
func cycleBounds(records []model.UsageRecord, period model.SubscriptionPeriod, now time.Time) (time.Time, time.Time) {
	if len(records) > 0 {
		return records[0].CycleStart, records[0].CycleEnd
	}
	start, end := now, now.Add(model.Month)
	if period.Start != nil {
		start = *period.Start
	}
	if period.End != nil {
		end = *period.End
	}
	return start, end
}

func (s *usageService) IncreaseUsage(ctx context.Context, recordID string, current model.Usage, voiceChars int, onlyVoice bool) error {
	next := current
	next.Voice += voiceChars
	if !onlyVoice {
		next.Text++
	}
	if err := s.repo.UpdateUsageCounters(ctx, recordID, next); err != nil {
		s.logger.Error().Err(err).Str("record_id", recordID).Msg("Failed to increase usage")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}
