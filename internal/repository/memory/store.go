// Package memory is an in-process implementation of the repository
// interfaces, used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/repository"
)

var (
	_ repository.UsageRepository        = (*Store)(nil)
	_ repository.SubscriptionRepository = (*Store)(nil)
	_ repository.SettingsRepository     = (*Store)(nil)
	_ repository.MessageRepository      = (*Store)(nil)
)

type Store struct {
	mu sync.RWMutex

	// external id -> user id
	users map[string]string

	usage         map[string]*model.UsageRecord
	subscriptions map[string]*model.ExternalSubscription
	purchases     map[string][]model.Purchase
	settings      map[string]*model.BotSettings
	messages      []model.GeneratedMessage
}

func New() *Store {
	return &Store{
		users:         make(map[string]string),
		usage:         make(map[string]*model.UsageRecord),
		subscriptions: make(map[string]*model.ExternalSubscription),
		purchases:     make(map[string][]model.Purchase),
		settings:      make(map[string]*model.BotSettings),
	}
}

// Seeding helpers

func (s *Store) PutUser(externalID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[externalID] = userID
}

func (s *Store) PutSubscription(sub model.ExternalSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[sub.UserID] = &sub
}

func (s *Store) PutPurchase(p model.Purchase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[p.UserID] = append(s.purchases[p.UserID], p)
}

// PutSettings stores settings for a registered user, keyed by st.UserID.
func (s *Store) PutSettings(st model.BotSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[st.UserID] = &st
}

// UsageRecords returns a copy of the user's records, oldest first.
func (s *Store) UsageRecords(userID string) []model.UsageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.UsageRecord
	for _, r := range s.usage {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sortByCreated(out)
	return out
}

// Messages returns a copy of the audit log.
func (s *Store) Messages() []model.GeneratedMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.GeneratedMessage(nil), s.messages...)
}

// Usage store implementation

func (s *Store) ListUsageCreatedBetween(_ context.Context, userID string, start, end time.Time) ([]model.UsageRecord, error) {
	return s.filterUsage(userID, func(r *model.UsageRecord) bool {
		return !r.CreatedAt.Before(start) && r.CreatedAt.Before(end)
	}), nil
}

func (s *Store) ListUsageActiveAt(_ context.Context, userID string, at time.Time) ([]model.UsageRecord, error) {
	return s.filterUsage(userID, func(r *model.UsageRecord) bool {
		return !r.CycleStart.After(at) && r.CycleEnd.After(at)
	}), nil
}

func (s *Store) filterUsage(userID string, keep func(*model.UsageRecord) bool) []model.UsageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.UsageRecord
	for _, r := range s.usage {
		if r.UserID == userID && keep(r) {
			out = append(out, *r)
		}
	}
	sortByCreated(out)
	return out
}

// GetUsageRecord returns a copy of the record, or nil when it does not exist.
func (s *Store) GetUsageRecord(_ context.Context, id string) (*model.UsageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.usage[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *Store) CreateUsageRecord(_ context.Context, rec *model.UsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usage[rec.ID]; exists {
		return fmt.Errorf("usage record %s already exists", rec.ID)
	}
	cp := *rec
	s.usage[rec.ID] = &cp
	return nil
}

func (s *Store) UpdateUsageCounters(_ context.Context, id string, u model.Usage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.usage[id]
	if !ok {
		return fmt.Errorf("updating usage record %s: %w", id, repository.ErrNotFound)
	}
	r.TextCount = u.Text
	r.VoiceChars = u.Voice
	return nil
}

// Subscription store implementation

func (s *Store) GetUserIDByExternalID(_ context.Context, externalID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[externalID], nil
}

func (s *Store) GetActiveSubscription(_ context.Context, userID string) (*model.ExternalSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subscriptions[userID]
	if !ok || sub.Status != "active" {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (s *Store) ListPurchases(_ context.Context, userID string) ([]model.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]model.Purchase(nil), s.purchases[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out, nil
}

// Settings store implementation

func (s *Store) GetSettingsByExternalID(_ context.Context, externalID string) (*model.BotSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.users[externalID]
	if !ok {
		return nil, nil
	}
	st, ok := s.settings[userID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

// Message store implementation

func (s *Store) InsertGeneratedMessage(_ context.Context, m *model.GeneratedMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *m)
	return nil
}

func sortByCreated(recs []model.UsageRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID < recs[j].ID
		}
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
}
