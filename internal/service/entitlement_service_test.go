package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntitlements(store *memory.Store, now time.Time) EntitlementService {
	svc := NewEntitlementService(store, zerolog.Nop()).(*entitlementService)
	svc.now = fixedClock(now)
	return svc
}

func TestResolveUnregisteredUser(t *testing.T) {
	period := newEntitlements(memory.New(), time.Now()).Resolve(context.Background(), "nobody")
	assert.Equal(t, model.SubscriptionFreemium, period.Type)
	assert.False(t, period.HasWindow())
}

func TestResolveSubscriptionWins(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	store := memory.New()
	store.PutUser("d1", "u1")
	store.PutSubscription(model.ExternalSubscription{
		UserID: "u1", Type: model.SubscriptionDiscordRegular, Status: "active",
		PeriodStart: now.Add(-24 * time.Hour), PeriodEnd: now.Add(29 * 24 * time.Hour),
	})
	store.PutPurchase(model.Purchase{UserID: "u1", Type: model.SubscriptionDiscordPremium, Priority: 10, Duration: model.DurationNone, CreatedAt: now})

	period := newEntitlements(store, now).Resolve(context.Background(), "d1")
	assert.Equal(t, model.SubscriptionDiscordRegular, period.Type)
	require.True(t, period.HasWindow())
	assert.Equal(t, now.Add(-24*time.Hour), *period.Start)
}

func TestResolveInactiveSubscriptionFallsBackToPurchase(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	store := memory.New()
	store.PutUser("d1", "u1")
	store.PutSubscription(model.ExternalSubscription{UserID: "u1", Type: model.SubscriptionDiscordRegular, Status: "canceled"})
	store.PutPurchase(model.Purchase{UserID: "u1", Type: model.SubscriptionDiscordLite, Priority: 1, Duration: model.DurationNone, CreatedAt: now})

	period := newEntitlements(store, now).Resolve(context.Background(), "d1")
	assert.Equal(t, model.SubscriptionDiscordLite, period.Type)
	assert.False(t, period.HasWindow())
}

func TestResolvePurchasePriorityAndExpiry(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	store := memory.New()
	store.PutUser("d1", "u1")
	// Highest priority but expired.
	store.PutPurchase(model.Purchase{UserID: "u1", Type: model.SubscriptionDiscordPremium, Priority: 30, Duration: model.DurationMonth, CreatedAt: now.Add(-31 * 24 * time.Hour)})
	bought := now.Add(-2 * 24 * time.Hour)
	store.PutPurchase(model.Purchase{UserID: "u1", Type: model.SubscriptionDiscordVoice, Priority: 20, Duration: model.DurationMonth, CreatedAt: bought})
	store.PutPurchase(model.Purchase{UserID: "u1", Type: model.SubscriptionDiscordLite, Priority: 5, Duration: model.DurationNone, CreatedAt: now})

	period := newEntitlements(store, now).Resolve(context.Background(), "d1")
	assert.Equal(t, model.SubscriptionDiscordVoice, period.Type)
	require.True(t, period.HasWindow())
	assert.Equal(t, bought, *period.Start)
	assert.Equal(t, bought.Add(model.Month), *period.End)
}

func TestBestPurchaseTieKeepsOrder(t *testing.T) {
	now := time.Now()
	ps := []model.Purchase{
		{ID: "first", Type: model.SubscriptionDiscordLite, Priority: 7, Duration: model.DurationNone},
		{ID: "second", Type: model.SubscriptionDiscordRegular, Priority: 7, Duration: model.DurationNone},
	}
	p, ok := bestPurchase(ps, now)
	require.True(t, ok)
	assert.Equal(t, "first", p.ID)
}

func TestBestPurchaseSkipsUnknownTypes(t *testing.T) {
	ps := []model.Purchase{
		{ID: "bogus", Type: "GOLD", Priority: 99, Duration: model.DurationNone},
		{ID: "lite", Type: model.SubscriptionDiscordLite, Priority: 1, Duration: model.DurationNone},
	}
	p, ok := bestPurchase(ps, time.Now())
	require.True(t, ok)
	assert.Equal(t, "lite", p.ID)

	_, ok = bestPurchase(nil, time.Now())
	assert.False(t, ok)
}

type failingSubscriptions struct{ *memory.Store }

func (failingSubscriptions) GetActiveSubscription(context.Context, string) (*model.ExternalSubscription, error) {
	return nil, errors.New("connection reset")
}

func TestResolveStoreErrorIsFreemium(t *testing.T) {
	store := memory.New()
	store.PutUser("d1", "u1")
	svc := NewEntitlementService(failingSubscriptions{store}, zerolog.Nop())
	assert.Equal(t, model.SubscriptionFreemium, svc.Resolve(context.Background(), "d1").Type)
}
