package service

import (
	"context"
	"testing"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGetUsageOpensDailyRecord(t *testing.T) {
	store := memory.New()
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := NewUsageService(store, zerolog.Nop(), WithClock(fixedClock(now)), WithLocation(time.UTC))

	snap, err := svc.GetUsage(context.Background(), "u1", model.SubscriptionPeriod{Type: model.SubscriptionFreemium})
	require.NoError(t, err)
	assert.NotEmpty(t, snap.RecordID)
	assert.Equal(t, model.Usage{}, snap.Daily)
	assert.Equal(t, model.Usage{}, snap.Monthly)

	recs := store.UsageRecords("u1")
	require.Len(t, recs, 1)
	assert.Equal(t, now, recs[0].CycleStart)
	assert.Equal(t, now.Add(model.Month), recs[0].CycleEnd)

	again, err := svc.GetUsage(context.Background(), "u1", model.SubscriptionPeriod{Type: model.SubscriptionFreemium})
	require.NoError(t, err)
	assert.Equal(t, snap.RecordID, again.RecordID)
	assert.Len(t, store.UsageRecords("u1"), 1)
}

func TestGetUsageSumsCycleAndReusesBounds(t *testing.T) {
	store := memory.New()
	cycleStart := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	cycleEnd := cycleStart.Add(model.Month)
	ctx := context.Background()
	require.NoError(t, store.CreateUsageRecord(ctx, &model.UsageRecord{
		ID: "r1", UserID: "u1", CycleStart: cycleStart, CycleEnd: cycleEnd,
		TextCount: 4, VoiceChars: 120, CreatedAt: cycleStart,
	}))
	require.NoError(t, store.CreateUsageRecord(ctx, &model.UsageRecord{
		ID: "r2", UserID: "u1", CycleStart: cycleStart, CycleEnd: cycleEnd,
		TextCount: 2, VoiceChars: 0, CreatedAt: cycleStart.Add(48 * time.Hour),
	}))

	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := NewUsageService(store, zerolog.Nop(), WithClock(fixedClock(now)), WithLocation(time.UTC),
		WithIDGenerator(func() string { return "today" }))

	snap, err := svc.GetUsage(ctx, "u1", model.SubscriptionPeriod{Type: model.SubscriptionFreemium})
	require.NoError(t, err)
	assert.Equal(t, "today", snap.RecordID)
	assert.Equal(t, model.Usage{Text: 6, Voice: 120}, snap.Monthly)
	assert.Equal(t, model.Usage{}, snap.Daily)

	rec, err := store.GetUsageRecord(ctx, "today")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, cycleStart, rec.CycleStart)
	assert.Equal(t, cycleEnd, rec.CycleEnd)
}

func TestGetUsageExplicitWindow(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	// Before the window, not counted.
	require.NoError(t, store.CreateUsageRecord(ctx, &model.UsageRecord{
		ID: "old", UserID: "u1", TextCount: 9, CreatedAt: start.Add(-time.Hour),
		CycleStart: start.Add(-model.Month), CycleEnd: start,
	}))
	require.NoError(t, store.CreateUsageRecord(ctx, &model.UsageRecord{
		ID: "today", UserID: "u1", TextCount: 3, VoiceChars: 50, CreatedAt: start.Add(9*24*time.Hour + time.Hour),
		CycleStart: start, CycleEnd: end,
	}))

	now := start.Add(9*24*time.Hour + 5*time.Hour)
	svc := NewUsageService(store, zerolog.Nop(), WithClock(fixedClock(now)), WithLocation(time.UTC))
	snap, err := svc.GetUsage(ctx, "u1", model.SubscriptionPeriod{Type: model.SubscriptionDiscordPremium, Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, "today", snap.RecordID)
	assert.Equal(t, model.Usage{Text: 3, Voice: 50}, snap.Daily)
	assert.Equal(t, model.Usage{Text: 3, Voice: 50}, snap.Monthly)
}

func TestIncreaseUsage(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.CreateUsageRecord(ctx, &model.UsageRecord{ID: "r1", UserID: "u1", TextCount: 2, VoiceChars: 10}))
	svc := NewUsageService(store, zerolog.Nop())

	require.NoError(t, svc.IncreaseUsage(ctx, "r1", model.Usage{Text: 2, Voice: 10}, 140, false))
	rec, _ := store.GetUsageRecord(ctx, "r1")
	assert.Equal(t, 3, rec.TextCount)
	assert.Equal(t, 150, rec.VoiceChars)

	require.NoError(t, svc.IncreaseUsage(ctx, "r1", model.Usage{Text: 3, Voice: 150}, 20, true))
	rec, _ = store.GetUsageRecord(ctx, "r1")
	assert.Equal(t, 3, rec.TextCount)
	assert.Equal(t, 170, rec.VoiceChars)
}

func TestIncreaseUsageUnknownRecord(t *testing.T) {
	svc := NewUsageService(memory.New(), zerolog.Nop())
	err := svc.IncreaseUsage(context.Background(), "missing", model.Usage{}, 0, false)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestSnapshotDoesNotOpenRecord(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateUsageRecord(ctx, &model.UsageRecord{
		ID: "yesterday", UserID: "u1", TextCount: 4, VoiceChars: 30,
		CycleStart: now.Add(-48 * time.Hour), CycleEnd: now.Add(model.Month), CreatedAt: now.Add(-24 * time.Hour),
	}))
	svc := NewUsageService(store, zerolog.Nop(), WithClock(fixedClock(now)), WithLocation(time.UTC))

	snap, err := svc.Snapshot(ctx, "u1", model.SubscriptionPeriod{Type: model.SubscriptionFreemium})
	require.NoError(t, err)
	assert.Empty(t, snap.RecordID)
	assert.Equal(t, model.Usage{}, snap.Daily)
	assert.Equal(t, model.Usage{Text: 4, Voice: 30}, snap.Monthly)
	assert.Len(t, store.UsageRecords("u1"), 1)

	snap, err = svc.Snapshot(ctx, "nobody", model.SubscriptionPeriod{Type: model.SubscriptionFreemium})
	require.NoError(t, err)
	assert.Empty(t, snap.RecordID)
	assert.Empty(t, store.UsageRecords("nobody"))
}
