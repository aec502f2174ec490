package memory

import (
	"context"
	"testing"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageWindows(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"r2", "r1", "r3"} {
		require.NoError(t, s.CreateUsageRecord(ctx, &model.UsageRecord{
			ID:         id,
			UserID:     "u",
			CycleStart: base,
			CycleEnd:   base.Add(model.Month),
			CreatedAt:  base.Add(time.Duration(2-i) * time.Hour),
		}))
	}
	require.NoError(t, s.CreateUsageRecord(ctx, &model.UsageRecord{ID: "other", UserID: "v", CreatedAt: base}))

	recs, err := s.ListUsageCreatedBetween(ctx, "u", base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r3", recs[0].ID)
	assert.Equal(t, "r1", recs[1].ID)

	recs, err = s.ListUsageActiveAt(ctx, "u", base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	recs, err = s.ListUsageActiveAt(ctx, "u", base.Add(model.Month))
	require.NoError(t, err)
	assert.Empty(t, recs, "cycle end is exclusive")
}

func TestUsageCountersAndDuplicates(t *testing.T) {
	ctx := context.Background()
	s := New()
	rec := &model.UsageRecord{ID: "r", UserID: "u"}
	require.NoError(t, s.CreateUsageRecord(ctx, rec))
	assert.Error(t, s.CreateUsageRecord(ctx, rec))

	require.NoError(t, s.UpdateUsageCounters(ctx, "r", model.Usage{Text: 3, Voice: 40}))
	got, err := s.GetUsageRecord(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TextCount)
	assert.Equal(t, 40, got.VoiceChars)

	err = s.UpdateUsageCounters(ctx, "missing", model.Usage{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err = s.GetUsageRecord(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSubscriptionLookups(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutUser("discord-1", "user-1")
	s.PutSubscription(model.ExternalSubscription{UserID: "user-1", Type: model.SubscriptionDiscordLite, Status: "canceled"})
	s.PutPurchase(model.Purchase{ID: "a", UserID: "user-1", Priority: 1})
	s.PutPurchase(model.Purchase{ID: "b", UserID: "user-1", Priority: 5})
	s.PutPurchase(model.Purchase{ID: "c", UserID: "user-1", Priority: 5})

	id, err := s.GetUserIDByExternalID(ctx, "discord-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	id, err = s.GetUserIDByExternalID(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, id)

	sub, err := s.GetActiveSubscription(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, sub, "inactive subscriptions are not returned")

	ps, err := s.ListPurchases(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{ps[0].ID, ps[1].ID, ps[2].ID})
}

func TestSettingsAndMessages(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutUser("discord-1", "user-1")
	s.PutSettings(model.BotSettings{UserID: "user-1", LeagueName: "Faker"})

	st, err := s.GetSettingsByExternalID(ctx, "discord-1")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "Faker", st.LeagueName)

	st, err = s.GetSettingsByExternalID(ctx, "discord-2")
	require.NoError(t, err)
	assert.Nil(t, st)

	require.NoError(t, s.InsertGeneratedMessage(ctx, &model.GeneratedMessage{UserID: "discord-1", Message: "gg"}))
	assert.Len(t, s.Messages(), 1)
}
