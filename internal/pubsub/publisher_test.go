package pubsub_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/config"
	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/pubsub"
	"github.com/krzotki/eleven-labs-demo/internal/repository/memory"
	"github.com/krzotki/eleven-labs-demo/internal/service"

	ps "cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherInvalidProject(t *testing.T) {
	_, err := pubsub.NewPublisher(context.Background(), &config.Config{GCPProjectID: ""})
	assert.Error(t, err)
}

func TestAuditRecordReachesSubscription(t *testing.T) {
	emulator := os.Getenv("PUBSUB_EMULATOR_HOST")
	if emulator == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	pub, err := pubsub.NewPublisher(ctx, &config.Config{GCPProjectID: "test-project", PubSubEmulatorHost: emulator})
	require.NoError(t, err)
	defer pub.Close()

	admin, err := ps.NewClient(ctx, "test-project")
	require.NoError(t, err)
	defer admin.Close()

	topicName := "generated-messages-" + time.Now().Format("150405.000000")
	topic, err := admin.CreateTopic(ctx, topicName)
	require.NoError(t, err)
	sub, err := admin.CreateSubscription(ctx, topicName+"-sub", ps.SubscriptionConfig{Topic: topic})
	require.NoError(t, err)

	store := memory.New()
	audit := service.NewAuditService(store, pub, topicName, zerolog.Nop())
	msg := &model.GeneratedMessage{
		ID:       "m-1",
		UserID:   "123",
		Language: "english",
		Message:  "gg",
		Type:     model.SubscriptionFreemium,
		Variables: model.GenerationVariables{
			Model: model.QualityRich,
			Stats: model.MatchStats{Champion: "Yuumi"},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, audit.Record(ctx, msg))
	require.Len(t, store.Messages(), 1)

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan []byte, 1)
	go func() {
		_ = sub.Receive(recvCtx, func(_ context.Context, m *ps.Message) {
			m.Ack()
			select {
			case c <- m.Data:
			default:
			}
			cancel()
		})
	}()

	var data []byte
	select {
	case data = <-c:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "123", raw["discord_id"])
	assert.Equal(t, "FREEMIUM", raw["sub_type"])

	var got model.GeneratedMessage
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, msg.Message, got.Message)
	assert.Equal(t, model.QualityRich, got.Variables.Model)
	assert.Equal(t, "Yuumi", got.Variables.Stats.Champion)
	assert.True(t, msg.CreatedAt.Equal(got.CreatedAt))
}
