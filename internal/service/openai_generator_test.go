package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string, tokens int, seen *chatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + jsonString(content) + `}}],"usage":{"completion_tokens":` + strconv.Itoa(tokens) + `}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerateUsesQualityModel(t *testing.T) {
	var seen chatCompletionRequest
	srv := completionServer(t, "You played like a minion.", 120, &seen)
	gen := NewOpenAIGenerator("key", srv.URL, nil)

	out, err := gen.Generate(context.Background(), GenerationRequest{
		Stats:         model.MatchStats{Name: "Bob", GameType: "CLASSIC", Position: "JUNGLE"},
		Language:      model.LanguagePolish,
		Quality:       model.QualityRich,
		CustomInsults: []string{"potato"},
	})
	require.NoError(t, err)
	assert.Equal(t, "You played like a minion.", out)

	assert.Equal(t, DefaultModels[model.QualityRich], seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Contains(t, seen.Messages[0].Content, "potato")
	assert.Contains(t, seen.Messages[1].Content, "JUNGLE")
}

func TestGenerateRejectsShortCompletion(t *testing.T) {
	srv := completionServer(t, "meh", 10, nil)
	_, err := NewOpenAIGenerator("key", srv.URL, nil).Generate(context.Background(), GenerationRequest{Quality: model.QualityBasic})
	assert.ErrorIs(t, err, ErrRejectedCompletion)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestGenerateProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIGenerator("key", srv.URL, nil).Generate(context.Background(), GenerationRequest{})
	require.ErrorIs(t, err, ErrProvider)
	assert.True(t, strings.Contains(err.Error(), "rate limited"))
}

func TestGenerateJokeAcceptsShortCompletion(t *testing.T) {
	var seen chatCompletionRequest
	srv := completionServer(t, "Why did the jungler cross the river? To miss the gank.", 14, &seen)
	gen := NewOpenAIGenerator("key", srv.URL, nil)

	out, err := gen.GenerateJoke(context.Background(), JokeGenerationRequest{
		Topic:      "League of Legends",
		Language:   model.LanguageEnglish,
		Quality:    model.QualityRich,
		VoiceStyle: "politician",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "jungler")

	assert.Equal(t, DefaultModels[model.QualityRich], seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Contains(t, seen.Messages[0].Content, "politician")
	assert.Equal(t, "Topic: League of Legends", seen.Messages[1].Content)
}

func TestSpellNumbersUsesBasicModelAtZeroTemperature(t *testing.T) {
	var seen chatCompletionRequest
	srv := completionServer(t, "zero kills and twelve deaths", 6, &seen)

	out, err := NewOpenAIGenerator("key", srv.URL, nil).SpellNumbers(context.Background(), "0 kills and 12 deaths", model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "zero kills and twelve deaths", out)
	assert.Equal(t, DefaultModels[model.QualityBasic], seen.Model)
	assert.Zero(t, seen.Temperature)
	assert.Equal(t, "0 kills and 12 deaths", seen.Messages[1].Content)
}
