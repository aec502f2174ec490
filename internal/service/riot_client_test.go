package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krzotki/eleven-labs-demo/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riotServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/riot/account/v1/accounts/by-riot-id/Faker/KR1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Riot-Token"))
		_ = json.NewEncoder(w).Encode(map[string]string{"puuid": "p-faker", "gameName": "Faker", "tagLine": "KR1"})
	})
	mux.HandleFunc("/lol/match/v5/matches/by-puuid/p-faker/ids", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{"EUW1_2", "EUW1_1"})
	})
	mux.HandleFunc("/lol/match/v5/matches/EUW1_2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(match.Match{
			Metadata: match.Metadata{MatchID: "EUW1_2"},
			Info:     match.Info{GameMode: "ARAM", Participants: []match.Participant{{PUUID: "p-faker"}}},
		})
	})
	mux.HandleFunc("/lol/match/v5/matches/EUW1_9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRiotClientFlow(t *testing.T) {
	srv := riotServer(t)
	c := NewRiotClient("secret", WithRiotBaseURL(srv.URL))
	ctx := context.Background()

	puuid, err := c.ResolvePUUID(ctx, match.EUW1, "Faker", "KR1")
	require.NoError(t, err)
	assert.Equal(t, "p-faker", puuid)

	ids, err := c.MatchIDs(ctx, match.EUW1, puuid)
	require.NoError(t, err)
	assert.Equal(t, []string{"EUW1_2", "EUW1_1"}, ids)

	m, err := c.Match(ctx, match.EUW1, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "ARAM", m.Info.GameMode)
	require.Len(t, m.Info.Participants, 1)
}

func TestRiotClientErrors(t *testing.T) {
	srv := riotServer(t)
	c := NewRiotClient("secret", WithRiotBaseURL(srv.URL))
	ctx := context.Background()

	_, err := c.ResolvePUUID(ctx, match.EUW1, "Nobody", "EUW")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Match(ctx, match.EUW1, "EUW1_9")
	assert.ErrorIs(t, err, ErrProvider)
	assert.NotErrorIs(t, err, ErrNotFound)
}
