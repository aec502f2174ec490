package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krzotki/eleven-labs-demo/internal/match"
	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeMatchFixture(t *testing.T) string {
	t.Helper()
	m := match.Match{
		Metadata: match.Metadata{MatchID: "EUN1_7"},
		Info: match.Info{
			GameMode: "ARAM",
			Participants: []match.Participant{
				{PUUID: "p1", RiotIDGameName: "Smurf", ChampionName: "Teemo", TeamID: 100, Kills: 1, Deaths: 9, TotalDamageDealtToChampions: 3000, GoldEarned: 6000},
				{PUUID: "p2", RiotIDGameName: "Carry", ChampionName: "Lux", TeamID: 100, Kills: 14, Deaths: 1, Assists: 20, TotalDamageDealtToChampions: 50000, DamageSelfMitigated: 4000, DamageDealtToObjectives: 3000, GoldEarned: 15000},
			},
		},
	}
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "match.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	path := writeMatchFixture(t)

	stdout, _, err := executeCLI(t, "analyze", "--file", path, "--puuid", "p1", "--alias", "Carry=Mike")
	require.NoError(t, err)

	var stats model.MatchStats
	require.NoError(t, json.Unmarshal([]byte(stdout), &stats))
	assert.Equal(t, "Smurf", stats.Name)
	assert.Equal(t, "1/9/0", stats.KDA)
	assert.Equal(t, "Mike", stats.BestTeammate)
	assert.True(t, stats.LowDamage)
}

func TestAnalyzeCommandErrors(t *testing.T) {
	path := writeMatchFixture(t)

	_, _, err := executeCLI(t, "analyze", "--file", path, "--puuid", "nobody")
	assert.ErrorIs(t, err, match.ErrParticipantNotFound)

	_, _, err = executeCLI(t, "analyze", "--file", path, "--puuid", "p1", "--alias", "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid alias")

	_, _, err = executeCLI(t, "analyze", "--puuid", "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "file" not set`)
}

func TestTokenCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, "token", "--subject", "discord-9", "--secret", "s3cret")
	require.NoError(t, err)

	claims, err := util.ValidateJWT(strings.TrimSpace(stdout), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "discord-9", claims.Subject)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, _, err := executeCLI(t, "token", "--subject", "discord-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no signing secret")
}

func TestInspectionCommandsNeedDatabase(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "")
	for _, name := range []string{"entitlement", "usage"} {
		_, _, err := executeCLI(t, name, "--user", "d1")
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "no database")
	}
}

func TestVoicesCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/voices", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"voices":[{"voice_id":"v1","name":"Korwin","category":"cloned"},{"voice_id":"v2","name":"Boss [PREMIUM]","category":"cloned"}]}`))
	})
	mux.HandleFunc("/user/subscription", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"character_count":10,"character_limit":100}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	t.Setenv("ELEVEN_LABS_API_KEY", "key")

	stdout, _, err := executeCLI(t, "voices", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Korwin")
	assert.Contains(t, stdout, "characters: 10/100")

	stdout, _, err = executeCLI(t, "voices", "--base-url", srv.URL, "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
}
