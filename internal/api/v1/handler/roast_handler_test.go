package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/krzotki/eleven-labs-demo/internal/api/v1/dto"
	"github.com/krzotki/eleven-labs-demo/internal/middleware"
	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/quota"
	"github.com/krzotki/eleven-labs-demo/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoastService struct {
	got     service.RoastRequest
	gotJoke service.JokeRequest
	result  service.RoastResult
	report  *service.UsageReport
	err     error
}

func (f *fakeRoastService) Roast(_ context.Context, req service.RoastRequest) service.RoastResult {
	f.got = req
	return f.result
}

func (f *fakeRoastService) Joke(_ context.Context, req service.JokeRequest) service.RoastResult {
	f.gotJoke = req
	return f.result
}

func (f *fakeRoastService) Usage(context.Context, string) (*service.UsageReport, error) {
	return f.report, f.err
}

func (f *fakeRoastService) Wait() {}

// asUser stands in for AuthMiddleware.
func asUser(id string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, id)))
		})
	}
}

func newMux(svc service.RoastService) *http.ServeMux {
	mux := http.NewServeMux()
	NewRoastHandler(svc, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).
		RegisterRoutes(mux, asUser("d1"))
	return mux
}

func TestCreateRoast(t *testing.T) {
	svc := &fakeRoastService{result: service.RoastResult{
		Outcome: service.OutcomeDelivered,
		Message: "gg",
		Tier:    model.SubscriptionFreemium,
		Voice:   &model.VoicePlan{Provider: model.SpeechElevenLabs, VoiceID: "v1", Voice: &model.Voice{Name: "Korwin"}},
	}}
	body := `{"player_name":"Faker#KR1","game_index":2,"voice":true,"voice_id":"v1"}`
	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roasts", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "d1", svc.got.UserID)
	assert.Equal(t, "Faker#KR1", svc.got.PlayerName)
	assert.Equal(t, 2, svc.got.GameIndex)
	assert.True(t, svc.got.Voice)

	var resp dto.RoastResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "delivered", resp.Outcome)
	require.NotNil(t, resp.Voice)
	assert.Equal(t, "Korwin", resp.Voice.Name)
}

func TestCreateRoastValidation(t *testing.T) {
	svc := &fakeRoastService{}
	for name, body := range map[string]string{
		"bad json":    `{`,
		"game id":     `{"game_id":"abc"}`,
		"game index":  `{"game_index":-1}`,
		"long player": `{"player_name":"` + strings.Repeat("a", 80) + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roasts", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roasts", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCreateJoke(t *testing.T) {
	svc := &fakeRoastService{result: service.RoastResult{
		Outcome: service.OutcomeDelivered,
		Message: "knock knock",
		Quality: model.QualityRich,
		Topic:   "Kids",
	}}
	body := `{"topic":"kids","language":"pl","voice":true,"voice_id":"v1"}`
	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jokes", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.JokeRequest{UserID: "d1", Topic: "kids", Language: "pl", Voice: true, VoiceID: "v1"}, svc.gotJoke)

	var resp dto.RoastResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Kids", resp.Topic)
	assert.Equal(t, "rich", resp.Quality)
	assert.Nil(t, resp.Voice)

	svc.result = service.RoastResult{Outcome: service.OutcomeDenied, Reason: quota.ReasonVoiceCap}
	rec = httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jokes", strings.NewReader(`{"voice":true}`)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCreateJokeValidation(t *testing.T) {
	svc := &fakeRoastService{}
	for name, body := range map[string]string{
		"bad json":   `{`,
		"long topic": `{"topic":"` + strings.Repeat("a", 80) + `"}`,
		"voice id":   `{"voice_id":"v-1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jokes", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, svc.gotJoke.UserID)

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jokes", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListJokeTopics(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(&fakeRoastService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jokes/topics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.JokeTopicsResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, service.JokeTopics, resp.Topics)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		res  service.RoastResult
		want int
	}{
		{service.RoastResult{Outcome: service.OutcomeDelivered}, http.StatusOK},
		{service.RoastResult{Outcome: service.OutcomeDenied, Reason: quota.ReasonDailyCap}, http.StatusTooManyRequests},
		{service.RoastResult{Outcome: service.OutcomeBusy}, http.StatusConflict},
		{service.RoastResult{Outcome: service.OutcomeSoftError}, http.StatusUnprocessableEntity},
		{service.RoastResult{Outcome: service.OutcomeRejected, Err: service.ErrValidation}, http.StatusBadRequest},
		{service.RoastResult{Outcome: service.OutcomeRejected, Err: errors.Join(service.ErrNotFound)}, http.StatusNotFound},
		{service.RoastResult{Outcome: service.OutcomeFailed}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.res), string(tc.res.Outcome))
	}
}

func TestGetUsage(t *testing.T) {
	svc := &fakeRoastService{report: &service.UsageReport{
		Period:  model.SubscriptionPeriod{Type: model.SubscriptionDiscordLite},
		Limits:  model.DefaultLimits,
		Daily:   model.Usage{Text: 2},
		Monthly: model.Usage{Text: 7, Voice: 300},
		Quality: model.QualityBasic,
	}}
	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usage", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.UsageResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DISCORD_LITE", resp.Tier)
	assert.Equal(t, 300, resp.Monthly.VoiceChars)
	assert.Empty(t, resp.PeriodStart)

	svc.err = errors.New("db down")
	rec = httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usage", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealth(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthHandler(nil).RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	mux = http.NewServeMux()
	NewHealthHandler(fakePinger{err: errors.New("down")}).RegisterRoutes(mux)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
