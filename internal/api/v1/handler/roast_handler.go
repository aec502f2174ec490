package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/api/v1/dto"
	"github.com/krzotki/eleven-labs-demo/internal/middleware"
	"github.com/krzotki/eleven-labs-demo/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type RoastHandler struct {
	roastService service.RoastService
	validate     *validator.Validate
	logger       zerolog.Logger
}

func NewRoastHandler(roastService service.RoastService, v *validator.Validate, logger zerolog.Logger) *RoastHandler {
	return &RoastHandler{
		roastService: roastService,
		validate:     v,
		logger:       logger.With().Str("handler", "RoastHandler").Logger(),
	}
}

// RegisterRoutes mounts v1 roast, joke and usage routes
func (h *RoastHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/roasts", authMw(http.HandlerFunc(h.handleRoasts)))
	mux.Handle("/jokes", authMw(http.HandlerFunc(h.handleJokes)))
	mux.Handle("/jokes/topics", http.HandlerFunc(h.listJokeTopics))
	mux.Handle("/usage", authMw(http.HandlerFunc(h.handleUsage)))
}

func (h *RoastHandler) handleRoasts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.createRoast(w, r)
}

func (h *RoastHandler) handleJokes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.createJoke(w, r)
}

func (h *RoastHandler) handleUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.getUsage(w, r)
}

// @Summary Roast a player
// @Description Analyzes one of the player's recent matches and generates a roast, optionally voiced. The outcome field tells why a request was not delivered.
// @Tags roasts
// @Accept json
// @Produce json
// @Param roast body dto.RoastRequestDTO true "Roast request"
// @Success 200 {object} dto.RoastResponseDTO "delivered"
// @Failure 400 {object} dto.RoastResponseDTO "rejected input"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {object} dto.RoastResponseDTO "player or match not found"
// @Failure 409 {object} dto.RoastResponseDTO "previous request still running"
// @Failure 422 {object} dto.RoastResponseDTO "generated text too short"
// @Failure 429 {object} dto.RoastResponseDTO "quota exceeded"
// @Failure 502 {object} dto.RoastResponseDTO "provider failure"
// @Router /roasts [post]
func (h *RoastHandler) createRoast(w http.ResponseWriter, r *http.Request) {
	// 1. Extract UserID from context
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	// 2. Decode and validate
	var req dto.RoastRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	// 3. Run the request
	res := h.roastService.Roast(r.Context(), service.RoastRequest{
		UserID:     userID,
		PlayerName: req.PlayerName,
		TagLine:    req.TagLine,
		GameIndex:  req.GameIndex,
		GameID:     req.GameID,
		Language:   req.Language,
		Region:     req.Region,
		Voice:      req.Voice,
		VoiceID:    req.VoiceID,
	})

	// 4. Map the outcome
	writeJSON(w, StatusFor(res), toResponse(res))
}

// @Summary Tell a joke
// @Description Generates a joke on one of the supported topics, optionally voiced. Jokes count against the voice allowance only.
// @Tags jokes
// @Accept json
// @Produce json
// @Param joke body dto.JokeRequestDTO true "Joke request"
// @Success 200 {object} dto.RoastResponseDTO "delivered"
// @Failure 400 {object} dto.RoastResponseDTO "unknown topic or voice"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {object} dto.RoastResponseDTO "previous request still running"
// @Failure 429 {object} dto.RoastResponseDTO "voice quota exceeded"
// @Failure 502 {object} dto.RoastResponseDTO "provider failure"
// @Router /jokes [post]
func (h *RoastHandler) createJoke(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.JokeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	res := h.roastService.Joke(r.Context(), service.JokeRequest{
		UserID:   userID,
		Topic:    req.Topic,
		Language: req.Language,
		Voice:    req.Voice,
		VoiceID:  req.VoiceID,
	})
	writeJSON(w, StatusFor(res), toResponse(res))
}

// @Summary List joke topics
// @Tags jokes
// @Produce json
// @Success 200 {object} dto.JokeTopicsResponseDTO
// @Router /jokes/topics [get]
func (h *RoastHandler) listJokeTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, dto.JokeTopicsResponseDTO{Topics: service.JokeTopics})
}

func toResponse(res service.RoastResult) dto.RoastResponseDTO {
	resp := dto.RoastResponseDTO{
		Outcome: string(res.Outcome),
		Message: res.Message,
		Reason:  string(res.Reason),
		Tier:    string(res.Tier),
		Quality: string(res.Quality),
		Stats:   res.Stats,
		Topic:   res.Topic,
		ClipURL: res.ClipURL,
	}
	if res.Voice != nil {
		resp.Voice = &dto.VoiceResponseDTO{Provider: string(res.Voice.Provider), ID: res.Voice.VoiceID}
		if res.Voice.Voice != nil {
			resp.Voice.Name = res.Voice.Voice.Name
			resp.Voice.Premium = res.Voice.Voice.Premium
		}
	}
	return resp
}

// StatusFor maps a roast or joke outcome to its HTTP status.
func StatusFor(res service.RoastResult) int {
	switch res.Outcome {
	case service.OutcomeDelivered:
		return http.StatusOK
	case service.OutcomeDenied:
		return http.StatusTooManyRequests
	case service.OutcomeBusy:
		return http.StatusConflict
	case service.OutcomeSoftError:
		return http.StatusUnprocessableEntity
	case service.OutcomeRejected:
		if errors.Is(res.Err, service.ErrNotFound) {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// @Summary Get usage
// @Description Returns the caller's tier, billing period, limits and consumption.
// @Tags usage
// @Produce json
// @Success 200 {object} dto.UsageResponseDTO
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "failed to read usage"
// @Router /usage [get]
func (h *RoastHandler) getUsage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	rep, err := h.roastService.Usage(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to read usage")
		http.Error(w, "Failed to read usage", http.StatusInternalServerError)
		return
	}

	resp := dto.UsageResponseDTO{
		Tier:    string(rep.Period.Type),
		Quality: string(rep.Quality),
		Daily:   dto.UsageCountersDTO{Text: rep.Daily.Text, VoiceChars: rep.Daily.Voice},
		Monthly: dto.UsageCountersDTO{Text: rep.Monthly.Text, VoiceChars: rep.Monthly.Voice},
		Limits:  rep.Limits,
	}
	if rep.Period.HasWindow() {
		resp.PeriodStart = rep.Period.Start.Format(time.RFC3339)
		resp.PeriodEnd = rep.Period.End.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
