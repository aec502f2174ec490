package handler

import (
	"net/http"

	"github.com/krzotki/eleven-labs-demo/internal/api/v1/dto"
	"github.com/krzotki/eleven-labs-demo/internal/service"

	"github.com/rs/zerolog"
)

type VoiceHandler struct {
	voices service.VoiceCatalog
	logger zerolog.Logger
}

func NewVoiceHandler(voices service.VoiceCatalog, logger zerolog.Logger) *VoiceHandler {
	return &VoiceHandler{voices: voices, logger: logger.With().Str("handler", "VoiceHandler").Logger()}
}

// RegisterRoutes mounts v1 voice routes
func (h *VoiceHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/voices", authMw(http.HandlerFunc(h.listVoices)))
}

// @Summary List catalog voices
// @Description Lists the voices that can be picked with voice_id. Premium voices need a paid tier.
// @Tags voices
// @Produce json
// @Success 200 {array} dto.VoiceResponseDTO
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "voice catalog unavailable"
// @Router /voices [get]
func (h *VoiceHandler) listVoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	voices, err := h.voices.Voices(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list voices")
		http.Error(w, "Voice catalog unavailable", http.StatusBadGateway)
		return
	}
	resp := make([]dto.VoiceResponseDTO, 0, len(voices))
	for _, v := range voices {
		resp = append(resp, dto.VoiceResponseDTO{ID: v.ID, Name: v.Name, Premium: v.Premium})
	}
	writeJSON(w, http.StatusOK, resp)
}
