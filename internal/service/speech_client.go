package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/rs/zerolog"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	elevenLabsModel   = "eleven_multilingual_v2"
	openAITTSModel    = "tts-1"
	openAITTSVoice    = "alloy"

	// DefaultCustomVoiceID is used for custom-voice accounts without a configured voice.
	DefaultCustomVoiceID = "29vD33N1CtxCmqQRPOHJ"
	// DefaultCatalogVoiceName is the catalog voice used when none is chosen.
	DefaultCatalogVoiceName = "Korwin"

	premiumVoiceMarker = "[PREMIUM]"
)

// SpeechSynthesizer turns final text into audio according to a VoicePlan.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, plan model.VoicePlan, text string) ([]byte, error)
}

// VoiceCatalog lists the bot's own ElevenLabs voices.
type VoiceCatalog interface {
	Voices(ctx context.Context) ([]model.Voice, error)
	// Find returns nil when id is not in the catalog.
	Find(ctx context.Context, id string) (*model.Voice, error)
	// Default returns the catalog voice used when the request does not pick one.
	Default(ctx context.Context) (*model.Voice, error)
}

// CharacterUsage is the bot account's ElevenLabs character balance.
type CharacterUsage struct {
	Count int `json:"character_count"`
	Limit int `json:"character_limit"`
}

// SpeechClient talks to ElevenLabs and the OpenAI speech endpoint.
type SpeechClient struct {
	client           *http.Client
	elevenLabsURL    string
	elevenLabsAPIKey string
	openAIURL        string
	openAIAPIKey     string
	logger           zerolog.Logger

	mu     sync.Mutex
	voices []model.Voice
}

var (
	_ SpeechSynthesizer = (*SpeechClient)(nil)
	_ VoiceCatalog      = (*SpeechClient)(nil)
)

// NewSpeechClient creates a SpeechClient. Empty base URLs select the public APIs.
func NewSpeechClient(elevenLabsURL, elevenLabsAPIKey, openAIURL, openAIAPIKey string, logger zerolog.Logger) *SpeechClient {
	if elevenLabsURL == "" {
		elevenLabsURL = elevenLabsBaseURL
	}
	if openAIURL == "" {
		openAIURL = openAIBaseURL
	}
	return &SpeechClient{
		client:           &http.Client{Timeout: 60 * time.Second},
		elevenLabsURL:    strings.TrimRight(elevenLabsURL, "/"),
		elevenLabsAPIKey: elevenLabsAPIKey,
		openAIURL:        strings.TrimRight(openAIURL, "/"),
		openAIAPIKey:     openAIAPIKey,
		logger:           logger.With().Str("service", "SpeechClient").Logger(),
	}
}

// BotAPIKey is the key used for catalog voices.
func (c *SpeechClient) BotAPIKey() string {
	return c.elevenLabsAPIKey
}

func (c *SpeechClient) Synthesize(ctx context.Context, plan model.VoicePlan, text string) ([]byte, error) {
	switch plan.Provider {
	case model.SpeechElevenLabs:
		return c.elevenLabs(ctx, plan, text)
	case model.SpeechOpenAI:
		return c.openAI(ctx, text)
	default:
		return nil, fmt.Errorf("unknown speech provider %q", plan.Provider)
	}
}

func (c *SpeechClient) elevenLabs(ctx context.Context, plan model.VoicePlan, text string) ([]byte, error) {
	key := plan.APIKey
	if key == "" {
		key = c.elevenLabsAPIKey
	}
	payload := map[string]string{
		"model_id": elevenLabsModel,
		"text":     text,
	}
	endpoint := fmt.Sprintf("%s/text-to-speech/%s?optimize_streaming_latency=4", c.elevenLabsURL, url.PathEscape(plan.VoiceID))
	return c.postAudio(ctx, endpoint, payload, func(r *http.Request) {
		r.Header.Set("xi-api-key", key)
	})
}

func (c *SpeechClient) openAI(ctx context.Context, text string) ([]byte, error) {
	payload := map[string]any{
		"model": openAITTSModel,
		"voice": openAITTSVoice,
		"input": text,
		"speed": 1,
	}
	return c.postAudio(ctx, c.openAIURL+"/audio/speech", payload, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+c.openAIAPIKey)
	})
}

func (c *SpeechClient) postAudio(ctx context.Context, endpoint string, payload any, auth func(*http.Request)) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	auth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading audio: %w", ErrProvider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: speech synthesis failed: HTTP %d", ErrProvider, resp.StatusCode)
	}
	return audio, nil
}

type elevenLabsVoice struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Voices lists the non-premade voices of the bot account. The list is cached
// after the first successful call.
func (c *SpeechClient) Voices(ctx context.Context) ([]model.Voice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.voices != nil {
		return c.voices, nil
	}

	var out struct {
		Voices []elevenLabsVoice `json:"voices"`
	}
	if err := c.getElevenLabs(ctx, "/voices", &out); err != nil {
		return nil, fmt.Errorf("listing voices: %w", err)
	}
	voices := make([]model.Voice, 0, len(out.Voices))
	for _, v := range out.Voices {
		if v.Category == "premade" {
			continue
		}
		voices = append(voices, model.Voice{
			ID:          v.VoiceID,
			Name:        v.Name,
			Description: v.Description,
			Premium:     strings.Contains(v.Name, premiumVoiceMarker),
		})
	}
	c.voices = voices
	c.logger.Info().Int("voices", len(voices)).Msg("Voice catalog loaded")
	return voices, nil
}

func (c *SpeechClient) Find(ctx context.Context, id string) (*model.Voice, error) {
	voices, err := c.Voices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range voices {
		if voices[i].ID == id {
			v := voices[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (c *SpeechClient) Default(ctx context.Context) (*model.Voice, error) {
	voices, err := c.Voices(ctx)
	if err != nil {
		return nil, err
	}
	if len(voices) == 0 {
		return nil, fmt.Errorf("voice catalog is empty: %w", ErrNotFound)
	}
	for i := range voices {
		if voices[i].Name == DefaultCatalogVoiceName {
			v := voices[i]
			return &v, nil
		}
	}
	v := voices[0]
	return &v, nil
}

// CharacterUsage reports the bot account's ElevenLabs character balance.
func (c *SpeechClient) CharacterUsage(ctx context.Context) (*CharacterUsage, error) {
	var u CharacterUsage
	if err := c.getElevenLabs(ctx, "/user/subscription", &u); err != nil {
		return nil, fmt.Errorf("fetching character usage: %w", err)
	}
	return &u, nil
}

func (c *SpeechClient) getElevenLabs(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.elevenLabsURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create ElevenLabs request: %w", err)
	}
	req.Header.Set("xi-api-key", c.elevenLabsAPIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ElevenLabs returned HTTP %d", ErrProvider, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding ElevenLabs response: %w", ErrProvider, err)
	}
	return nil
}
