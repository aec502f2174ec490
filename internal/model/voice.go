package model

// Voice is an entry of the bot's ElevenLabs voice catalog.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Premium     bool   `json:"premium"`
}

// SpeechProvider names a synthesis backend.
type SpeechProvider string

const (
	SpeechElevenLabs SpeechProvider = "elevenlabs"
	SpeechOpenAI     SpeechProvider = "openai"
)

// VoicePlan is how a voice request will be synthesized.
type VoicePlan struct {
	Provider SpeechProvider `json:"provider"`
	VoiceID  string         `json:"voice_id,omitempty"`
	APIKey   string         `json:"-"`
	Voice    *Voice         `json:"voice,omitempty"`
}
