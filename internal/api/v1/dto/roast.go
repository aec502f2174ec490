package dto

import (
	"github.com/krzotki/eleven-labs-demo/internal/model"
)

// RoastRequestDTO is the body of POST /roasts. Every field is optional: empty
// values fall back to the caller's dashboard settings.
type RoastRequestDTO struct {
	PlayerName string `json:"player_name" validate:"omitempty,max=64"`
	TagLine    string `json:"tag_line" validate:"omitempty,max=16"`
	GameIndex  int    `json:"game_index" validate:"gte=0,lte=100"`
	GameID     string `json:"game_id" validate:"omitempty,numeric,max=20"`
	Language   string `json:"language" validate:"omitempty,max=16"`
	Region     string `json:"region" validate:"omitempty,alphanum,max=8"`
	Voice      bool   `json:"voice"`
	VoiceID    string `json:"voice_id" validate:"omitempty,alphanum,max=64"`
}

// JokeRequestDTO is the body of POST /jokes. An empty topic picks one at random.
type JokeRequestDTO struct {
	Topic    string `json:"topic" validate:"omitempty,max=64"`
	Language string `json:"language" validate:"omitempty,max=16"`
	Voice    bool   `json:"voice"`
	VoiceID  string `json:"voice_id" validate:"omitempty,alphanum,max=64"`
}

// RoastResponseDTO is returned for every roast and joke request, whatever its outcome.
type RoastResponseDTO struct {
	Outcome string            `json:"outcome"`
	Message string            `json:"message"`
	Reason  string            `json:"reason,omitempty"`
	Tier    string            `json:"tier,omitempty"`
	Quality string            `json:"quality,omitempty"`
	Stats   *model.MatchStats `json:"stats,omitempty"`
	Topic   string            `json:"topic,omitempty"`
	Voice   *VoiceResponseDTO `json:"voice,omitempty"`
	ClipURL string            `json:"clip_url,omitempty"`
}

type VoiceResponseDTO struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider,omitempty"`
	Premium  bool   `json:"premium"`
}

// JokeTopicsResponseDTO is returned by GET /jokes/topics.
type JokeTopicsResponseDTO struct {
	Topics []string `json:"topics"`
}

type UsageCountersDTO struct {
	Text       int `json:"text"`
	VoiceChars int `json:"voice_chars"`
}

// UsageResponseDTO is returned by GET /usage.
type UsageResponseDTO struct {
	Tier        string           `json:"tier"`
	PeriodStart string           `json:"period_start,omitempty"`
	PeriodEnd   string           `json:"period_end,omitempty"`
	Quality     string           `json:"quality"`
	Daily       UsageCountersDTO `json:"daily"`
	Monthly     UsageCountersDTO `json:"monthly"`
	Limits      model.Limits     `json:"limits"`
}

type HealthResponseDTO struct {
	Status string `json:"status"`
}
