package service

import (
	"strings"

	"github.com/krzotki/eleven-labs-demo/internal/model"
)

// JokeTopics are the topics a joke can be asked for.
var JokeTopics = []string{
	"Janusz Korwin Mikke",
	"League of Legends",
	"Valorant",
	"Soviet Union (USSR)",
	"Kids",
	"Keto diet",
	"Gen Z",
	"Fortnite",
	"School",
	"Popculture",
	"Law students",
	"Crossfit",
	"Vegans",
	"Climate activists",
	"Feminists",
}

// JokeRequest asks for a joke on a topic, optionally voiced.
type JokeRequest struct {
	UserID string `json:"-"`
	// Topic must be one of JokeTopics. Empty picks one at random.
	Topic    string `json:"topic,omitempty"`
	Language string `json:"language,omitempty"`
	Voice    bool   `json:"voice,omitempty"`
	VoiceID  string `json:"voice_id,omitempty"`
}

// JokeOptions is a JokeRequest with every default applied.
type JokeOptions struct {
	UserID   string
	Topic    string
	Language model.Language
	Voice    bool
	VoiceID  string
}

// ResolveJokeOptions applies settings and defaults to req. Topic stays empty
// when the request did not name one.
func ResolveJokeOptions(req JokeRequest, settings *model.BotSettings) (JokeOptions, error) {
	opts := JokeOptions{
		UserID:   req.UserID,
		Voice:    req.Voice,
		Language: model.DefaultLanguage,
	}
	if req.UserID == "" {
		return opts, newValidationError("missing user id")
	}

	if topic := strings.TrimSpace(req.Topic); topic != "" {
		canonical, ok := findTopic(topic)
		if !ok {
			return opts, newValidationError("I have no jokes about %s. Pick one of: %s", topic, strings.Join(JokeTopics, ", "))
		}
		opts.Topic = canonical
	}

	switch {
	case req.Language != "":
		lang, ok := model.ParseLanguage(req.Language)
		if !ok {
			return opts, newValidationError("Language %s is not supported (yet)", req.Language)
		}
		opts.Language = lang
	case settings != nil && settings.Language != "":
		if lang, ok := model.ParseLanguage(settings.Language); ok {
			opts.Language = lang
		}
	}

	if opts.Voice {
		opts.VoiceID = strings.TrimSpace(req.VoiceID)
	}
	return opts, nil
}

func findTopic(topic string) (string, bool) {
	for _, t := range JokeTopics {
		if strings.EqualFold(t, topic) {
			return t, true
		}
	}
	return "", false
}
