package service

import (
	"strconv"
	"strings"

	"github.com/krzotki/eleven-labs-demo/internal/match"
	"github.com/krzotki/eleven-labs-demo/internal/model"
)

// RoastRequest is a request as received from a chat integration. Optional
// fields left empty fall back to the user's settings, then to defaults.
type RoastRequest struct {
	// UserID is the chat-platform id of the requesting user.
	UserID string `json:"-"`
	// PlayerName may carry the tag as "name#tag". Empty roasts the requester
	// using the League account from their settings.
	PlayerName string `json:"player_name,omitempty"`
	TagLine    string `json:"tag_line,omitempty"`
	// GameIndex counts back from the most recent match, starting at 1.
	GameIndex int    `json:"game_index,omitempty"`
	GameID    string `json:"game_id,omitempty"`
	Language  string `json:"language,omitempty"`
	Region    string `json:"region,omitempty"`
	Voice     bool   `json:"voice,omitempty"`
	// VoiceID picks a catalog voice. Ignored unless Voice is set.
	VoiceID string `json:"voice_id,omitempty"`
}

// RoastOptions is a RoastRequest with every default applied.
type RoastOptions struct {
	UserID     string
	PlayerName string
	TagLine    string
	GameIndex  int
	GameID     string
	Language   model.Language
	Platform   match.Platform
	Voice      bool
	VoiceID    string
}

// ResolveOptions applies settings and defaults to req. The returned error
// wraps ErrValidation and its message is safe to show to the user.
func ResolveOptions(req RoastRequest, settings *model.BotSettings) (RoastOptions, error) {
	opts := RoastOptions{
		UserID:    req.UserID,
		GameIndex: req.GameIndex,
		GameID:    strings.TrimSpace(req.GameID),
		Voice:     req.Voice,
		Language:  model.DefaultLanguage,
		Platform:  match.DefaultPlatform,
	}
	if req.UserID == "" {
		return opts, newValidationError("missing user id")
	}

	name, tag := strings.TrimSpace(req.PlayerName), strings.TrimSpace(req.TagLine)
	if n, t, ok := strings.Cut(name, "#"); ok {
		name, tag = strings.TrimSpace(n), strings.TrimSpace(t)
	}
	if name == "" {
		if settings == nil || settings.LeagueName == "" {
			return opts, newValidationError("no player name given and no League account configured on the dashboard")
		}
		name, tag = settings.LeagueName, settings.LeagueTag
	}
	opts.PlayerName, opts.TagLine = name, tag

	if opts.GameIndex == 0 {
		opts.GameIndex = 1
	}
	if opts.GameIndex < 0 {
		return opts, newValidationError("%d? That does not look like a game number", req.GameIndex)
	}
	if opts.GameID != "" {
		if _, err := strconv.ParseUint(opts.GameID, 10, 64); err != nil {
			return opts, newValidationError("%s? That does not look like a game id", opts.GameID)
		}
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

	switch {
	case req.Region != "":
		p, err := match.ParsePlatform(req.Region)
		if err != nil {
			return opts, newValidationError("Region %s is not supported", req.Region)
		}
		opts.Platform = p
	case settings != nil && settings.LeagueRegion != "":
		if p, err := match.ParsePlatform(settings.LeagueRegion); err == nil {
			opts.Platform = p
		}
	}

	if opts.Voice {
		opts.VoiceID = strings.TrimSpace(req.VoiceID)
	}
	return opts, nil
}
