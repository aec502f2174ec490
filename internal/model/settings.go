package model

// Alias maps an in-game name to the name the bot should say instead.
type Alias struct {
	Summoner string `json:"summoner"`
	RealName string `json:"realName"`
}

// BotSettings are the per-user preferences edited on the dashboard.
type BotSettings struct {
	UserID                 string   `db:"user_id" json:"user_id"`
	Language               string   `db:"language" json:"language,omitempty"`
	LeagueRegion           string   `db:"league_region" json:"league_region,omitempty"`
	LeagueName             string   `db:"league_name" json:"league_name,omitempty"`
	LeagueTag              string   `db:"league_tag" json:"league_tag,omitempty"`
	Aliases                []Alias  `db:"league_aliases" json:"league_aliases,omitempty"`
	CustomInsults          []string `db:"custom_slurs" json:"custom_slurs,omitempty"`
	EncryptedElevenLabsKey string   `db:"encrypted_eleven_labs_api_key" json:"-"`
	ElevenLabsVoiceID      string   `db:"eleven_labs_voice_id" json:"eleven_labs_voice_id,omitempty"`
	UsingElevenLabsDefault *bool    `db:"using_eleven_labs_default" json:"using_eleven_labs_default,omitempty"`
}

// CustomVoiceMode reports whether the user plays voice lines through their own
// ElevenLabs account instead of the bot's catalog voices. Unset means catalog.
func (s *BotSettings) CustomVoiceMode() bool {
	if s == nil || s.UsingElevenLabsDefault == nil {
		return false
	}
	return !*s.UsingElevenLabsDefault
}

// AliasMap returns the alias list keyed by in-game name.
func (s *BotSettings) AliasMap() map[string]string {
	m := make(map[string]string)
	if s == nil {
		return m
	}
	for _, a := range s.Aliases {
		m[a.Summoner] = a.RealName
	}
	return m
}
