package model

import "time"

// MatchStats is the fixed contract handed to the content generator. It is a
// pure function of one match's participant set.
type MatchStats struct {
	Name                 string `json:"name"`
	Champion             string `json:"champion"`
	Damage               int64  `json:"damage"`
	GameType             string `json:"gameType"`
	KDA                  string `json:"kda"`
	Position             string `json:"position"`
	Win                  bool   `json:"win"`
	HighDamage           bool   `json:"highDamage"`
	LowDamage            bool   `json:"lowDamage"`
	HighMitigatedDamage  bool   `json:"highMitigatedDamage"`
	HighVisionScore      bool   `json:"highVisionScore"`
	LowVisionScore       bool   `json:"lowVisionScore"`
	HighObjectivesDamage bool   `json:"highObjectivesDamage"`
	HighGold             bool   `json:"highGold"`
	BestTeammate         string `json:"bestTeammate"`
}

// GenerationVariables records what a message was generated from.
type GenerationVariables struct {
	Model         QualityTier       `json:"model"`
	Stats         MatchStats        `json:"leagueStats"`
	CustomInsults []string          `json:"customInsults"`
	Aliases       map[string]string `json:"aliases"`
	VoiceName     string            `json:"voiceName,omitempty"`
}

// GeneratedMessage is an entry of the generated-content audit log.
type GeneratedMessage struct {
	ID        string              `db:"id" json:"id"`
	UserID    string              `db:"discord_id" json:"discord_id"`
	Language  string              `db:"language" json:"language"`
	Message   string              `db:"message" json:"message"`
	Type      SubscriptionType    `db:"sub_type" json:"sub_type"`
	Variables GenerationVariables `db:"variables" json:"variables"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
}
