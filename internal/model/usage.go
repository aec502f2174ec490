package model

import "time"

// UsageRecord is one row of the usage ledger. A new record is opened for every
// day a user is active; records are never deleted.
type UsageRecord struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"discord_id" json:"user_id"`
	CycleStart time.Time `db:"cycle_start" json:"cycle_start"`
	CycleEnd   time.Time `db:"cycle_end" json:"cycle_end"`
	TextCount  int       `db:"usage" json:"text_count"`
	VoiceChars int       `db:"voice_usage_characters" json:"voice_chars"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Usage is a pair of counters: generated texts and synthesized voice characters.
type Usage struct {
	Text  int `json:"text"`
	Voice int `json:"voice"`
}

// Add returns the element-wise sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{Text: u.Text + o.Text, Voice: u.Voice + o.Voice}
}

// UsageSnapshot is what the ledger reports for a user at a point in time.
type UsageSnapshot struct {
	Daily    Usage  `json:"daily"`
	Monthly  Usage  `json:"monthly"`
	RecordID string `json:"record_id"`
}
