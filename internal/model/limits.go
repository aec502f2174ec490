package model

// Limits holds the per-tier quota thresholds. A zero DailyBasicCap or
// MonthlyBasicCap means the tier has no such cap.
type Limits struct {
	DailyBasicCap           int `json:"MAX_DAILY_BASIC_REQUESTS"`
	MonthlyBasicCap         int `json:"MAX_MONTHLY_BASIC_REQUESTS"`
	MonthlyRichCap          int `json:"MAX_MONTHLY_RICH_REQUESTS"`
	MonthlyElevenLabsChars  int `json:"MAX_MONTHLY_ELEVEN_LABS_CHARACTERS"`
	MonthlyOpenAIVoiceChars int `json:"MAX_MONTHLY_OPENAI_VOICE_CHARACTERS"`
}

// DefaultLimits applies to any tier the limits table does not list.
var DefaultLimits = Limits{
	DailyBasicCap:           10,
	MonthlyRichCap:          5,
	MonthlyElevenLabsChars:  500,
	MonthlyOpenAIVoiceChars: 2400,
}

// QualityTier selects the generation backend.
type QualityTier string

const (
	QualityRich  QualityTier = "rich"
	QualityBasic QualityTier = "basic"
)
