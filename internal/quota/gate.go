// Package quota decides whether a request may proceed and which generation
// backend it gets.
package quota

import "github.com/krzotki/eleven-labs-demo/internal/model"

// Reason is why the gate denied a request. The set is closed.
type Reason string

const (
	ReasonMonthlyCap             Reason = "MONTHLY_CAP"
	ReasonDailyCap               Reason = "DAILY_CAP"
	ReasonMissingVoiceCredential Reason = "MISSING_VOICE_CREDENTIAL"
	ReasonVoiceCap               Reason = "VOICE_CAP"
	ReasonVoicePremiumCap        Reason = "VOICE_PREMIUM_CAP"
	ReasonCustomVoiceConflict    Reason = "CUSTOM_VOICE_CONFLICT"
)

// Reasons lists every denial reason in evaluation order.
var Reasons = []Reason{
	ReasonMonthlyCap,
	ReasonDailyCap,
	ReasonMissingVoiceCredential,
	ReasonVoiceCap,
	ReasonVoicePremiumCap,
	ReasonCustomVoiceConflict,
}

// Input is everything the gate looks at.
type Input struct {
	Limits  model.Limits
	Daily   model.Usage
	Monthly model.Usage

	// VoiceRequested is set for commands that speak the result.
	VoiceRequested bool
	// CustomVoiceMode is set when the account plays through its own ElevenLabs key.
	CustomVoiceMode bool
	// ExplicitVoice is set when the request picked a catalog voice.
	ExplicitVoice bool
	// HasVoiceCredential is set when a usable custom ElevenLabs key is configured.
	HasVoiceCredential bool
}

// Decision is the tagged result of Evaluate.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow is the passing decision.
var Allow = Decision{Allowed: true}

// Deny returns a failing decision for r.
func Deny(r Reason) Decision {
	return Decision{Reason: r}
}

// Predicate denies a request for one reason.
type Predicate struct {
	Reason Reason
	Denies func(Input) bool
}

// Chain is the fixed evaluation order. The first predicate that denies wins.
var Chain = []Predicate{
	{ReasonMonthlyCap, MonthlyCapReached},
	{ReasonDailyCap, DailyCapReached},
	{ReasonMissingVoiceCredential, MissingVoiceCredential},
	{ReasonVoiceCap, VoiceCapReached},
	{ReasonVoicePremiumCap, VoicePremiumCapReached},
	{ReasonCustomVoiceConflict, CustomVoiceConflict},
}

// VoiceChain is the tail of Chain that jokes go through. Jokes are billed
// in voice characters only, so the text caps do not apply.
var VoiceChain = Chain[2:]

// Evaluate runs the chain over in.
func Evaluate(in Input) Decision {
	return evaluate(Chain, in)
}

// EvaluateVoice runs VoiceChain over in.
func EvaluateVoice(in Input) Decision {
	return evaluate(VoiceChain, in)
}

func evaluate(chain []Predicate, in Input) Decision {
	for _, p := range chain {
		if p.Denies(in) {
			return Deny(p.Reason)
		}
	}
	return Allow
}

// SelectQuality picks the rich backend while the monthly rich allowance lasts.
func SelectQuality(l model.Limits, monthly model.Usage) model.QualityTier {
	if monthly.Text < l.MonthlyRichCap {
		return model.QualityRich
	}
	return model.QualityBasic
}

// MonthlyCapReached is skipped for tiers without a monthly basic cap.
func MonthlyCapReached(in Input) bool {
	if in.Limits.MonthlyBasicCap <= 0 {
		return false
	}
	return in.Monthly.Text >= in.Limits.MonthlyBasicCap+in.Limits.MonthlyRichCap
}

// DailyCapReached is skipped for tiers without a daily cap.
func DailyCapReached(in Input) bool {
	if in.Limits.DailyBasicCap <= 0 {
		return false
	}
	return in.Daily.Text >= in.Limits.DailyBasicCap
}

func MissingVoiceCredential(in Input) bool {
	return in.VoiceRequested && in.CustomVoiceMode && !in.HasVoiceCredential
}

func VoiceCapReached(in Input) bool {
	return in.VoiceRequested && !in.CustomVoiceMode &&
		!CanUseCatalogVoice(in) && !CanUseFallbackVoice(in)
}

func VoicePremiumCapReached(in Input) bool {
	return in.VoiceRequested && in.ExplicitVoice && !CanUseCatalogVoice(in)
}

func CustomVoiceConflict(in Input) bool {
	return in.ExplicitVoice && in.CustomVoiceMode
}

// CanUseCatalogVoice reports whether ElevenLabs synthesis is still available.
// Custom-voice accounts pay for their own characters and are never capped.
func CanUseCatalogVoice(in Input) bool {
	return in.CustomVoiceMode || in.Monthly.Voice < in.Limits.MonthlyElevenLabsChars
}

// CanUseFallbackVoice reports whether the OpenAI TTS allowance remains.
func CanUseFallbackVoice(in Input) bool {
	return in.Monthly.Voice < in.Limits.MonthlyElevenLabsChars+in.Limits.MonthlyOpenAIVoiceChars
}
