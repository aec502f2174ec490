package service

import (
	"fmt"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/quota"
)

// Reply texts. Localised copies live with the chat integrations; these are
// the fallbacks returned by the API.
const (
	msgBusy          = "Hold on, I am still working on your previous request."
	msgGenericError  = "Something went wrong, try again in a moment."
	msgPremiumVoice  = "This voice is available for subscribers only. Check the plans at %s"
	msgUnknownVoice  = "I do not know this voice."
	msgPlayerMissing = "Could not find player %s."
	msgMatchMissing  = "Could not find this match."
	msgHelpHint      = "Having trouble using bot? Get help at %s"
)

// DenialMessage renders the reply for a quota denial.
func DenialMessage(r quota.Reason, l model.Limits, dashboardURL string) string {
	switch r {
	case quota.ReasonMonthlyCap:
		return fmt.Sprintf("You have used all %d requests for this month. Upgrade at %s", l.MonthlyBasicCap+l.MonthlyRichCap, dashboardURL)
	case quota.ReasonDailyCap:
		return fmt.Sprintf("You have used all %d requests for today. Come back tomorrow or upgrade at %s", l.DailyBasicCap, dashboardURL)
	case quota.ReasonMissingVoiceCredential:
		return fmt.Sprintf("Custom voices are enabled but no ElevenLabs API key is set. Add it at %s", dashboardURL)
	case quota.ReasonVoiceCap:
		return fmt.Sprintf("You have used your voice allowance for this month. Upgrade at %s", dashboardURL)
	case quota.ReasonVoicePremiumCap:
		return fmt.Sprintf("You have used your premium voice allowance for this month. Try again without picking a voice or upgrade at %s", dashboardURL)
	case quota.ReasonCustomVoiceConflict:
		return fmt.Sprintf("Custom voices are enabled on your account, so catalog voices cannot be picked. Change it at %s", dashboardURL)
	default:
		return msgGenericError
	}
}
