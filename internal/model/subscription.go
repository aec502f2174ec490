package model

import "time"

// SubscriptionType is the tier a user is entitled to.
type SubscriptionType string

const (
	SubscriptionFreemium       SubscriptionType = "FREEMIUM"
	SubscriptionDiscordLite    SubscriptionType = "DISCORD_LITE"
	SubscriptionDiscordRegular SubscriptionType = "DISCORD_REGULAR"
	SubscriptionDiscordPremium SubscriptionType = "DISCORD_PREMIUM"
	SubscriptionDiscordVoice   SubscriptionType = "DISCORD_VOICE"
	SubscriptionTwitch         SubscriptionType = "TWITCH"
)

// Valid reports whether t is one of the known tiers.
func (t SubscriptionType) Valid() bool {
	switch t {
	case SubscriptionFreemium, SubscriptionDiscordLite, SubscriptionDiscordRegular,
		SubscriptionDiscordPremium, SubscriptionDiscordVoice, SubscriptionTwitch:
		return true
	}
	return false
}

// SubscriptionPeriod is the resolved entitlement for a user. Start and End are
// nil when the tier uses the rolling default window.
type SubscriptionPeriod struct {
	Type  SubscriptionType `json:"type"`
	Start *time.Time       `json:"start,omitempty"`
	End   *time.Time       `json:"end,omitempty"`
}

// HasWindow reports whether the period carries explicit billing bounds.
func (p SubscriptionPeriod) HasWindow() bool {
	return p.Start != nil && p.End != nil
}

// ExternalSubscription is a recurring subscription managed by the payment provider.
type ExternalSubscription struct {
	UserID      string           `db:"user_id" json:"user_id"`
	Type        SubscriptionType `db:"sub_type" json:"type"`
	Status      string           `db:"status" json:"status"`
	PeriodStart time.Time        `db:"current_period_start" json:"period_start"`
	PeriodEnd   time.Time        `db:"current_period_end" json:"period_end"`
}

// PurchaseDuration is how long a one-time purchase stays valid.
type PurchaseDuration string

const (
	// DurationMonth purchases expire 30 days after they were bought.
	DurationMonth PurchaseDuration = "MONTH"
	// DurationNone purchases never expire.
	DurationNone PurchaseDuration = "NONE"
)

// Month is the length of a billing month.
const Month = 30 * 24 * time.Hour

// Length returns the validity window of the duration. Zero means no expiry.
func (d PurchaseDuration) Length() time.Duration {
	if d == DurationMonth {
		return Month
	}
	return 0
}

// Purchase is a one-time product bought by a user.
type Purchase struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Type      SubscriptionType `db:"sub_type" json:"type"`
	Priority  int              `db:"sort" json:"priority"`
	Duration  PurchaseDuration `db:"sub_duration" json:"duration"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// ExpiresAt returns the expiry instant and false when the purchase never expires.
func (p Purchase) ExpiresAt() (time.Time, bool) {
	l := p.Duration.Length()
	if l == 0 {
		return time.Time{}, false
	}
	return p.CreatedAt.Add(l), true
}

// ActiveAt reports whether the purchase is still valid at now.
func (p Purchase) ActiveAt(now time.Time) bool {
	exp, ok := p.ExpiresAt()
	if !ok {
		return true
	}
	return !now.After(exp)
}
