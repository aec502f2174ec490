package service

import (
	"context"
	"sort"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/repository"
	"github.com/rs/zerolog"
)

// EntitlementService resolves the subscription tier of a chat-platform user.
type EntitlementService interface {
	// Resolve never fails: unregistered users and store errors resolve to FREEMIUM.
	Resolve(ctx context.Context, externalID string) model.SubscriptionPeriod
}

type entitlementService struct {
	repo   repository.SubscriptionRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewEntitlementService creates a new EntitlementService with a scoped logger.
func NewEntitlementService(repo repository.SubscriptionRepository, logger zerolog.Logger) EntitlementService {
	return &entitlementService{
		repo:   repo,
		logger: logger.With().Str("service", "EntitlementService").Logger(),
		now:    time.Now,
	}
}

var freemium = model.SubscriptionPeriod{Type: model.SubscriptionFreemium}

func (s *entitlementService) Resolve(ctx context.Context, externalID string) model.SubscriptionPeriod {
	userID, err := s.repo.GetUserIDByExternalID(ctx, externalID)
	if err != nil {
		s.logger.Error().Err(err).Str("external_id", externalID).Msg("Failed to look up user")
		return freemium
	}
	if userID == "" {
		s.logger.Debug().Str("external_id", externalID).Msg("User not registered")
		return freemium
	}

	sub, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch active subscription")
		return freemium
	}
	if sub != nil && sub.Type.Valid() && !sub.PeriodStart.IsZero() && !sub.PeriodEnd.IsZero() {
		start, end := sub.PeriodStart, sub.PeriodEnd
		return model.SubscriptionPeriod{Type: sub.Type, Start: &start, End: &end}
	}

	purchases, err := s.repo.ListPurchases(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list purchases")
		return freemium
	}
	if p, ok := bestPurchase(purchases, s.now()); ok {
		return purchasePeriod(p)
	}
	return freemium
}

// bestPurchase returns the highest-priority purchase still active at now.
// Equal priorities keep their original order.
func bestPurchase(purchases []model.Purchase, now time.Time) (model.Purchase, bool) {
	sorted := append([]model.Purchase(nil), purchases...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority > sorted[j].Priority })
	for _, p := range sorted {
		if p.Type.Valid() && p.ActiveAt(now) {
			return p, true
		}
	}
	return model.Purchase{}, false
}

// purchasePeriod spans from the purchase to its expiry. Purchases that never
// expire have no explicit window.
func purchasePeriod(p model.Purchase) model.SubscriptionPeriod {
	exp, ok := p.ExpiresAt()
	if !ok {
		return model.SubscriptionPeriod{Type: p.Type}
	}
	start := p.CreatedAt
	return model.SubscriptionPeriod{Type: p.Type, Start: &start, End: &exp}
}
