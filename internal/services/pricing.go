package services

import (
	"strings"

	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/models"
)

// Client polling cadence for video jobs: five seconds for up to ten minutes.
const (
	PollIntervalSeconds = 5
	MaxPollAttempts     = 120
)

var pricingTiers = []models.PricingTier{
	{ID: "1photo", Name: "Starter", Photos: 1, PriceCents: 299, Price: "$2.99"},
	{ID: "3photos", Name: "Popular", Photos: 3, PriceCents: 399, Price: "$3.99", SavingsNote: "Save 33%!"},
	{ID: "5photos", Name: "Pro", Photos: 5, PriceCents: 499, Price: "$4.99", SavingsNote: "Save 44%!"},
}

// PricingTiers returns a copy of the plans offered before generation.
func PricingTiers() []models.PricingTier {
	tiers := make([]models.PricingTier, len(pricingTiers))
	copy(tiers, pricingTiers)
	return tiers
}

// ConfirmPlan validates the selected tier. No payment is taken.
func ConfirmPlan(req models.ConfirmPlanRequest) (*models.ConfirmPlanResponse, error) {
	id := strings.TrimSpace(req.Tier)
	if id == "" {
		return nil, apperr.Validation("Tier is required")
	}

	for _, tier := range pricingTiers {
		if tier.ID == id {
			return &models.ConfirmPlanResponse{
				Success: true,
				Tier:    tier,
				Charged: false,
				Message: "Plan selected. Payment is not enabled yet, generation can proceed.",
			}, nil
		}
	}
	return nil, apperr.Validation("Unknown pricing tier %q", id)
}
