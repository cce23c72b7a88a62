// Package policy holds the static subscription tier table and the request
// authorization check. The table is read-only after process start.
package policy

import (
	"StockCast/internal/domain/models"
)

// TierLimits describes what one subscription tier may request.
type TierLimits struct {
	Models          []models.ModelID
	MaxHorizon      int
	RequestsPerDay  int
}

var tierTable = map[models.Tier]TierLimits{
	models.TierFree: {
		Models:         []models.ModelID{models.ModelLinear},
		MaxHorizon:     7,
		RequestsPerDay: 5,
	},
	models.TierBasic: {
		Models:         []models.ModelID{models.ModelLinear, models.ModelRandomForest},
		MaxHorizon:     14,
		RequestsPerDay: 20,
	},
	models.TierPro: {
		Models: []models.ModelID{
			models.ModelLinear, models.ModelRandomForest,
			models.ModelKNearest, models.ModelExtraTrees,
		},
		MaxHorizon:     30,
		RequestsPerDay: 50,
	},
	models.TierEnterprise: {
		Models: []models.ModelID{
			models.ModelLinear, models.ModelRandomForest,
			models.ModelKNearest, models.ModelExtraTrees, models.ModelBoostedTrees,
		},
		MaxHorizon:     60,
		RequestsPerDay: 200,
	},
}

// Limits returns the limits for a tier. A corrupted or legacy tier value must
// never grant elevated access, so unknown tiers resolve to the free policy.
func Limits(tier models.Tier) TierLimits {
	if l, ok := tierTable[tier]; ok {
		return l
	}
	return tierTable[models.TierFree]
}

// AllowedModels returns the model identifiers a tier may use.
func AllowedModels(tier models.Tier) []models.ModelID {
	return Limits(tier).Models
}

// MaxHorizon returns the largest forecast horizon a tier may request.
func MaxHorizon(tier models.Tier) int {
	return Limits(tier).MaxHorizon
}

// Authorize validates a request against its tier's policy. A violation is a
// terminal rejection for the request; there is no downgrade-and-retry.
func Authorize(req *models.ForecastRequest) error {
	limits := Limits(req.Tier)

	allowed := false
	for _, m := range limits.Models {
		if m == req.Model {
			allowed = true
			break
		}
	}
	if !allowed {
		return models.NewPolicyViolation(models.ReasonModelNotPermitted,
			"model %s is not available on the %s tier", req.Model, req.Tier)
	}

	if req.Horizon > limits.MaxHorizon {
		return models.NewPolicyViolation(models.ReasonHorizonExceedsTier,
			"maximum forecast horizon for the %s tier is %d days", req.Tier, limits.MaxHorizon)
	}

	return nil
}
