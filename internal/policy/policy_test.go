package policy

import (
	"errors"
	"testing"

	"StockCast/internal/domain/models"
)

func req(tier models.Tier, model models.ModelID, horizon int) *models.ForecastRequest {
	return &models.ForecastRequest{
		UserID:         "u1",
		Symbol:         "ACME",
		Model:          model,
		Horizon:        horizon,
		TrainingWindow: 100,
		Tier:           tier,
	}
}

func TestAuthorize_ModelMatrix(t *testing.T) {
	allowed := map[models.Tier]map[models.ModelID]bool{
		models.TierFree: {models.ModelLinear: true},
		models.TierBasic: {
			models.ModelLinear: true, models.ModelRandomForest: true,
		},
		models.TierPro: {
			models.ModelLinear: true, models.ModelRandomForest: true,
			models.ModelKNearest: true, models.ModelExtraTrees: true,
		},
		models.TierEnterprise: {
			models.ModelLinear: true, models.ModelRandomForest: true,
			models.ModelKNearest: true, models.ModelExtraTrees: true,
			models.ModelBoostedTrees: true,
		},
	}

	for tier, set := range allowed {
		for _, model := range models.AllModels() {
			err := Authorize(req(tier, model, 1))
			if set[model] && err != nil {
				t.Errorf("tier=%s model=%s: unexpected rejection: %v", tier, model, err)
			}
			if !set[model] {
				var pv *models.PolicyViolation
				if !errors.As(err, &pv) {
					t.Errorf("tier=%s model=%s: expected PolicyViolation, got %v", tier, model, err)
					continue
				}
				if pv.Reason != models.ReasonModelNotPermitted {
					t.Errorf("tier=%s model=%s: reason=%s", tier, model, pv.Reason)
				}
			}
		}
	}
}

func TestAuthorize_HorizonBoundaries(t *testing.T) {
	cases := []struct {
		tier models.Tier
		max  int
	}{
		{models.TierFree, 7},
		{models.TierBasic, 14},
		{models.TierPro, 30},
		{models.TierEnterprise, 60},
	}

	for _, tc := range cases {
		t.Run(string(tc.tier), func(t *testing.T) {
			if MaxHorizon(tc.tier) != tc.max {
				t.Fatalf("MaxHorizon(%s)=%d, want %d", tc.tier, MaxHorizon(tc.tier), tc.max)
			}
			if err := Authorize(req(tc.tier, models.ModelLinear, tc.max)); err != nil {
				t.Errorf("horizon == max should be accepted: %v", err)
			}
			err := Authorize(req(tc.tier, models.ModelLinear, tc.max+1))
			var pv *models.PolicyViolation
			if !errors.As(err, &pv) || pv.Reason != models.ReasonHorizonExceedsTier {
				t.Errorf("horizon == max+1 should reject with horizon reason, got %v", err)
			}
		})
	}
}

func TestLimits_UnknownTierDefaultsToFree(t *testing.T) {
	got := Limits(models.Tier("platinum"))
	free := Limits(models.TierFree)
	if got.MaxHorizon != free.MaxHorizon || len(got.Models) != len(free.Models) {
		t.Fatalf("unknown tier should resolve to free limits, got %+v", got)
	}

	// An unknown tier must not be granted anything beyond free.
	err := Authorize(req(models.Tier("platinum"), models.ModelBoostedTrees, 5))
	if !models.IsPolicyViolation(err) {
		t.Fatalf("unknown tier should be rejected for non-free model, got %v", err)
	}
}

func TestTierOrdering_StrictSupersets(t *testing.T) {
	order := []models.Tier{models.TierFree, models.TierBasic, models.TierPro, models.TierEnterprise}
	for i := 1; i < len(order); i++ {
		lower, higher := Limits(order[i-1]), Limits(order[i])
		if higher.MaxHorizon <= lower.MaxHorizon {
			t.Errorf("%s horizon should exceed %s", order[i], order[i-1])
		}
		if higher.RequestsPerDay <= lower.RequestsPerDay {
			t.Errorf("%s quota should exceed %s", order[i], order[i-1])
		}
		for _, m := range lower.Models {
			found := false
			for _, hm := range higher.Models {
				if m == hm {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s should include all models of %s, missing %s", order[i], order[i-1], m)
			}
		}
	}
}
