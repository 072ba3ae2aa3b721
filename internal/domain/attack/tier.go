package attack

import (
	"slices"

	"coc_war_stats/internal/app"
)

// Tier sizes at the top and bottom of the army ranking
const (
	BestTierSize  = 3
	WorstTierSize = 3
)

// TierForRank labels the army at rank (0 = most points) among total armies.
// Best wins over worst when the ranking is too short for both.
func TierForRank(rank, total int) app.ArmyTier {
	switch {
	case rank < BestTierSize:
		return app.TierBest
	case rank >= total-WorstTierSize:
		return app.TierWorst
	case rank == total-WorstTierSize-1:
		return app.TierBorderline
	default:
		return app.TierAverage
	}
}

// ClassifyArmyTiers ranks armies by total points and assigns each a tier.
// Tiers are relative to the given set, so they are recomputed on every call.
// Pure function: Does not modify input slice, returns new sorted slice
func ClassifyArmyTiers(summaries []app.ArmySummary) []app.ArmySummary {
	ranked := slices.Clone(summaries)
	if ranked == nil {
		ranked = []app.ArmySummary{}
	}
	slices.SortStableFunc(ranked, compareArmyPoints)

	for rank := range ranked {
		ranked[rank].Tier = TierForRank(rank, len(ranked))
	}
	return ranked
}
