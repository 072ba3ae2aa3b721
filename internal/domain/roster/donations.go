package roster

import (
	"cmp"
	"slices"

	"coc_war_stats/internal/app"
	"coc_war_stats/internal/domain/attack"

	"github.com/samber/lo"
)

// DonationRatio is donations given per troop received, rounded to two decimals.
// Members who received nothing are measured against one.
func DonationRatio(member app.Member) float64 {
	return attack.RoundTo(float64(member.Donations)/float64(max(1, member.DonationsReceived)), 2)
}

// RankDonations orders the roster by donations given, then by ratio, both descending
// Pure function: No I/O, returns new slice without modifying input
func RankDonations(roster []app.Member) []app.DonationSummary {
	ranked := lo.Map(roster, func(member app.Member, _ int) app.DonationSummary {
		return app.DonationSummary{
			Name:              member.Name,
			Donations:         member.Donations,
			DonationsReceived: member.DonationsReceived,
			Ratio:             DonationRatio(member),
		}
	})

	slices.SortStableFunc(ranked, func(a, b app.DonationSummary) int {
		if c := cmp.Compare(b.Donations, a.Donations); c != 0 {
			return c
		}
		return cmp.Compare(b.Ratio, a.Ratio)
	})
	return ranked
}
