package attack

import (
	"cmp"
	"slices"
	"strings"

	"coc_war_stats/internal/app"
	"coc_war_stats/internal/domain/scoring"

	"github.com/samber/lo"
)

type playerTotals struct {
	stars      int
	percentage float64
	points     float64
	attacks    int
	armies     []string
}

// AggregateByPlayer summarizes attack performance per member. Each attack is
// scored against how often its army appears across all of records, so pass the
// record set the usage should be measured over (typically the report window).
// Results are ordered by points, then stars, then average percentage, all
// descending; ties keep the order members first appeared in.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func AggregateByPlayer(records []app.AttackRecord) ([]app.PlayerSummary, error) {
	usage := CountArmyUsage(records)

	var order []string
	totals := make(map[string]*playerTotals)

	for _, record := range records {
		points, err := scoring.ComputePoints(record.Stars, record.MemberThLevel, record.ThRival, usage[record.Attack])
		if err != nil {
			return nil, err
		}

		player, exists := totals[record.Member]
		if !exists {
			player = &playerTotals{}
			totals[record.Member] = player
			order = append(order, record.Member)
		}

		player.stars += record.Stars
		player.percentage += record.Percentage
		player.points += points
		player.attacks++
		player.armies = append(player.armies, record.Attack)
	}

	summaries := make([]app.PlayerSummary, 0, len(order))
	for _, member := range order {
		player := totals[member]
		summaries = append(summaries, app.PlayerSummary{
			Member:            member,
			TotalStars:        player.stars,
			AveragePercentage: player.percentage / float64(player.attacks),
			TotalPoints:       player.points,
			ArmyUsed:          strings.Join(lo.Uniq(player.armies), ", "),
			Attacks:           player.attacks,
		})
	}

	slices.SortStableFunc(summaries, comparePlayerSummaries)
	return summaries, nil
}

func comparePlayerSummaries(a, b app.PlayerSummary) int {
	if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
		return c
	}
	if c := cmp.Compare(b.TotalStars, a.TotalStars); c != 0 {
		return c
	}
	return cmp.Compare(b.AveragePercentage, a.AveragePercentage)
}
