package attack

import (
	"cmp"
	"slices"
	"time"

	"coc_war_stats/internal/app"
	"coc_war_stats/internal/domain/scoring"

	"github.com/samber/lo"
)

type armyTotals struct {
	summary       app.ArmySummary
	percentageSum float64
	counted       int
	players       []string
}

// AggregateByArmy summarizes performance per army composition over the records
// inside [windowStart, windowEnd]. Points for each attack are divided by the
// army's usage count within that window. The result is sorted by total points
// descending and carries tier labels.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func AggregateByArmy(records []app.AttackRecord, windowStart, windowEnd time.Time) ([]app.ArmySummary, error) {
	filtered := FilterByTimeWindow(records, windowStart, windowEnd)
	usage := CountArmyUsage(filtered)

	var order []string
	groups := make(map[string]*armyTotals)

	for _, record := range filtered {
		matchup, err := scoring.CompareTownHalls(record.MemberThLevel, record.ThRival)
		if err != nil {
			return nil, err
		}
		points, err := scoring.ComputePoints(record.Stars, record.MemberThLevel, record.ThRival, usage[record.Attack])
		if err != nil {
			return nil, err
		}

		group, exists := groups[record.Attack]
		if !exists {
			group = &armyTotals{summary: app.ArmySummary{AttackName: record.Attack}}
			groups[record.Attack] = group
			order = append(order, record.Attack)
		}

		switch record.Stars {
		case 1:
			group.summary.OneStar++
		case 2:
			group.summary.TwoStars++
		case 3:
			group.summary.ThreeStars++
		}

		switch matchup {
		case scoring.MatchupHigher:
			group.summary.UsedAgainstHigherTH++
		case scoring.MatchupLower:
			group.summary.UsedAgainstLowerTH++
		default:
			group.summary.UsedAgainstEqualTH++
		}

		group.summary.TotalPoints += points
		group.percentageSum += record.Percentage
		group.counted++
		group.players = append(group.players, record.Member)
	}

	summaries := make([]app.ArmySummary, 0, len(order))
	for _, name := range order {
		group := groups[name]
		summary := group.summary
		summary.UsageCount = usage[name]
		if group.counted > 0 {
			summary.AveragePercentage = RoundTo(group.percentageSum/float64(group.counted), 2)
		}
		summary.Players = lo.Uniq(group.players)
		summaries = append(summaries, summary)
	}

	slices.SortStableFunc(summaries, compareArmyPoints)
	return ClassifyArmyTiers(summaries), nil
}

func compareArmyPoints(a, b app.ArmySummary) int {
	return cmp.Compare(b.TotalPoints, a.TotalPoints)
}
