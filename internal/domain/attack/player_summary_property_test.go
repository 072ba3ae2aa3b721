package attack

import (
	"fmt"
	"reflect"
	"slices"
	"testing"
	"time"

	"coc_war_stats/internal/app"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestAggregationProperties uses property-based testing to verify aggregation invariants
func TestAggregationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: aggregating twice yields the same result and leaves the input untouched
	properties.Property("player aggregation is pure", prop.ForAll(
		func(records []app.AttackRecord) bool {
			snapshot := slices.Clone(records)
			first, err := AggregateByPlayer(records)
			if err != nil {
				return false
			}
			second, err := AggregateByPlayer(records)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(first, second) && reflect.DeepEqual(records, snapshot)
		},
		gen.SliceOf(genAttackRecord()),
	))

	// Property: members with identical results keep their first-seen order
	properties.Property("ties follow first occurrence", prop.ForAll(
		func(count int) bool {
			records := make([]app.AttackRecord, count)
			for i := range records {
				records[i] = record(fmt.Sprintf("member-%02d", i), "Hydra", 50, 2, "TH10", "TH10")
			}
			summaries, err := AggregateByPlayer(records)
			if err != nil || len(summaries) != count {
				return false
			}
			for i, summary := range summaries {
				if summary.Member != records[i].Member {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 40),
	))

	// Property: stars and attacks are conserved across player summaries
	properties.Property("player totals conserved", prop.ForAll(
		func(records []app.AttackRecord) bool {
			summaries, err := AggregateByPlayer(records)
			if err != nil {
				return false
			}
			stars, attacks := 0, 0
			for _, s := range summaries {
				stars += s.TotalStars
				attacks += s.Attacks
			}
			expectedStars := 0
			for _, r := range records {
				expectedStars += r.Stars
			}
			return stars == expectedStars && attacks == len(records)
		},
		gen.SliceOf(genAttackRecord()),
	))

	// Property: player summaries are ordered by points descending
	properties.Property("players sorted by points", prop.ForAll(
		func(records []app.AttackRecord) bool {
			summaries, err := AggregateByPlayer(records)
			if err != nil {
				return false
			}
			for i := 1; i < len(summaries); i++ {
				if summaries[i].TotalPoints > summaries[i-1].TotalPoints {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genAttackRecord()),
	))

	// Property: army usage counts add up to the number of records inside the window
	properties.Property("army usage matches window", prop.ForAll(
		func(records []app.AttackRecord, offsetDays int) bool {
			start := windowBase.AddDate(0, 0, offsetDays)
			summaries, err := AggregateByArmy(records, start, time.Time{})
			if err != nil {
				return false
			}
			total := 0
			for _, s := range summaries {
				total += s.UsageCount
				if s.OneStar+s.TwoStars+s.ThreeStars != s.UsageCount {
					return false
				}
			}
			return total == len(FilterByTimeWindow(records, start, time.Time{}))
		},
		gen.SliceOf(genAttackRecord()),
		gen.IntRange(0, 60),
	))

	properties.TestingRun(t)
}

var windowBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// genAttackRecord generates valid attack records spread over roughly two months
func genAttackRecord() gopter.Gen {
	return gen.Struct(reflect.TypeOf(app.AttackRecord{}), map[string]gopter.Gen{
		"Member":        gen.OneConstOf("Alice", "Bob", "Carol", "Dave", "Eve"),
		"Attack":        gen.OneConstOf("Hydra", "Lalo", "Queen Charge", "Zap Dragons"),
		"Percentage":    gen.Float64Range(0, 100),
		"Stars":         gen.IntRange(1, 3),
		"MemberThLevel": genTownHall(),
		"ThRival":       genTownHall(),
		"Timestamp": gen.Int64Range(0, 60*24*3600).Map(func(offset int64) app.Timestamp {
			return app.NewTimestamp(windowBase.Add(time.Duration(offset) * time.Second))
		}),
	})
}

func genTownHall() gopter.Gen {
	return gen.IntRange(8, 17).Map(func(level int) string {
		return fmt.Sprintf("TH%d", level)
	})
}
