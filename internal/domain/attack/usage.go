package attack

import (
	"math"

	"coc_war_stats/internal/app"
)

// CountArmyUsage builds the frequency table of army labels over every record given.
// Scores are divided by these counts, so callers decide the record set by what they pass in.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func CountArmyUsage(records []app.AttackRecord) map[string]int {
	usage := make(map[string]int)
	for _, record := range records {
		usage[record.Attack]++
	}
	return usage
}

// RoundTo rounds f to the given number of decimal places
func RoundTo(f float64, places int) float64 {
	pow := math.Pow10(places)
	return math.Round(f*pow) / pow
}
