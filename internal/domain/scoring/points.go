package scoring

import (
	"fmt"

	"coc_war_stats/internal/app"
)

// Town hall mismatch adjustments applied to the star base score
const (
	PunchingDownPenalty   = 0.5
	PunchingUpTripleBonus = 0.5
	PunchingUpBonus       = 0.25
)

// ComputePoints scores one attack. The base is the star count, adjusted for
// town hall mismatch, then divided by how often the army was used in the
// record set under consideration so that leaning on one army dilutes its value.
// The result is not rounded.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func ComputePoints(stars int, attackerTH, defenderTH string, uses int) (float64, error) {
	matchup, err := CompareTownHalls(attackerTH, defenderTH)
	if err != nil {
		return 0, err
	}

	if stars < 1 || stars > 3 {
		return 0, fmt.Errorf("%w: stars must be between 1 and 3, got %d", app.ErrInvalidArgument, stars)
	}
	if uses < 1 {
		return 0, fmt.Errorf("%w: army usage count must be at least 1, got %d", app.ErrInvalidArgument, uses)
	}

	score := float64(stars)
	switch matchup {
	case MatchupLower:
		score -= PunchingDownPenalty
	case MatchupHigher:
		if stars == 3 {
			score += PunchingUpTripleBonus
		} else {
			score += PunchingUpBonus
		}
	}

	return score / float64(uses), nil
}
