package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"coc_war_stats/internal/app"
)

var townHallPattern = regexp.MustCompile(`^TH(\d+)$`)

// Matchup classifies the defender's town hall relative to the attacker's
type Matchup int

const (
	MatchupEqual Matchup = iota
	MatchupHigher
	MatchupLower
)

func (m Matchup) String() string {
	switch m {
	case MatchupHigher:
		return "higher"
	case MatchupLower:
		return "lower"
	default:
		return "equal"
	}
}

// ParseTownHall extracts the numeric level from a "TH<n>" string.
// No upper bound is enforced so future town halls parse fine.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func ParseTownHall(value string) (int, error) {
	match := townHallPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, fmt.Errorf("%w: town hall %q does not match TH<level>", app.ErrParse, value)
	}

	level, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: town hall %q: %v", app.ErrParse, value, err)
	}
	return level, nil
}

// CompareTownHalls returns whether the defender sits above, level with, or below the attacker
func CompareTownHalls(attackerTH, defenderTH string) (Matchup, error) {
	attacker, err := ParseTownHall(attackerTH)
	if err != nil {
		return MatchupEqual, err
	}
	defender, err := ParseTownHall(defenderTH)
	if err != nil {
		return MatchupEqual, err
	}

	switch {
	case attacker < defender:
		return MatchupHigher, nil
	case attacker > defender:
		return MatchupLower, nil
	default:
		return MatchupEqual, nil
	}
}
