package roster

import "coc_war_stats/internal/app"

// CountAttacksByMember tallies attacks per member name
func CountAttacksByMember(attacks []app.AttackRecord) map[string]int {
	counts := make(map[string]int)
	for _, attack := range attacks {
		counts[attack.Member]++
	}
	return counts
}

// FindMembersWithoutEnoughAttacks lists roster members who made fewer than
// required attacks in attacksForThisWar, in roster order. Attackers missing
// from the roster are ignored and a required count of zero or less reports nobody.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func FindMembersWithoutEnoughAttacks(roster []app.Member, attacksForThisWar []app.AttackRecord, required int) []app.MissingAttacks {
	counts := CountAttacksByMember(attacksForThisWar)

	missing := make([]app.MissingAttacks, 0)
	for _, member := range roster {
		made := counts[member.Name]
		if gap := required - made; gap > 0 {
			missing = append(missing, app.MissingAttacks{
				Tag:            member.Tag,
				Name:           member.Name,
				AttacksMade:    made,
				AttacksMissing: gap,
			})
		}
	}
	return missing
}
