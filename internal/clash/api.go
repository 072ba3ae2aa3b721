package clash

import (
	"context"

	"coc_war_stats/internal/app"
)

// ClashAPI defines the interface for reading clan data from the stats backend
// This separates infrastructure concerns from business logic
type ClashAPI interface {
	// Core API endpoints
	GetMembers(ctx context.Context, clanTag string) ([]app.Member, error)
	GetWarLog(ctx context.Context, clanTag string) ([]app.WarLogEntry, error)
	GetAttacks(ctx context.Context, clanTag string) ([]app.AttackRecord, error)
	GetCurrentWar(ctx context.Context, clanTag string) (*app.CurrentWar, error)

	// API call tracking
	GetAPICallCount() int64
	IncrementAPICall()
	ResetAPICallCount()
}
