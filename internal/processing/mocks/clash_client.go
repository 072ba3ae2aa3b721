package mocks

import (
	"context"
	"sync"

	"coc_war_stats/internal/app"
)

// MockClashClient is a test double for the backend client
type MockClashClient struct {
	// Responses to return
	MembersResponse    []app.Member
	WarLogResponse     []app.WarLogEntry
	AttacksResponse    []app.AttackRecord
	CurrentWarResponse *app.CurrentWar

	// Errors to return
	MembersError    error
	WarLogError     error
	AttacksError    error
	CurrentWarError error

	// Call tracking
	mutex                sync.Mutex
	GetMembersCalls      int
	GetWarLogCalls       int
	GetAttacksCalls      int
	GetCurrentWarCalls   int
	LastRequestedClanTag string
}

// NewMockClashClient creates a new mock backend client
func NewMockClashClient() *MockClashClient {
	return &MockClashClient{}
}

func (m *MockClashClient) record(calls *int, clanTag string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	*calls++
	m.LastRequestedClanTag = clanTag
}

func (m *MockClashClient) GetMembers(ctx context.Context, clanTag string) ([]app.Member, error) {
	m.record(&m.GetMembersCalls, clanTag)
	return m.MembersResponse, m.MembersError
}

func (m *MockClashClient) GetWarLog(ctx context.Context, clanTag string) ([]app.WarLogEntry, error) {
	m.record(&m.GetWarLogCalls, clanTag)
	return m.WarLogResponse, m.WarLogError
}

func (m *MockClashClient) GetAttacks(ctx context.Context, clanTag string) ([]app.AttackRecord, error) {
	m.record(&m.GetAttacksCalls, clanTag)
	return m.AttacksResponse, m.AttacksError
}

func (m *MockClashClient) GetCurrentWar(ctx context.Context, clanTag string) (*app.CurrentWar, error) {
	m.record(&m.GetCurrentWarCalls, clanTag)
	return m.CurrentWarResponse, m.CurrentWarError
}
