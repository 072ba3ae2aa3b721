package processing

import (
	"context"
	"time"

	"coc_war_stats/internal/app"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// APICacheConfig configures caching behavior
type APICacheConfig struct {
	// MembersTTL is how long to cache the clan roster
	MembersTTL time.Duration
	// CurrentWarTTL is how long to cache the current war state
	CurrentWarTTL time.Duration
	// CleanupInterval is how often expired entries are purged
	CleanupInterval time.Duration
}

// DefaultAPICacheConfig returns sensible cache defaults
func DefaultAPICacheConfig() APICacheConfig {
	return APICacheConfig{
		MembersTTL:      5 * time.Minute,
		CurrentWarTTL:   time.Minute,
		CleanupInterval: 10 * time.Minute,
	}
}

// CachedClashClient wraps a backend client and caches the roster and current war.
// The attack log and war log always go to the backend since they grow every war.
type CachedClashClient struct {
	client  ClashClientInterface
	config  APICacheConfig
	tracker *APICallTracker
	cache   *cache.Cache
}

// NewCachedClashClient creates a caching wrapper with default TTLs
func NewCachedClashClient(client ClashClientInterface, tracker *APICallTracker) *CachedClashClient {
	return NewCachedClashClientWithConfig(client, tracker, DefaultAPICacheConfig())
}

// NewCachedClashClientWithConfig creates a caching wrapper with explicit TTLs
func NewCachedClashClientWithConfig(client ClashClientInterface, tracker *APICallTracker, config APICacheConfig) *CachedClashClient {
	return &CachedClashClient{
		client:  client,
		config:  config,
		tracker: tracker,
		cache:   cache.New(config.MembersTTL, config.CleanupInterval),
	}
}

func membersKey(clanTag string) string    { return "members:" + clanTag }
func currentWarKey(clanTag string) string { return "currentwar:" + clanTag }

// GetMembers returns the cached roster or fetches a fresh one
func (c *CachedClashClient) GetMembers(ctx context.Context, clanTag string) ([]app.Member, error) {
	if cached, found := c.cache.Get(membersKey(clanTag)); found {
		c.tracker.RecordCacheHit()
		log.Debug().
			Str("clan_tag", clanTag).
			Dur("cache_ttl", c.config.MembersTTL).
			Msg("Using cached clan members (API call saved)")
		return cached.([]app.Member), nil
	}

	members, err := c.client.GetMembers(ctx, clanTag)
	if err != nil {
		return nil, err
	}

	c.tracker.RecordCall("GetMembers")
	c.cache.Set(membersKey(clanTag), members, c.config.MembersTTL)
	return members, nil
}

// GetCurrentWar returns the cached current war or fetches it
func (c *CachedClashClient) GetCurrentWar(ctx context.Context, clanTag string) (*app.CurrentWar, error) {
	if cached, found := c.cache.Get(currentWarKey(clanTag)); found {
		c.tracker.RecordCacheHit()
		log.Debug().
			Str("clan_tag", clanTag).
			Dur("cache_ttl", c.config.CurrentWarTTL).
			Msg("Using cached current war (API call saved)")
		return cached.(*app.CurrentWar), nil
	}

	war, err := c.client.GetCurrentWar(ctx, clanTag)
	if err != nil {
		return nil, err
	}

	c.tracker.RecordCall("GetCurrentWar")
	c.cache.Set(currentWarKey(clanTag), war, c.config.CurrentWarTTL)
	return war, nil
}

// GetWarLog always fetches from the backend
func (c *CachedClashClient) GetWarLog(ctx context.Context, clanTag string) ([]app.WarLogEntry, error) {
	entries, err := c.client.GetWarLog(ctx, clanTag)
	if err != nil {
		return nil, err
	}
	c.tracker.RecordCall("GetWarLog")
	return entries, nil
}

// GetAttacks always fetches from the backend
func (c *CachedClashClient) GetAttacks(ctx context.Context, clanTag string) ([]app.AttackRecord, error) {
	attacks, err := c.client.GetAttacks(ctx, clanTag)
	if err != nil {
		return nil, err
	}
	c.tracker.RecordCall("GetAttacks")
	return attacks, nil
}

// Invalidate drops every cached entry for a clan
func (c *CachedClashClient) Invalidate(clanTag string) {
	c.cache.Delete(membersKey(clanTag))
	c.cache.Delete(currentWarKey(clanTag))
	log.Debug().Str("clan_tag", clanTag).Msg("Invalidated cached clan data")
}
