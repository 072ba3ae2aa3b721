package clash

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"coc_war_stats/internal/app"
	"coc_war_stats/internal/config"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

// StatusError is returned when the backend answers with a non-200 status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if sent again
func (e *StatusError) Retryable() bool {
	return e.StatusCode == fasthttp.StatusTooManyRequests || e.StatusCode >= 500
}

type Client struct {
	baseURL      string
	token        string
	client       *fasthttp.Client
	retry        config.RetryConfig
	apiCallCount int64
	apiCallMutex sync.Mutex
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &fasthttp.Client{
			MaxConnsPerHost:        16,
			ReadTimeout:            30 * time.Second,
			WriteTimeout:           10 * time.Second,
			MaxIdleConnDuration:    time.Minute,
			DisablePathNormalizing: true,
		},
		retry: config.DefaultResilienceConfig.APIRequest,
	}
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// ResetAPICallCount resets the API call counter to zero
func (c *Client) ResetAPICallCount() {
	c.apiCallMutex.Lock()
	c.apiCallCount = 0
	c.apiCallMutex.Unlock()
}

// clanURL builds the endpoint URL for a clan resource; tags start with '#' so they must be escaped
func (c *Client) clanURL(clanTag, resource string) string {
	return fmt.Sprintf("%s/clans/%s/%s", c.baseURL, url.PathEscape(clanTag), resource)
}

// GetMembers fetches the current clan roster
func (c *Client) GetMembers(ctx context.Context, clanTag string) ([]app.Member, error) {
	endpoint := c.clanURL(clanTag, "members")
	log.Debug().Str("clan_tag", clanTag).Msg("Fetching clan members")

	response, err := fetch[app.MembersResponse](ctx, c, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	log.Debug().
		Str("clan_tag", clanTag).
		Int("members", len(response.Items)).
		Msg("Successfully fetched clan members")

	return response.Items, nil
}

// GetWarLog fetches the clan war log. Entries without a result (league rounds) are dropped.
func (c *Client) GetWarLog(ctx context.Context, clanTag string) ([]app.WarLogEntry, error) {
	endpoint := c.clanURL(clanTag, "warlog")
	log.Debug().Str("clan_tag", clanTag).Msg("Fetching war log")

	response, err := fetch[app.WarLogResponse](ctx, c, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch war log: %w", err)
	}

	entries := make([]app.WarLogEntry, 0, len(response.Items))
	for _, entry := range response.Items {
		if entry.Result == "" {
			continue
		}
		entries = append(entries, entry)
	}

	log.Debug().
		Str("clan_tag", clanTag).
		Int("entries", len(entries)).
		Int("dropped", len(response.Items)-len(entries)).
		Msg("Successfully fetched war log")

	return entries, nil
}

// GetAttacks fetches the full attack log the backend has recorded for the clan
func (c *Client) GetAttacks(ctx context.Context, clanTag string) ([]app.AttackRecord, error) {
	endpoint := c.clanURL(clanTag, "attacks")
	log.Debug().Str("clan_tag", clanTag).Msg("Fetching attack log")

	response, err := fetch[[]app.AttackRecord](ctx, c, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attacks: %w", err)
	}

	log.Debug().
		Str("clan_tag", clanTag).
		Int("attacks", len(*response)).
		Msg("Successfully fetched attack log")

	return *response, nil
}

// GetCurrentWar fetches the war the clan is currently in
func (c *Client) GetCurrentWar(ctx context.Context, clanTag string) (*app.CurrentWar, error) {
	endpoint := c.clanURL(clanTag, "currentwar")
	log.Debug().Str("clan_tag", clanTag).Msg("Fetching current war")

	war, err := fetch[app.CurrentWar](ctx, c, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current war: %w", err)
	}

	log.Debug().
		Str("clan_tag", clanTag).
		Str("state", war.State).
		Str("war_timestamp", war.WarTimestamp).
		Msg("Successfully fetched current war")

	return war, nil
}

// fetch performs a GET with retries. Client errors other than 429 and
// undecodable bodies are not retried.
func fetch[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	var result *T
	err := c.retry.Do(ctx, endpoint, func(ctx context.Context) error {
		var err error
		result, err = doRequest[T](ctx, c, endpoint)
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			return retry.Unrecoverable(err)
		}
		if errors.Is(err, app.ErrParse) {
			return retry.Unrecoverable(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func doRequest[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		log.Debug().
			Err(err).
			Str("url", endpoint).
			Msg("API request failed")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	c.IncrementAPICall()

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response from %s: %v", app.ErrParse, endpoint, err)
	}
	return &result, nil
}
