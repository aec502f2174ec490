package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/match"
)

// MatchProvider is the match-data collaborator.
type MatchProvider interface {
	// ResolvePUUID finds the player's id by Riot ID, or by legacy summoner
	// name when tag is empty.
	ResolvePUUID(ctx context.Context, platform match.Platform, name, tag string) (string, error)
	// MatchIDs returns the player's recent match ids, newest first.
	MatchIDs(ctx context.Context, platform match.Platform, puuid string) ([]string, error)
	Match(ctx context.Context, platform match.Platform, matchID string) (*match.Match, error)
}

type riotClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// RiotOption customises the Riot client.
type RiotOption func(*riotClient)

// WithRiotBaseURL sends every request to baseURL instead of the routed Riot hosts.
func WithRiotBaseURL(baseURL string) RiotOption {
	return func(c *riotClient) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// NewRiotClient creates a MatchProvider backed by the Riot Games API.
func NewRiotClient(apiKey string, opts ...RiotOption) MatchProvider {
	c := &riotClient{
		client: &http.Client{Timeout: 15 * time.Second},
		apiKey: apiKey,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type riotAccount struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

func (c *riotClient) ResolvePUUID(ctx context.Context, platform match.Platform, name, tag string) (string, error) {
	var acc riotAccount
	if tag != "" {
		path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s", url.PathEscape(name), url.PathEscape(tag))
		if err := c.get(ctx, platform.Region().Host(), path, &acc); err != nil {
			return "", fmt.Errorf("resolving riot id %s#%s: %w", name, tag, err)
		}
	} else {
		path := "/lol/summoner/v4/summoners/by-name/" + url.PathEscape(name)
		if err := c.get(ctx, platform.Host(), path, &acc); err != nil {
			return "", fmt.Errorf("resolving summoner %s: %w", name, err)
		}
	}
	if acc.PUUID == "" {
		return "", fmt.Errorf("resolving player %s: %w", name, ErrNotFound)
	}
	return acc.PUUID, nil
}

func (c *riotClient) MatchIDs(ctx context.Context, platform match.Platform, puuid string) ([]string, error) {
	var ids []string
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids", url.PathEscape(puuid))
	if err := c.get(ctx, platform.Region().Host(), path, &ids); err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	return ids, nil
}

func (c *riotClient) Match(ctx context.Context, platform match.Platform, matchID string) (*match.Match, error) {
	var m match.Match
	if err := c.get(ctx, platform.Region().Host(), "/lol/match/v5/matches/"+url.PathEscape(matchID), &m); err != nil {
		return nil, fmt.Errorf("fetching match %s: %w", matchID, err)
	}
	return &m, nil
}

// get decodes the JSON body of a GET into out. 404 maps to ErrNotFound and
// every other failure to ErrProvider.
func (c *riotClient) get(ctx context.Context, host, path string, out any) error {
	base := c.baseURL
	if base == "" {
		base = "https://" + host
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create riot request: %w", err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading riot response: %w", ErrProvider, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: riot API returned HTTP %d", ErrProvider, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding riot response: %w", ErrProvider, err)
	}
	return nil
}
