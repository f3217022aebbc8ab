package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/portal-co/snipsync/pkg/cache"
	"github.com/portal-co/snipsync/pkg/observability"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultRawBaseURL = "https://raw.githubusercontent.com"
	defaultTimeout    = 10 * time.Second
	searchPageSize    = 100
	userAgent         = "snipsync"
)

var (
	// ErrNotFound is returned when a repository or manifest doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Repo describes a repository as reported by the GitHub search API.
type Repo struct {
	Name          string `json:"name"`
	DefaultBranch string `json:"default_branch"`
	FullName      string `json:"full_name"`
}

type searchResponse struct {
	Items []Repo `json:"items"`
}

// Config holds the optional knobs for a [Client]. The zero value is usable:
// unauthenticated requests against the public GitHub endpoints with no cache.
type Config struct {
	Token      string        // optional bearer token for higher rate limits
	Timeout    time.Duration // per-request timeout, defaults to 10s
	Cache      cache.Cache   // response cache, nil disables caching
	CacheTTL   time.Duration // lifetime of cached responses
	APIBaseURL string        // override for tests
	RawBaseURL string        // override for tests
}

// Client fetches repository listings and Cargo.toml manifests from GitHub.
// It handles caching and common request headers.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	apiBase string
	rawBase string
	headers map[string]string
}

// NewClient creates a Client from cfg, filling in defaults for unset fields.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	apiBase := cfg.APIBaseURL
	if apiBase == "" {
		apiBase = defaultAPIBaseURL
	}
	rawBase := cfg.RawBaseURL
	if rawBase == "" {
		rawBase = defaultRawBaseURL
	}

	headers := map[string]string{"User-Agent": userAgent}
	if cfg.Token != "" {
		headers["Authorization"] = "Bearer " + cfg.Token
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		cache:   cfg.Cache,
		ttl:     cfg.CacheTTL,
		apiBase: apiBase,
		rawBase: rawBase,
		headers: headers,
	}
}

// DiscoverRepos enumerates the owner's Rust repositories via the search API.
// Results are paginated internally and cached as a whole; if refresh is true
// the cache is bypassed. An owner with no Rust repositories is an error
// wrapping [ErrNotFound].
func (c *Client) DiscoverRepos(ctx context.Context, owner string, refresh bool) ([]Repo, error) {
	key := "github:repos:" + owner

	data, err := c.cached(ctx, key, "repos", refresh, func() ([]byte, error) {
		repos, err := c.searchRepos(ctx, owner)
		if err != nil {
			return nil, err
		}
		return json.Marshal(repos)
	})
	if err != nil {
		return nil, err
	}

	var repos []Repo
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("decode cached repo list: %w", err)
	}
	return repos, nil
}

// FetchManifest downloads the root Cargo.toml of a repository. If the default
// branch yields 404 the alternate branch (main vs master) is tried once before
// giving up with [ErrNotFound].
func (c *Client) FetchManifest(ctx context.Context, owner string, repo Repo, refresh bool) (string, error) {
	key := "github:manifest:" + owner + "/" + repo.Name

	data, err := c.cached(ctx, key, "manifest", refresh, func() ([]byte, error) {
		return c.downloadManifest(ctx, owner, repo)
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) searchRepos(ctx context.Context, owner string) ([]Repo, error) {
	var repos []Repo
	for page := 1; ; page++ {
		query := url.QueryEscape(fmt.Sprintf("org:%s language:Rust", owner))
		u := fmt.Sprintf("%s/search/repositories?q=%s&per_page=%d&page=%d",
			c.apiBase, query, searchPageSize, page)

		body, status, err := c.doRequest(ctx, u, map[string]string{
			"Accept": "application/vnd.github.v3+json",
		})
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d from repository search", ErrNetwork, status)
		}

		var resp searchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		if len(resp.Items) == 0 {
			break
		}
		repos = append(repos, resp.Items...)
		if len(resp.Items) < searchPageSize {
			break
		}
	}

	if len(repos) == 0 {
		return nil, fmt.Errorf("%w: no Rust repositories in %s", ErrNotFound, owner)
	}
	return repos, nil
}

func (c *Client) downloadManifest(ctx context.Context, owner string, repo Repo) ([]byte, error) {
	branch := repo.DefaultBranch
	if branch == "" {
		branch = "main"
	}

	body, status, err := c.doRequest(ctx, c.manifestURL(owner, repo.Name, branch), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		body, status, err = c.doRequest(ctx, c.manifestURL(owner, repo.Name, alternateBranch(branch)), nil)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case status == http.StatusOK:
		return body, nil
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: no Cargo.toml in %s/%s", ErrNotFound, owner, repo.Name)
	default:
		return nil, fmt.Errorf("%w: status %d for %s/%s", ErrNetwork, status, owner, repo.Name)
	}
}

func (c *Client) manifestURL(owner, repo, branch string) string {
	return fmt.Sprintf("%s/%s/%s/%s/Cargo.toml", c.rawBase, owner, repo, branch)
}

// alternateBranch maps main to master and everything else to main.
func alternateBranch(branch string) string {
	if branch == "main" {
		return "master"
	}
	return "main"
}

// cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
func (c *Client) cached(ctx context.Context, key, keyType string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	if !refresh && c.cache != nil {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, keyType)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		return nil, 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return body, resp.StatusCode, nil
}
