// Package github implements the GitHubClient port using the go-github
// library for REST calls and a plain HTTP GraphQL client for everything
// else.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/mkallio/repodigest/internal/adapter/driven/cache"
	"github.com/mkallio/repodigest/internal/domain/model"
	"github.com/mkallio/repodigest/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// graphqlHTTPClient is the HTTP client used for GraphQL requests.
// It enforces a 30-second timeout as a safety net alongside context cancellation.
var graphqlHTTPClient = &http.Client{Timeout: 30 * time.Second}

// Client implements the driven.GitHubClient port.
type Client struct {
	gh         *gh.Client
	token      string // Stored for the GraphQL Authorization header.
	graphqlURL string // "https://api.github.com/graphql" in production; derived from baseURL in tests.

	queryCache cache.Cache // nil disables query memoization
	cacheTTL   time.Duration
}

// NewClient creates a GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: "https://api.github.com/graphql",
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: graphqlU.String(),
	}, nil
}

// QueryError reports a failed GraphQL exchange: a transport problem, a
// non-200 status, or schema-level errors in the response envelope. The
// engine treats it as advisory per category, not fatal for the run.
type QueryError struct {
	Op       string
	Err      error
	Messages []string
}

func (e *QueryError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("graphql %s: %s", e.Op, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("graphql %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlEnvelope is the outer shape of every GraphQL response.
type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute runs a GraphQL query or mutation and unmarshals the data payload
// into out. When a query cache is attached, the data payload is memoized by
// the exact query text plus canonically serialized variables; the cache is a
// latency/quota optimization and never affects correctness.
func (c *Client) execute(ctx context.Context, op, query string, variables map[string]any, out any) error {
	if c.queryCache != nil {
		key := cacheKey(query, variables)
		var data json.RawMessage
		if err := c.queryCache.Get(key, &data); err == nil {
			return json.Unmarshal(data, out)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			return &QueryError{Op: op, Err: err}
		}

		data, err := c.post(ctx, op, query, variables)
		if err != nil {
			return err
		}
		// A failed store only costs a re-query next time.
		_ = c.queryCache.Set(key, data, c.cacheTTL)
		return json.Unmarshal(data, out)
	}

	data, err := c.post(ctx, op, query, variables)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// executeFresh runs a query or mutation bypassing the query cache.
// Mutations and continuation-state queries use it: the continuation point
// must reflect the remote system of record on every run, so externally
// deleted or edited digests take effect immediately.
func (c *Client) executeFresh(ctx context.Context, op, query string, variables map[string]any, out any) error {
	data, err := c.post(ctx, op, query, variables)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// mutate runs a GraphQL mutation. Mutations never touch the query cache.
func (c *Client) mutate(ctx context.Context, op, query string, variables map[string]any, out any) error {
	return c.executeFresh(ctx, op, query, variables, out)
}

// post performs one GraphQL HTTP exchange and returns the raw data payload.
func (c *Client) post(ctx context.Context, op, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := graphqlHTTPClient.Do(req)
	if err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &QueryError{Op: op, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var envelope graphqlEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return nil, &QueryError{Op: op, Messages: messages}
	}

	return envelope.Data, nil
}

// FetchRepoInfo resolves the repository identity via the REST API.
func (c *Client) FetchRepoInfo(ctx context.Context, repo model.RepoRef) (*model.RepoInfo, error) {
	r, _, err := c.gh.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("fetching repository %s: %w", repo, err)
	}
	return &model.RepoInfo{
		NodeID:    r.GetNodeID(),
		CreatedAt: r.GetCreatedAt().Time,
	}, nil
}

// ValidateToken verifies that the configured token is valid and returns the
// authenticated username on success.
func (c *Client) ValidateToken(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("token validation failed: %w", err)
	}
	return user.GetLogin(), nil
}
