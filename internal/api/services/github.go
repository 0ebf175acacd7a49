package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/SteffanA/devconnector/internal/config"
	"golang.org/x/oauth2"
)

// ErrNoGithubProfile means the upstream lookup failed for the requested
// username, whatever the underlying cause.
var ErrNoGithubProfile = errors.New("no github profile found")

// GithubClient lists a user's public repositories through the GitHub
// API. Requests carry a bounded timeout so a slow upstream cannot pin a
// handler goroutine.
type GithubClient struct {
	BaseURL string
	http    *http.Client
}

// Github is the process-wide client, authenticated when GITHUB_TOKEN is
// configured (authenticated calls get a much higher rate limit).
var Github = NewGithubClient(config.Envs.GithubToken)

func NewGithubClient(token string) *GithubClient {
	client := &http.Client{Timeout: 5 * time.Second}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = oauth2.NewClient(context.Background(), ts)
		client.Timeout = 5 * time.Second
	}
	return &GithubClient{
		BaseURL: "https://api.github.com",
		http:    client,
	}
}

// Repos returns the user's five most recently created public repos as
// raw JSON, passed through to the caller unmodified.
func (c *GithubClient) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf(
		"%s/users/%s/repos?per_page=5&sort=created:asc",
		c.BaseURL, url.PathEscape(username),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNoGithubProfile
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
