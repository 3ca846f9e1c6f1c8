// Package github pulls a user's recent activity from the GitHub REST API
// and condenses it into a usage score.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/smallbiznis/subsense/internal/config"
	"go.uber.org/zap"
)

// ActivityWindowDays is how far back activity counts.
const ActivityWindowDays = 90

// maxRepos caps how many recently pushed repositories are inspected.
const maxRepos = 10

// RepoActivity is one repository's contribution to the snapshot.
type RepoActivity struct {
	Name       string    `json:"name"`
	Commits    int       `json:"commits"`
	LastPushed time.Time `json:"last_pushed"`
}

// Activity is a user's activity over the window.
type Activity struct {
	Username     string         `json:"username"`
	ActiveRepos  int            `json:"active_repos"`
	TotalCommits int            `json:"total_commits"`
	Repos        []RepoActivity `json:"repos,omitempty"`
	FetchedAt    time.Time      `json:"fetched_at"`
}

// Score condenses activity to 0..100. Each active repository is worth four
// commits; the sum caps at 100.
func (a Activity) Score() int {
	score := a.TotalCommits + a.ActiveRepos*4
	if score > 100 {
		score = 100
	}
	return score
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.GitHubAPIBaseURL,
		token:      cfg.GitHubToken,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log.Named("usage.github"),
	}
}

// FetchActivity inspects the user's most recently pushed repositories and
// counts their commits inside the activity window. A repository whose commit
// listing fails is skipped rather than failing the whole snapshot.
func (c *Client) FetchActivity(ctx context.Context, username string, now time.Time) (Activity, error) {
	activity := Activity{Username: username, FetchedAt: now}
	since := now.AddDate(0, 0, -ActivityWindowDays)

	repos, err := c.listRepos(ctx, username)
	if err != nil {
		return Activity{}, err
	}

	for _, repo := range repos {
		if repo.PushedAt.Before(since) {
			continue
		}
		activity.ActiveRepos++

		commits, err := c.countCommits(ctx, repo.FullName, username, since)
		if err != nil {
			c.log.Warn("commit listing failed",
				zap.String("repo", repo.FullName),
				zap.Error(err),
			)
			continue
		}
		activity.TotalCommits += commits
		activity.Repos = append(activity.Repos, RepoActivity{
			Name:       repo.Name,
			Commits:    commits,
			LastPushed: repo.PushedAt,
		})
	}
	return activity, nil
}

type repoResponse struct {
	Name     string    `json:"name"`
	FullName string    `json:"full_name"`
	PushedAt time.Time `json:"pushed_at"`
}

func (c *Client) listRepos(ctx context.Context, username string) ([]repoResponse, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=pushed&per_page=%d",
		c.baseURL, url.PathEscape(username), maxRepos)

	var repos []repoResponse
	if err := c.getJSON(ctx, endpoint, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) countCommits(ctx context.Context, fullName, author string, since time.Time) (int, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/commits?author=%s&since=%s&per_page=100",
		c.baseURL, fullName, url.QueryEscape(author), url.QueryEscape(since.Format(time.RFC3339)))

	var commits []json.RawMessage
	if err := c.getJSON(ctx, endpoint, &commits); err != nil {
		return 0, err
	}
	return len(commits), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "SubSense")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api: %s returned %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
