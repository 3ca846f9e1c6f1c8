package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smallbiznis/subsense/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.Config{GitHubAPIBaseURL: srv.URL}, zap.NewNop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetchActivity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"name": "active", "full_name": "octocat/active", "pushed_at": testNow.AddDate(0, 0, -5)},
			{"name": "stale", "full_name": "octocat/stale", "pushed_at": testNow.AddDate(0, 0, -120)},
		})
	})
	mux.HandleFunc("/repos/octocat/active/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "octocat", r.URL.Query().Get("author"))
		commits := make([]map[string]any, 12)
		for i := range commits {
			commits[i] = map[string]any{"sha": fmt.Sprintf("%040d", i)}
		}
		writeJSON(t, w, commits)
	})

	c := newTestClient(t, mux)
	activity, err := c.FetchActivity(context.Background(), "octocat", testNow)

	require.NoError(t, err)
	assert.Equal(t, 1, activity.ActiveRepos)
	assert.Equal(t, 12, activity.TotalCommits)
	require.Len(t, activity.Repos, 1)
	assert.Equal(t, "active", activity.Repos[0].Name)
	// 12 commits + 1 repo * 4.
	assert.Equal(t, 16, activity.Score())
}

func TestFetchActivitySkipsFailedCommitListing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"name": "broken", "full_name": "octocat/broken", "pushed_at": testNow.AddDate(0, 0, -1)},
		})
	})
	mux.HandleFunc("/repos/octocat/broken/commits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	c := newTestClient(t, mux)
	activity, err := c.FetchActivity(context.Background(), "octocat", testNow)

	require.NoError(t, err)
	assert.Equal(t, 1, activity.ActiveRepos)
	assert.Equal(t, 0, activity.TotalCommits)
	assert.Empty(t, activity.Repos)
}

func TestFetchActivityRepoListingError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.FetchActivity(context.Background(), "ghost", testNow)
	assert.Error(t, err)
}

func TestScoreCaps(t *testing.T) {
	a := Activity{ActiveRepos: 10, TotalCommits: 500}
	assert.Equal(t, 100, a.Score())

	assert.Equal(t, 0, Activity{}.Score())
}
