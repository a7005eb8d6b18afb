// Package client holds everything a playing client needs: the HTTP API
// wrapper, the click queue with its flusher, the poll loops, and the local
// preferences file.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"debirunpop/internal/storage"
)

// DefaultBaseURL is the local-development fallback.
const DefaultBaseURL = "http://localhost:8080"

// ResolveBaseURL picks the API base: explicit flag value first, then the
// DEBIRUN_API environment variable, then the persisted preference, then the
// localhost default. Trailing slashes are dropped.
func ResolveBaseURL(flagValue, prefsValue string) string {
	for _, v := range []string{flagValue, os.Getenv("DEBIRUN_API"), prefsValue} {
		if v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return DefaultBaseURL
}

// API is a thin client over the score server's JSON endpoints.
type API struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type scoreRequest struct {
	Name  string `json:"name"`
	Delta int64  `json:"delta"`
}

type envelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// SubmitScore posts a delta. Any non-2xx status is an error so the caller's
// refund path runs.
func (a *API) SubmitScore(ctx context.Context, name string, delta int64) error {
	body, err := json.Marshal(scoreRequest{Name: name, Delta: delta})
	if err != nil {
		return fmt.Errorf("encoding score request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting score: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		json.NewDecoder(resp.Body).Decode(&env)
		if env.Message != "" {
			return fmt.Errorf("score rejected: %s (status %d)", env.Message, resp.StatusCode)
		}
		return fmt.Errorf("score rejected: status %d", resp.StatusCode)
	}
	return nil
}

// Leaderboard fetches the ranked top players.
func (a *API) Leaderboard(ctx context.Context) ([]storage.Entry, error) {
	var entries []storage.Entry
	if err := a.getJSON(ctx, "/leaderboard", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Community fetches the global click total.
func (a *API) Community(ctx context.Context) (int64, error) {
	var out struct {
		Total int64 `json:"total"`
	}
	if err := a.getJSON(ctx, "/community", &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// Player fetches one player's record.
func (a *API) Player(ctx context.Context, name string) (storage.Entry, error) {
	var e storage.Entry
	if err := a.getJSON(ctx, "/player/"+name, &e); err != nil {
		return storage.Entry{}, err
	}
	return e, nil
}

func (a *API) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
