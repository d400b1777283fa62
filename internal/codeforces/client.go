package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
)

// Profile is the subset of user.info this service cares about.
type Profile struct {
	Handle    string `json:"handle"`
	Rating    int    `json:"rating"`
	MaxRating int    `json:"maxRating"`
}

// RatingEntry is one element of the user.rating result.
type RatingEntry struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Rank                    int    `json:"rank"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
}

// SubmissionEntry is one element of the user.status result.
type SubmissionEntry struct {
	ID                  int64   `json:"id"`
	Verdict             string  `json:"verdict"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	Problem             Problem `json:"problem"`
}

type Problem struct {
	Name   string `json:"name"`
	Rating *int   `json:"rating"`
}

// FetchResult bundles the three datasets of one fetch. Profile is nil when
// the handle is unknown to Codeforces; callers must not reconcile in that case.
type FetchResult struct {
	Profile     *Profile
	Ratings     []RatingEntry
	Submissions []SubmissionEntry
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	// user.status is bounded by a fixed large count, not true pagination
	submissionCount int
}

func NewClient(baseURL string, timeout time.Duration, submissionCount int) *Client {
	return &Client{
		baseURL:         baseURL,
		httpClient:      &http.Client{Timeout: timeout},
		submissionCount: submissionCount,
	}
}

// Fetch issues the three Codeforces requests concurrently and waits for all
// of them. Any network, HTTP, or decode failure fails the whole fetch; there
// are no retries.
func (c *Client) Fetch(ctx context.Context, handle string) (*FetchResult, error) {
	res := &FetchResult{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var infos []Profile
		if err := c.get(ctx, fmt.Sprintf("%s/user.info?handles=%s", c.baseURL, url.QueryEscape(handle)), &infos); err != nil {
			return fmt.Errorf("user.info: %w", err)
		}
		if len(infos) > 0 {
			res.Profile = &infos[0]
		}
		return nil
	})

	g.Go(func() error {
		if err := c.get(ctx, fmt.Sprintf("%s/user.rating?handle=%s", c.baseURL, url.QueryEscape(handle)), &res.Ratings); err != nil {
			return fmt.Errorf("user.rating: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		u := fmt.Sprintf("%s/user.status?handle=%s&from=1&count=%d", c.baseURL, url.QueryEscape(handle), c.submissionCount)
		if err := c.get(ctx, u, &res.Submissions); err != nil {
			return fmt.Errorf("user.status: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// envelope is the common Codeforces API response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	// Codeforces reports unknown handles as a FAILED envelope, delivered
	// with HTTP 400. That maps to "no data", not a fetch error.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && env.Status == "FAILED" {
			return nil
		}
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if env.Status != "OK" || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
