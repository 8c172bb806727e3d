package judger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrProviderUnavailable covers transport failures and non-2xx answers
// from the scraper service.
var ErrProviderUnavailable = errors.New("judging provider unavailable")

// Verdict is one snapshot of a provider-side submission.
type Verdict struct {
	ID      string `json:"id"`
	Verdict string `json:"verdict"`
	Time    uint   `json:"time"`
	Memory  uint   `json:"memory"`
}

type verdictEnvelope struct {
	Submission struct {
		ID      json.Number `json:"id"`
		Verdict string      `json:"verdict"`
		Time    uint        `json:"time"`
		Memory  uint        `json:"memory"`
	} `json:"submission"`
}

// Client talks to the codeforces scraper service. Dispatch creates a new
// provider-side submission on every call; FetchVerdict is read-only and
// safe to retry.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) Dispatch(ctx context.Context, cfContestID int64, problem, langID, sourceCode string) (string, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"contestId":  cfContestID,
		"problem":    problem,
		"langId":     langID,
		"sourceCode": sourceCode,
	})
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/submit", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("x-api-key", c.apiKey)

	env, err := c.do(req)
	if err != nil {
		return "", err
	}
	return env.Submission.ID.String(), nil
}

func (c *Client) FetchVerdict(ctx context.Context, cfContestID int64, providerID string) (*Verdict, error) {
	url := c.baseURL + "/submission/" + strconv.FormatInt(cfContestID, 10) + "/" + providerID
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("x-api-key", c.apiKey)

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &Verdict{
		ID:      env.Submission.ID.String(),
		Verdict: env.Submission.Verdict,
		Time:    env.Submission.Time,
		Memory:  env.Submission.Memory,
	}, nil
}

func (c *Client) do(req *http.Request) (*verdictEnvelope, error) {
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, res.StatusCode)
	}
	env := &verdictEnvelope{}
	if err := json.NewDecoder(res.Body).Decode(env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return env, nil
}
