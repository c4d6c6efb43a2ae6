package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultTimeout bounds every worker API request.
const DefaultTimeout = 2 * time.Second

// Client talks to the claude-mem worker HTTP API.
type Client struct {
	BaseURL string
	Timeout time.Duration
	HTTP    *http.Client
}

// NewClient returns a client for http://host:port.
func NewClient(host string, port int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: "http://" + net.JoinHostPort(host, strconv.Itoa(port)),
		Timeout: timeout,
		HTTP:    &http.Client{},
	}
}

// Ping checks liveness via the stats endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/api/stats", nil)
	return err
}

// Observations fetches observations in q's range.
func (c *Client) Observations(ctx context.Context, q Query) ([]Observation, error) {
	params := url.Values{}
	params.Set("start", strconv.FormatInt(q.Start.UnixMilli(), 10))
	params.Set("end", strconv.FormatInt(q.End.UnixMilli(), 10))
	if q.Project != "" {
		params.Set("project", q.Project)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	body, err := c.get(ctx, "/api/observations", params)
	if err != nil {
		return nil, err
	}

	obs, err := decodeObservations(body)
	if err != nil {
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	return filterQuery(obs, q), nil
}

// Projects lists the project names known to the service.
func (c *Client) Projects(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/api/projects", nil)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return env.Projects, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// filterQuery drops records outside q in case the server ignores the filters.
func filterQuery(obs []Observation, q Query) []Observation {
	start, end := q.Start.UnixMilli(), q.End.UnixMilli()
	out := obs[:0]
	for _, o := range obs {
		if q.Project != "" && o.Project != q.Project {
			continue
		}
		if !q.Start.IsZero() && o.CreatedAtEpoch < start {
			continue
		}
		if !q.End.IsZero() && o.CreatedAtEpoch > end {
			continue
		}
		out = append(out, o)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
