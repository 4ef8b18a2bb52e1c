package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout for collector requests.
	DefaultTimeout = 5 * time.Second
	// DefaultRateLimit bounds hit recording against a remote collector.
	DefaultRateLimit = rate.Limit(50)

	// timestampLayout is the collector's wire format for timestamps.
	timestampLayout = "2006-01-02 15:04:05"
)

// Client talks to a remote view-counter collector over HTTP. It implements
// ViewCounter so the query layer does not care whether counting happens
// in-process or in the companion service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

var _ ViewCounter = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets a custom rate limit (requests per second).
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(DefaultRateLimit, 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type hitPayload struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type viewCountPayload struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

func (c *Client) RecordHit(ctx context.Context, hit Hit) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	timestamp := hit.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	body, err := json.Marshal(hitPayload{
		App:       hit.App,
		URI:       hit.URI,
		IP:        hit.IP,
		Timestamp: timestamp.Format(timestampLayout),
	})
	if err != nil {
		return fmt.Errorf("encode hit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build hit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("record hit: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("record hit: collector returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) GetCounts(ctx context.Context, start, end time.Time, uris []string, unique bool) (map[string]int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("start", start.Format(timestampLayout))
	params.Set("end", end.Format(timestampLayout))
	params.Set("unique", strconv.FormatBool(unique))
	if len(uris) > 0 {
		params.Set("uris", strings.Join(uris, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build stats request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get stats: collector returned %d", resp.StatusCode)
	}

	var payload []viewCountPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	counts := make(map[string]int64, len(payload))
	for _, item := range payload {
		counts[item.URI] = item.Hits
	}
	return counts, nil
}
