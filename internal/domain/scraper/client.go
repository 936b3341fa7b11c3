package scraper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultMinDelay    = 1 * time.Second
	defaultMaxDelay    = 3 * time.Second

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Client is the shared fetch path for plain HTML/JSON adapters. It imposes
// a randomized delay between consecutive requests to stay under anti-bot
// thresholds and retries a failed fetch exactly once.
type Client struct {
	http     *http.Client
	minDelay time.Duration
	maxDelay time.Duration

	mu    sync.Mutex
	rng   *rand.Rand
	first bool
}

// NewClient returns a Client with the default timeout and 1–3 s delay.
func NewClient() *Client {
	return &Client{
		http:     &http.Client{Timeout: defaultHTTPTimeout},
		minDelay: defaultMinDelay,
		maxDelay: defaultMaxDelay,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		first:    true,
	}
}

// WithDelay overrides the politeness delay bounds. Used by tests to avoid
// multi-second sleeps.
func (c *Client) WithDelay(min, max time.Duration) *Client {
	c.minDelay, c.maxDelay = min, max
	return c
}

// Get fetches a URL, pausing 1–3 s before every request after the first.
// A failed attempt (transport error or 5xx/4xx status) is retried once;
// both failing wraps ErrTransport.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.pause(ctx); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, url)
	if err == nil {
		return body, nil
	}

	log.Warn().Err(err).Str("url", url).Msg("Fetch failed, retrying once")
	if err := c.pause(ctx); err != nil {
		return nil, err
	}

	body, retryErr := c.get(ctx, url)
	if retryErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTransport, url, retryErr)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// pause sleeps a random duration within the delay bounds, honoring ctx.
// The very first request of a client goes out immediately.
func (c *Client) pause(ctx context.Context) error {
	c.mu.Lock()
	if c.first {
		c.first = false
		c.mu.Unlock()
		return nil
	}
	d := c.minDelay
	if span := c.maxDelay - c.minDelay; span > 0 {
		d += time.Duration(c.rng.Int63n(int64(span)))
	}
	c.mu.Unlock()

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
