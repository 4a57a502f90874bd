package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ErrRobotsDisallowed reports a URL that robots.txt forbids for our user agent.
var ErrRobotsDisallowed = errors.New("fetch disallowed by robots.txt")

const maxRedirects = 3

// Config holds fetch client settings.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	MaxBytes  int64

	// Outbound rate limit. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int

	// Randomized polite delay applied after rate-limit clearance.
	JitterMin time.Duration
	JitterMax time.Duration

	// CheckRobots enables the robots.txt gate.
	CheckRobots bool

	// CacheTTL keeps fetched pages briefly so two strategies hitting the
	// same endpoint in one run fetch it once. Zero disables the cache.
	CacheTTL time.Duration
}

// Client fetches page markup with politeness controls.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *rate.Limiter
	jitterMin  time.Duration
	jitterMax  time.Duration
	robots     *RobotsChecker
	pages      *gocache.Cache
}

// New creates a fetch client from cfg.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 4 << 20
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		jitterMin: cfg.JitterMin,
		jitterMax: cfg.JitterMax,
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if cfg.CheckRobots {
		c.robots = NewRobotsChecker(cfg.UserAgent, cfg.Timeout, time.Hour)
	}
	if cfg.CacheTTL > 0 {
		c.pages = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return c
}

// Get fetches rawURL and returns the page body as a string.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	if c.pages != nil {
		if cached, ok := c.pages.Get(rawURL); ok {
			return cached.(string), nil
		}
	}

	if c.robots != nil && !c.robots.CanFetch(rawURL) {
		return "", fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if err := c.politeDelay(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	page := string(body)
	if c.pages != nil {
		c.pages.Set(rawURL, page, gocache.DefaultExpiration)
	}
	return page, nil
}

// politeDelay sleeps a random duration in [jitterMin, jitterMax].
func (c *Client) politeDelay(ctx context.Context) error {
	if c.jitterMax <= 0 {
		return nil
	}
	delay := c.jitterMin
	if span := c.jitterMax - c.jitterMin; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
