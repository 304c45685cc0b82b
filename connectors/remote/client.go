// Package remote downloads source spreadsheets over HTTP. Raw GitHub URLs of
// private repositories need a token, which is sent as a bearer token through
// an oauth2 transport.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const (
	rateSafetyMargin = 2 * time.Second
	maxRateWait      = time.Hour
	maxRateRetries   = 3
)

// Client is a thin wrapper over http.Client with token auth and rate-limit
// aware retries. Use New to construct it.
type Client struct {
	c *http.Client
	// sleep waits for d or until ctx is done; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a client. When token is non-empty requests carry it as a bearer
// token. A nil base uses a client with a 60s timeout.
func New(ctx context.Context, base *http.Client, token string) *Client {
	if base == nil {
		base = &http.Client{Timeout: 60 * time.Second}
	}
	c := base
	if token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
		c = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
		c.Timeout = base.Timeout
	}
	return &Client{c: c, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned %d: %s", e.URL, e.Status, e.Body)
}

// Fetch downloads url fully into memory.
func (hc *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for attempt := 0; ; attempt++ {
		resp, err := hc.c.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			defer resp.Body.Close()
			return io.ReadAll(resp.Body)
		}
		wait, limited := rateLimitWait(resp)
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		if limited && attempt < maxRateRetries {
			slog.Warn("rate.limit.sleep", "url", url, "wait", wait, "attempt", attempt+1)
			if err := hc.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}
		return nil, &StatusError{URL: url, Status: resp.StatusCode, Body: string(b)}
	}
}

// rateLimitWait reports whether resp is a rate-limit rejection and how long to
// wait before retrying, capped to maxRateWait.
func rateLimitWait(resp *http.Response) (time.Duration, bool) {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
	default:
		return 0, false
	}
	wait := 5 * time.Second
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if sec, err := strconv.Atoi(ra); err == nil {
			wait = time.Duration(sec) * time.Second
		}
	} else if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if sec, err := strconv.ParseInt(reset, 10, 64); err == nil {
			if until := time.Until(time.Unix(sec, 0)) + rateSafetyMargin; until > 0 {
				wait = until
			}
		}
	}
	if wait > maxRateWait {
		wait = maxRateWait
	}
	return wait, true
}

// Download fetches url and writes it to path atomically, creating parent
// directories. It returns the number of bytes written.
func (hc *Client) Download(ctx context.Context, url, path string) (int, error) {
	b, err := hc.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, errors.Join(fmt.Errorf("rename into %s", path), err)
	}
	return len(b), nil
}
