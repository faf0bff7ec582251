package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBytes = 4 << 20

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Source string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Source, e.Code)
}

// client is the HTTP plumbing shared by the board clients.
type client struct {
	source  string
	http    *http.Client
	breaker *Breaker
}

func newClient(source string, hc *http.Client, br *Breaker) client {
	if hc == nil {
		hc = NewHTTPClient(10 * time.Second)
	}
	if br == nil {
		br = NewBreaker(5, 30*time.Second)
	}
	return client{source: source, http: hc, breaker: br}
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: timeout,
		},
	}
}

// doJSON sends req through the breaker and decodes a 2xx JSON body into dest.
func (c client) doJSON(ctx context.Context, method, url string, body any, dest any) error {
	return c.breaker.Execute(func() error {
		var rd io.Reader
		if body != nil {
			b, err := json.Marshal(body)
			if err != nil {
				return err
			}
			rd = bytes.NewReader(b)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return fmt.Errorf("build %s request: %w", c.source, err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s request: %w", c.source, err)
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &StatusError{Source: c.source, Code: resp.StatusCode}
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dest); err != nil {
			return fmt.Errorf("decode %s response: %w", c.source, err)
		}
		return nil
	})
}
