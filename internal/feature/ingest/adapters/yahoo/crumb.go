package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const crumbPath = "/v1/test/getcrumb"

var errEmptyCrumb = errors.New("empty crumb")

// crumb returns the memoised crumb, fetching it on first use.
// A failed fetch is not remembered.
func (p *QuoteProvider) crumb(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.crumbValue != "" {
		return p.crumbValue, nil
	}
	c, err := p.fetchCrumb(ctx)
	if err != nil {
		return "", fmt.Errorf("crumb: %w", err)
	}
	p.crumbValue = c
	return c, nil
}

// dropCrumb forgets stale so the next call fetches a new crumb.
func (p *QuoteProvider) dropCrumb(stale string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.crumbValue == stale {
		p.crumbValue = ""
	}
}

// fetchCrumb visits the cookie URL (its status is ignored, only the cookie
// matters) and then reads the crumb bound to that cookie.
func (p *QuoteProvider) fetchCrumb(ctx context.Context) (string, error) {
	if p.cfg.CookieURL != "" {
		if _, err := p.get(ctx, p.cfg.CookieURL, "*/*"); err != nil {
			return "", fmt.Errorf("session cookie: %w", err)
		}
	}

	res, err := p.get(ctx, strings.TrimRight(p.cfg.BaseURL, "/")+crumbPath, "text/plain")
	if err != nil {
		return "", err
	}
	if res.status < 200 || res.status >= 300 {
		return "", fmt.Errorf("yahoo http %d", res.status)
	}
	c := strings.TrimSpace(string(res.body))
	if c == "" || strings.ContainsAny(c, "<{ ") {
		return "", errEmptyCrumb
	}
	slog.Debug("obtained quote crumb")
	return c, nil
}

type response struct {
	status int
	body   []byte
}

func (p *QuoteProvider) get(ctx context.Context, u, accept string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return response{}, err
	}
	req.Header.Set("Accept", accept)

	res, err := p.client.Do(req)
	if err != nil {
		return response{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return response{}, fmt.Errorf("read body: %w", err)
	}
	return response{status: res.StatusCode, body: body}, nil
}
