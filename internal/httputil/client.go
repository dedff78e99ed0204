// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pdiddy/seqref/pkg/types"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// ErrStatus marks a non-200 response. Use errors.Is to detect it.
var ErrStatus = errors.New("unexpected HTTP status")

// Client issues GET requests and returns the body as text.
type Client struct {
	HTTP       *http.Client
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// NewClient builds a Client from cfg.
func NewClient(cfg types.HTTPConfig, logger *zap.Logger) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	}
}

// GetText sends GET base?params and returns the trimmed body. Any status
// other than 200 is an error wrapping ErrStatus.
func (c *Client) GetText(ctx context.Context, base string, params url.Values) (string, error) {
	u := base
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", errors.Wrap(err, "creating request")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	resp, err := DoWithRetry(ctx, hc, req, c.MaxRetries, c.Logger)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redact(ue.URL)
		}
		return "", errors.Wrapf(err, "GET %s", redact(base))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", errors.Wrapf(ErrStatus, "GET %s returned HTTP %d", redact(base), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", errors.Wrapf(err, "reading response from %s", redact(base))
	}
	return strings.TrimSpace(string(body)), nil
}

// redact drops any query string so API keys never reach log lines.
func redact(base string) string {
	if i := strings.IndexByte(base, '?'); i >= 0 {
		return base[:i]
	}
	return base
}
