package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	chitransport "github.com/kailas-cloud/fieldex/internal/transport/chi"
	"github.com/kailas-cloud/fieldex/internal/version"
)

const defaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of an unexpected error body is read.
const maxErrorBody = 64 << 10

// Client talks to a fieldex server. Safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	apiKey    string
	userAgent string
	obs       *observer
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("sdk: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("sdk: base url %q must be http or https", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}
	ua := cfg.userAgent
	if ua == "" {
		ua = "fieldex-sdk/" + version.Version
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{base: u, http: hc, apiKey: cfg.apiKey, userAgent: ua, obs: obs}, nil
}

// do sends in as JSON (when non-nil) and decodes a response with one of the
// accepted statuses into out (when non-nil). Any other status is an *APIError.
func (c *Client) do(
	ctx context.Context, method, path string, query url.Values, in, out any, accept ...int,
) (int, error) {
	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if !accepted(resp.StatusCode, accept) {
		return resp.StatusCode, decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func accepted(status int, accept []int) bool {
	if len(accept) == 0 {
		return status >= 200 && status < 300
	}
	for _, s := range accept {
		if s == status {
			return true
		}
	}
	return false
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var er chitransport.ErrorResponse
	if err := json.Unmarshal(raw, &er); err != nil || er.Code == "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_")),
			Message:    strings.TrimSpace(string(raw)),
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Code: string(er.Code), Message: er.Message}
}

// IsAPIError reports whether err came from a server response and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	ok := errors.As(err, &ae)
	return ae, ok
}
