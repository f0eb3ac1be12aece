package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// xssiPrefix guards JSON bodies served by the legacy portfolio API. It
// must be stripped before parsing.
const xssiPrefix = ")]}',\n"

// HTTPError is the one error shape callers see: real HTTP failures carry
// the upstream status, malformed bodies are wrapped into a synthetic one
// with status 0 and the parse error attached.
type HTTPError struct {
	Status int
	URL    string
	Body   string
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("legacy request failed: url=%s err=%v", e.URL, e.Err)
	}
	return fmt.Sprintf("legacy request failed: url=%s status=%d body=%s", e.URL, e.Status, e.Body)
}

func (e *HTTPError) Unwrap() error { return e.Err }

type Client interface {
	// GetJSON fetches a resource and decodes it into out after stripping
	// the XSSI prefix and reviving ISO-8601 date strings.
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, body any, out any) error
}

type httpClient struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

func NewClient(baseURL string, logger *log.Logger) Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (c *httpClient) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *httpClient) PostJSON(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *httpClient) do(ctx context.Context, method, path string, body any, out any) error {
	if c == nil || c.client == nil {
		return errors.New("nil legacy client")
	}
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &HTTPError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return &HTTPError{Status: resp.StatusCode, URL: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := strings.TrimSpace(string(raw))
		if c.logger != nil {
			c.logger.Printf("[Legacy] request error endpoint=%s status=%d body=%q", endpoint, resp.StatusCode, bodyStr)
		}
		return &HTTPError{Status: resp.StatusCode, URL: endpoint, Body: bodyStr}
	}

	if out == nil {
		return nil
	}

	if err := DecodeJSON(raw, out); err != nil {
		// A body that is not valid JSON is reported the same way a
		// failed request would be.
		return &HTTPError{URL: endpoint, Body: strings.TrimSpace(string(raw)), Err: err}
	}
	return nil
}

// DecodeJSON strips the XSSI prefix, parses the body and revives date
// strings in place.
func DecodeJSON(raw []byte, out any) error {
	raw = bytes.TrimPrefix(raw, []byte(xssiPrefix))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	generic = reviveDates(generic)

	revived, err := json.Marshal(generic)
	if err != nil {
		return err
	}
	return json.Unmarshal(revived, out)
}

// isoDate matches the serializations the legacy API emits, with or
// without fractional seconds.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// reviveDates walks the decoded value and normalizes every date-looking
// string to RFC3339 UTC so downstream decoding into time.Time never
// depends on the legacy API's exact formatting.
func reviveDates(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = reviveDates(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = reviveDates(val)
		}
		return t
	case string:
		if ts, ok := parseISODate(t); ok {
			return ts.UTC().Format(time.RFC3339Nano)
		}
		return t
	default:
		return v
	}
}

func parseISODate(s string) (time.Time, bool) {
	if len(s) < 10 || s[4] != '-' || s[7] != '-' {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

var _ Client = (*httpClient)(nil)
