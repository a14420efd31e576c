// Part of package registry: RegistryClient, a thin HTTP client over a
// Confluent-style schema registry's subject/version endpoints. Grounded on
// original_source/sregistry/src/client.rs's Client::get_versions/
// get_subject, translated from reqwest::blocking into net/http and from
// tracing into the teacher's internal/obs slog idiom.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/omarkamali/avrocol/internal/obs"
)

// defaultClientQPS caps how fast Client issues requests against a shared
// registry when no explicit limiter is supplied, in the spirit of the
// teacher's OpenAIEmbedder client-side rate limiting (the registry has no
// retry/backoff of its own per spec.md §5, so Client is the only layer
// that can keep a transitive reference walk from bursting many GETs at
// once against a small registry deployment).
const defaultClientQPS = 20

// Client is a synchronous, blocking HTTP client for one schema registry
// base URL. It holds no cache of its own; AvroRegistry owns caching.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient returns a Client against baseURL, using httpClient for
// transport. A nil httpClient falls back to http.DefaultClient; callers
// that need a request timeout should pass one constructed with
// &http.Client{Timeout: ...} (cmd/avrocol builds one from avrocol.yml's
// registry.timeout, loaded through internal/config).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(defaultClientQPS), defaultClientQPS),
	}
}

// WithRateLimit overrides the client-side request rate, returning c for
// chaining.
func (c *Client) WithRateLimit(qps float64, burst int) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(qps), burst)
	return c
}

// versionsResponse mirrors the registry's array-of-int version listing.
type versionsResponse = []int

// subjectWire is the raw JSON shape of a version's response body, matching
// spec.md §6 exactly (field names, optional references).
type subjectWire struct {
	ID         int         `json:"id"`
	Version    int         `json:"version"`
	Schema     string      `json:"schema"`
	SchemaType string      `json:"schemaType"`
	References []Reference `json:"references,omitempty"`
}

// ListVersions fetches the known version numbers for subject, applying the
// "-value" suffix convention at URL construction time.
func (c *Client) ListVersions(ctx context.Context, subject string) ([]int, error) {
	url := fmt.Sprintf("%s/subjects/%s-value/versions", c.baseURL, subject)
	var versions versionsResponse
	if err := c.getJSON(ctx, url, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// GetSubject fetches one version of subject, flattening the wire response
// into a Subject.
func (c *Client) GetSubject(ctx context.Context, subject string, version int) (*Subject, error) {
	url := fmt.Sprintf("%s/subjects/%s-value/versions/%d", c.baseURL, subject, version)
	var wire subjectWire
	if err := c.getJSON(ctx, url, &wire); err != nil {
		return nil, err
	}
	return &Subject{
		ID:         wire.ID,
		Version:    wire.Version,
		SchemaText: wire.Schema,
		SchemaType: wire.SchemaType,
		References: wire.References,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	logger := obs.FromContext(ctx)
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Msg: fmt.Sprintf("rate limiter: %v", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &ClientError{Msg: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("registry request failed", "url", url, "error", err)
		return &ClientError{Msg: fmt.Sprintf("request %s: %v", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Warn("registry returned non-200", "url", url, "status", resp.StatusCode, "body", string(body))
		return &ClientError{Msg: fmt.Sprintf("%s: status %d", url, resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Msg: fmt.Sprintf("decode %s: %v", url, err)}
	}
	return nil
}

// stripValueSuffix removes a trailing "-value" from a reference's subject
// name, tolerating reference lists that already carry the bare subject
// (spec.md §4.6 step 2).
func stripValueSuffix(subject string) string {
	return strings.TrimSuffix(subject, "-value")
}
