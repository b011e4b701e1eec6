package healthapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/safe"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 60 * time.Second

	defaultUserAgent = "healthdesk"

	// maxResponseSize bounds how much of a response body is buffered
	maxResponseSize = 32 << 20
)

// Generic messages shown when the backend gives no usable detail
const (
	MsgAuthFailed       = "Authentication failed"
	MsgDashboardFailed  = "Failed to fetch dashboard data"
	MsgDeleteFailed     = "Failed to delete document."
	MsgUploadFailed     = "Upload failed"
	MsgAnalysisFailed   = "Analysis failed"
	MsgBackendContact   = "Error contacting backend."
	MsgSpeechFailed     = "Failed to process speech"
	MsgHistoryFailed    = "Failed to fetch patient history"
	MsgCategoriesFailed = "Failed to fetch symptom categories"
)

// Client talks to the Smart Health backend. Each call issues exactly one request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

var _ interfaces.HealthAPI = &Client{}

// Option configures Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the backend at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid backend URL", goerr.V("url", baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("backend URL must be http or https", goerr.V("url", baseURL))
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins path segments, escaping each one
func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

type request struct {
	method      string
	url         string
	body        io.Reader
	contentType string
	// generic is the message used when the failure carries no usable detail
	generic string
}

// do issues the request and returns the raw 2xx body. Any failure is a *model.Failure.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	reqID := uuid.NewString()
	logger := logging.From(ctx).With(slog.String("request_id", reqID))

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, r.body)
	if err != nil {
		return nil, goerr.Wrap(model.NewTransportFailure(0, r.generic), "failed to build request",
			goerr.V("url", r.url), goerr.V("cause", err.Error()))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("request failed", "method", r.method, "url", r.url, "error", err)
		return nil, goerr.Wrap(model.NewTransportFailure(0, r.generic), "request failed",
			goerr.V("url", r.url), goerr.V("cause", err.Error()))
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, goerr.Wrap(model.NewTransportFailure(resp.StatusCode, r.generic), "failed to read response",
			goerr.V("url", r.url), goerr.V("cause", err.Error()))
	}

	logger.Debug("request done",
		"method", r.method,
		"url", r.url,
		"status", resp.StatusCode,
		"duration", time.Since(started),
		"size", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, goerr.Wrap(decodeFailure(resp.StatusCode, body, r.generic), "backend returned error",
			goerr.V("url", r.url), goerr.V(model.StatusKey, resp.StatusCode))
	}
	return body, nil
}

// decodeJSON unmarshals a 2xx body; a body that does not match is a transport failure
func decodeJSON(body []byte, out any, generic string) error {
	if err := json.Unmarshal(body, out); err != nil {
		return goerr.Wrap(model.NewTransportFailure(http.StatusOK, generic), "failed to decode response",
			goerr.V("cause", err.Error()))
	}
	return nil
}

func jsonBody(v any, generic string) (io.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, goerr.Wrap(model.NewTransportFailure(0, generic), "failed to encode request",
			goerr.V("cause", err.Error()))
	}
	return bytes.NewReader(raw), nil
}

// decodeFailure interprets an error body. A string detail is shown verbatim, a validation
// list is joined from its msg entries, anything else falls back to generic.
func decodeFailure(status int, body []byte, generic string) *model.Failure {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return model.NewTransportFailure(status, generic)
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		if detail = strings.TrimSpace(detail); detail != "" {
			return model.NewBackendFailure(status, detail)
		}
		return model.NewTransportFailure(status, generic)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return model.NewBackendFailure(status, strings.Join(msgs, "; "))
		}
	}

	return model.NewTransportFailure(status, generic)
}
