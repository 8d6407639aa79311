package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/scholarscout/internal/client/storage/token"
	"github.com/dmitrijs2005/scholarscout/internal/common"
	"github.com/dmitrijs2005/scholarscout/internal/logging"
	"github.com/google/uuid"
)

const maxErrorBody = 1 << 20

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "/users/me".
	Path  string
	Query url.Values
	// Body is sent as JSON.
	Body any
	// Form is sent url-encoded and takes precedence over Body.
	Form   url.Values
	Header http.Header
	// Token, when set, is sent instead of the stored token. The store is
	// then neither read nor cleared by this request.
	Token string
}

// Doer performs API calls. *Client implements it.
type Doer interface {
	Do(ctx context.Context, r Request, out any) error
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRejectHook registers fn to run after the server rejected the stored
// token and it was removed.
func WithRejectHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onReject = fn }
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  token.Store
	log     logging.Logger

	onReject func(ctx context.Context)
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, tokens token.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if tokens == nil {
		return nil, errors.New("token store is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Transport: newTransport()},
		tokens:  tokens,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends r and decodes a 2xx JSON body into out. out may be nil.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	endpoint := c.resolve(r.Path, r.Query)

	body, contentType, err := encodeBody(r)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	bearer := r.Token
	if bearer == "" {
		stored, err := c.tokens.Token(ctx)
		if err != nil {
			c.log.Warn(ctx, "token store read failed", "error", err)
		}
		bearer = stored
	}
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+bearer)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	log := c.log.With("request_id", requestID)
	log.Debug(ctx, "api request", "method", method, "url", endpoint, "has_token", bearer != "")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug(ctx, "api request failed", "error", err)
		return networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug(ctx, "api response", "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if r.Token == "" {
			if err := c.tokens.ClearToken(ctx); err != nil {
				log.Warn(ctx, "failed to clear rejected token", "error", err)
			}
			if c.onReject != nil {
				c.onReject(ctx)
			}
		}
		return responseError(resp)

	case resp.StatusCode == http.StatusNoContent:
		return nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return &Error{
				Status:  resp.StatusCode,
				Message: "invalid response from server",
				Kind:    ErrUnexpected,
				Err:     err,
			}
		}
		return nil

	default:
		return responseError(resp)
	}
}

func (c *Client) resolve(path string, query url.Values) string {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func encodeBody(r Request) (io.Reader, string, error) {
	if r.Form != nil {
		return strings.NewReader(r.Form.Encode()), "application/x-www-form-urlencoded", nil
	}
	if r.Body == nil {
		return nil, "", nil
	}
	b, err := json.Marshal(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

func responseError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := parseErrorMessage(b)
	if msg == "" {
		msg = defaultMessage(resp.StatusCode)
	}
	return &Error{
		Status:  resp.StatusCode,
		Message: msg,
		Kind:    kindForStatus(resp.StatusCode),
	}
}
