package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/totegamma/salesdesk"
	"github.com/totegamma/salesdesk/credential"
	"github.com/totegamma/salesdesk/environment"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultProxyPrefix = "/api"
	defaultUserAgent   = "salesdesk-client"
	defaultBackendURL  = "http://localhost:8000"
)

type Config struct {
	// BaseURL is the backend API, called directly in extension mode.
	BaseURL string
	// Origin is the web application origin, whose proxy is called in web
	// mode. Required in web mode.
	Origin      string
	ProxyPrefix string
	Timeout     time.Duration
	UserAgent   string
	// HTTPClient, when set, is used as a template; its Transport is wrapped.
	HTTPClient *http.Client
}

// Client dispatches API calls through the transport selected for the
// runtime environment.
type Client struct {
	client      *http.Client
	base        http.RoundTripper
	transport   credential.Transport
	mode        environment.Mode
	baseURL     string
	origin      string
	proxyPrefix string
	userAgent   string

	hookMu         sync.RWMutex
	onUnauthorized []func()
}

// ErrOriginRequired is returned by New for a web-mode client without an origin.
var ErrOriginRequired = errors.New("client: origin is required in web mode")

func New(cfg Config, mode environment.Mode, tr credential.Transport) (*Client, error) {
	if mode == environment.ModeWeb && cfg.Origin == "" {
		return nil, ErrOriginRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBackendURL
	}
	if cfg.ProxyPrefix == "" {
		cfg.ProxyPrefix = defaultProxyPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if tr == nil {
		tr = credential.New(mode, nil)
	}

	httpClient := http.Client{}
	if cfg.HTTPClient != nil {
		httpClient = *cfg.HTTPClient
	}
	httpClient.Timeout = cfg.Timeout

	switch mode {
	case environment.ModeExtension:
		// cross-origin calls carry no first-party cookies
		httpClient.Jar = nil
	default:
		if httpClient.Jar == nil {
			jar, _ := cookiejar.New(nil)
			httpClient.Jar = jar
		}
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	c := &Client{
		client:      &httpClient,
		base:        base,
		transport:   tr,
		mode:        mode,
		baseURL:     cfg.BaseURL,
		origin:      cfg.Origin,
		proxyPrefix: cfg.ProxyPrefix,
		userAgent:   cfg.UserAgent,
	}
	httpClient.Transport = c

	slog.Debug(
		"client initialized",
		slog.String("mode", mode.String()),
		slog.String("transport", tr.Kind().String()),
		slog.String("module", "client"),
	)
	return c, nil
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	return c.base.RoundTrip(req)
}

func (c *Client) Mode() environment.Mode { return c.mode }

func (c *Client) Transport() credential.Transport { return c.transport }

// OnUnauthorized registers fn to run after a 401 has invalidated the
// stored credential.
func (c *Client) OnUnauthorized(fn func()) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

// URL resolves a resource path to the address the request is sent to.
func (c *Client) URL(path string) string {
	if c.transport.Kind() == credential.KindToken {
		return salesdesk.JoinURL(c.baseURL, path)
	}
	return salesdesk.JoinURL(c.origin+c.proxyPrefix, path)
}

// Dispatch issues an authenticated request and returns the raw response.
// The caller owns the response body.
func (c *Client) Dispatch(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return c.dispatch(ctx, method, path, body, true)
}

func (c *Client) dispatch(ctx context.Context, method, path string, body any, authenticate bool) (*http.Response, error) {
	var token string
	var hasToken bool
	if authenticate {
		var err error
		token, hasToken, err = c.transport.Read(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read credential")
		}
	}

	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.transport.Kind() == credential.KindToken && hasToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform request")
	}
	return resp, nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}
		return bytes.NewReader(encoded), nil
	}
}

type request struct {
	method   string
	path     string
	body     any
	out      any
	fallback string
	// public requests carry no credential and a 401 does not invalidate it.
	public bool
}

// Do issues an authenticated request and decodes a successful JSON response
// into out. Failures come back as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, request{
		method:   method,
		path:     path,
		body:     body,
		out:      out,
		fallback: genericFailureMessage,
	})
}

func (c *Client) do(ctx context.Context, r request) error {
	resp, err := c.dispatch(ctx, r.method, r.path, r.body, !r.public)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !r.public {
		c.invalidate(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, r.fallback)
	}

	if r.out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(r.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

// invalidate drops the stored credential after the backend rejected it.
func (c *Client) invalidate(ctx context.Context) {
	if err := c.transport.Clear(ctx); err != nil {
		slog.WarnContext(
			ctx, "failed to clear rejected credential",
			slog.String("error", err.Error()),
			slog.String("module", "client"),
		)
	}

	c.hookMu.RLock()
	hooks := append([]func(){}, c.onUnauthorized...)
	c.hookMu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}
