package sensu

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// PageFetcher is the read path the fetch engine depends on.
type PageFetcher interface {
	FetchPage(ctx context.Context, query PageQuery) (Page, error)
}

// Ensure Client implements PageFetcher at compile time.
var _ PageFetcher = (*Client)(nil)

// Client talks to the Sensu Go backend API.
type Client struct {
	baseURL   *url.URL
	namespace string
	http      *http.Client
	userAgent string
	logger    *slog.Logger
	auth      *authState
}

// authState is shared by every namespace-scoped copy of a Client so that a
// credential change reaches all of them.
type authState struct {
	mu    sync.RWMutex
	creds Credentials
}

const (
	apiVersion            = "core/v2"
	continueHeader        = "Sensu-Continue"
	requestIDHeader       = "X-Request-ID"
	defaultNamespace      = "default"
	defaultUserAgent      = "tensu/0.1"
	defaultRequestTimeout = 10 * time.Second
	maxErrorBody          = 4 << 10
)

// Options configure a Client.
type Options struct {
	URL                string
	Namespace          string
	Credentials        Credentials
	InsecureSkipVerify bool
	Timeout            time.Duration
	Logger             *slog.Logger
}

// NewClient builds a Client for the backend at opts.URL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // verify_certs = false
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	namespace := strings.TrimSpace(opts.Namespace)
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &Client{
		baseURL:   base,
		namespace: namespace,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: defaultUserAgent,
		logger:    logger,
		auth:      &authState{creds: opts.Credentials},
	}, nil
}

// Namespace returns the namespace all resource requests are scoped to.
func (c *Client) Namespace() string {
	return c.namespace
}

// WithNamespace returns a copy of the client scoped to another namespace.
// The copy shares the HTTP transport and the credentials.
func (c *Client) WithNamespace(namespace string) *Client {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &Client{
		baseURL:   c.baseURL,
		namespace: namespace,
		http:      c.http,
		userAgent: c.userAgent,
		logger:    c.logger,
		auth:      c.auth,
	}
}

// SetCredentials swaps the credentials used for subsequent requests.
func (c *Client) SetCredentials(creds Credentials) {
	c.auth.mu.Lock()
	defer c.auth.mu.Unlock()
	c.auth.creds = creds
}

// Credentials returns the credentials currently attached to requests.
func (c *Client) Credentials() Credentials {
	c.auth.mu.RLock()
	defer c.auth.mu.RUnlock()
	return c.auth.creds
}

// PageQuery selects one page of a resource collection.
type PageQuery struct {
	Resource      string
	FieldSelector string
	LabelSelector string
	Continue      string
	Limit         int
}

// Page is one page of a resource collection. An empty Continue means the
// collection has been read to the end.
type Page struct {
	Items    []Item
	Continue string
}

// FetchPage retrieves a single page of a namespaced resource collection.
func (c *Client) FetchPage(ctx context.Context, query PageQuery) (Page, error) {
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	resource := strings.Trim(strings.TrimSpace(query.Resource), "/")
	if resource == "" {
		return Page{}, fmt.Errorf("resource required")
	}
	values := url.Values{}
	values.Set("fieldSelector", query.FieldSelector)
	values.Set("labelSelector", query.LabelSelector)
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Continue != "" {
		values.Set("continue", query.Continue)
	}
	rel := &url.URL{Path: c.namespacedPath(resource), RawQuery: values.Encode()}

	var items []Item
	header, err := c.doURL(ctx, http.MethodGet, rel, nil, &items)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Continue: header.Get(continueHeader)}, nil
}

// FetchEvent retrieves a single event by entity and check name.
func (c *Client) FetchEvent(ctx context.Context, entity, check string) (Item, error) {
	if entity == "" || check == "" {
		return nil, fmt.Errorf("entity and check required")
	}
	var event Item
	path := c.namespacedPath("events/" + entity + "/" + check)
	if _, err := c.do(ctx, http.MethodGet, path, nil, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// FetchNamespaces lists the namespaces visible to the current credentials.
func (c *Client) FetchNamespaces(ctx context.Context) ([]string, error) {
	var payload []struct {
		Name string `json:"name"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/"+apiVersion+"/namespaces", nil, &payload); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(payload))
	for _, ns := range payload {
		if ns.Name != "" {
			names = append(names, ns.Name)
		}
	}
	return names, nil
}

func (c *Client) namespacedPath(rest string) string {
	return "/api/" + apiVersion + "/namespaces/" + c.namespace + "/" + rest
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) (http.Header, error) {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) (http.Header, error) {
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + rel.Path
	reqURL.RawQuery = rel.RawQuery
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if auth := c.Credentials().Header(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL.String(), "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Method: method, URL: reqURL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("api error", "status", resp.StatusCode, "request_id", requestID)
		return resp.Header, &RequestError{
			Method:     method,
			URL:        reqURL.String(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	if dest == nil {
		return resp.Header, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.Header, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.Header, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return resp.Header, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("backend url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
