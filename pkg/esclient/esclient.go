// Package esclient implements quarry.Transport on the official Elasticsearch
// Go client.
//
// The transport only moves requests and responses. Retries, connection
// pooling and node discovery are configured on the underlying
// *elasticsearch.Client:
//
//	tr, err := esclient.New(esclient.Config{
//	    Addresses: []string{"http://localhost:9200"},
//	})
//	client := quarry.NewClient(tr)
package esclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/pthm/quarry"
)

// Config holds connection settings.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	APIKey    string
	// CACert is a PEM bundle used to verify the cluster's certificate.
	CACert []byte
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Client is a quarry.Transport backed by *elasticsearch.Client.
// It is safe for concurrent use.
type Client struct {
	es *elasticsearch.Client
}

// New creates a transport from cfg.
func New(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
		CACert:    cfg.CACert,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}
	return &Client{es: es}, nil
}

// NewFromClient wraps an existing client.
func NewFromClient(es *elasticsearch.Client) *Client {
	return &Client{es: es}
}

// Elasticsearch returns the underlying client.
func (c *Client) Elasticsearch() *elasticsearch.Client {
	return c.es
}

// Search implements quarry.Transport.
func (c *Client) Search(ctx context.Context, req quarry.Request) (quarry.Response, error) {
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	if req.Type != "" {
		return c.searchTyped(ctx, req, body)
	}

	opts := []func(*esapi.SearchRequest){
		c.es.Search.WithContext(ctx),
		c.es.Search.WithBody(body),
	}
	if req.Index != "" {
		opts = append(opts, c.es.Search.WithIndex(splitIndex(req.Index)...))
	}
	if req.Scroll != "" {
		keepAlive, err := ParseKeepAlive(req.Scroll)
		if err != nil {
			return nil, err
		}
		opts = append(opts, c.es.Search.WithScroll(keepAlive))
	}

	res, err := c.es.Search(opts...)
	if err != nil {
		return nil, err
	}
	return decode(res)
}

// searchTyped addresses /{index}/{type}/_search, which the typed API no
// longer exposes. Only clusters that still have mapping types accept it.
func (c *Client) searchTyped(ctx context.Context, req quarry.Request, body io.Reader) (quarry.Response, error) {
	path := "/" + url.PathEscape(req.Index) + "/" + url.PathEscape(req.Type) + "/_search"
	if req.Scroll != "" {
		path += "?scroll=" + url.QueryEscape(req.Scroll)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, fmt.Errorf("building typed search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpRes, err := c.es.Perform(httpReq)
	if err != nil {
		return nil, err
	}
	return decode(&esapi.Response{
		StatusCode: httpRes.StatusCode,
		Header:     httpRes.Header,
		Body:       httpRes.Body,
	})
}

// Scroll implements quarry.Transport.
func (c *Client) Scroll(ctx context.Context, req quarry.ScrollRequest) (quarry.Response, error) {
	opts := []func(*esapi.ScrollRequest){
		c.es.Scroll.WithContext(ctx),
		c.es.Scroll.WithScrollID(req.ScrollID),
	}
	if req.KeepAlive != "" {
		keepAlive, err := ParseKeepAlive(req.KeepAlive)
		if err != nil {
			return nil, err
		}
		opts = append(opts, c.es.Scroll.WithScroll(keepAlive))
	}

	res, err := c.es.Scroll(opts...)
	if err != nil {
		return nil, err
	}
	return decode(res)
}

// ClearScroll releases scroll cursors before their keep-alive expires.
func (c *Client) ClearScroll(ctx context.Context, scrollIDs ...string) error {
	if len(scrollIDs) == 0 {
		return nil
	}
	res, err := c.es.ClearScroll(
		c.es.ClearScroll.WithContext(ctx),
		c.es.ClearScroll.WithScrollID(scrollIDs...),
	)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	// 404 means the cursors already expired.
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return newResponseError(res)
	}
	return nil
}

// Ping checks that the cluster is reachable.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return newResponseError(res)
	}
	return nil
}

func encodeBody(body map[string]any) (io.Reader, error) {
	if body == nil {
		body = map[string]any{}
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encoding search body: %w", err)
	}
	return &buf, nil
}

func decode(res *esapi.Response) (quarry.Response, error) {
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, newResponseError(res)
	}

	// Numbers stay json.Number so document ids and counters past 2^53
	// survive intact.
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()

	var out quarry.Response
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}

func splitIndex(index string) []string {
	parts := strings.Split(index, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseKeepAlive converts an Elasticsearch time value ("5m", "30s", "1d",
// "500ms") into a duration.
func ParseKeepAlive(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, ok := strings.CutSuffix(s, "d"); ok {
		d, err := time.ParseDuration(n + "h")
		if err != nil {
			return 0, fmt.Errorf("invalid keep-alive %q: %w", s, err)
		}
		return d * 24, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid keep-alive %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid keep-alive %q: must be positive", s)
	}
	return d, nil
}

var _ quarry.Transport = (*Client)(nil)
