package quarry

import (
	"io"
	"log/slog"
	"time"
)

// Client binds a Transport to the settings every query shares. It replaces
// process-wide default hosts: construct one per cluster and pass it around.
//
// A Client is immutable after NewClient returns and safe for concurrent use.
// The Queries it creates are not; each belongs to a single caller.
type Client struct {
	transport       Transport
	tracer          Tracer
	logger          *slog.Logger
	location        *time.Location
	maxResultWindow int
	defaultSize     int
}

// Option configures a Client.
type Option func(*Client)

// WithMaxResultWindow sets the index's max_result_window. Paginate caps the
// last page so that from+size never exceeds it. Values below 1 are ignored.
func WithMaxResultWindow(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResultWindow = n
		}
	}
}

// WithLocation sets the zone used to interpret naive datetimes in range
// predicates and sent as the range time_zone. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithDefaultSize sets the size used when a query does not call Limit.
func WithDefaultSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.defaultSize = n
		}
	}
}

// WithLogger sets the logger used for request-level debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer replaces the default OpenTelemetry tracer. Use NopTracer{} to
// disable tracing.
func WithTracer(t Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// NewClient creates a client that executes queries through t.
func NewClient(t Transport, opts ...Option) *Client {
	c := &Client{
		transport:       t,
		tracer:          OTelTracer{},
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		location:        time.Local,
		maxResultWindow: DefaultMaxResultWindow,
		defaultSize:     DefaultSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query starts a new query against index.
func (c *Client) Query(index string) *Query {
	q := newQuery(c)
	q.index = index
	return q
}

// MaxResultWindow returns the configured result-window ceiling.
func (c *Client) MaxResultWindow() int {
	return c.maxResultWindow
}

// Location returns the zone used for date ranges.
func (c *Client) Location() *time.Location {
	return c.location
}
