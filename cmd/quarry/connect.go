package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/lib/pq"              // registers the "postgres" driver

	"github.com/pthm/quarry"
	"github.com/pthm/quarry/internal/cli"
	"github.com/pthm/quarry/pkg/esclient"
	"github.com/pthm/quarry/pkg/sqlretriever"
)

// session holds the connections a query command needs.
type session struct {
	es     *esclient.Client
	client *quarry.Client
	db     *sql.DB
	loader *sqlretriever.Loader
}

// connect builds the transport from the loaded config and checks that the
// cluster answers.
func connect(ctx context.Context) (*session, error) {
	es, err := newTransport()
	if err != nil {
		return nil, err
	}
	if err := es.Ping(ctx); err != nil {
		return nil, cli.ConnectError("connecting to elasticsearch", err)
	}

	client, err := newQuarryClient(es)
	if err != nil {
		return nil, err
	}
	logger.Debug("connected", "addresses", cfg.Elasticsearch.Addresses)
	return &session{es: es, client: client}, nil
}

func newTransport() (*esclient.Client, error) {
	esCfg := esclient.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		APIKey:    cfg.Elasticsearch.APIKey,
	}
	if path := cfg.Elasticsearch.CACertFile; path != "" {
		pem, err := os.ReadFile(path)
		if err != nil {
			return nil, cli.ConfigError("reading elasticsearch.ca_cert_file", err)
		}
		esCfg.CACert = pem
	}

	es, err := esclient.New(esCfg)
	if err != nil {
		return nil, cli.ConfigError("configuring elasticsearch", err)
	}
	return es, nil
}

func newQuarryClient(t quarry.Transport) (*quarry.Client, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, cli.ConfigError("resolving timezone", err)
	}
	return quarry.NewClient(t,
		quarry.WithLogger(logger),
		quarry.WithLocation(loc),
		quarry.WithMaxResultWindow(cfg.MaxResultWindow),
		quarry.WithDefaultSize(cfg.DefaultSize),
	), nil
}

// openRetriever connects to the retriever database when one is configured.
// It is a no-op otherwise.
func (s *session) openRetriever(ctx context.Context) error {
	if !cfg.RetrieverEnabled() {
		return nil
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return cli.ConfigError("building retriever DSN", err)
	}

	db, err := sql.Open(cfg.Retriever.Driver, dsn)
	if err != nil {
		return cli.ConnectError("opening retriever database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return cli.ConnectError("connecting to retriever database", err)
	}

	loader, err := sqlretriever.New(db, sqlretriever.Config{
		Schema:  cfg.Retriever.Schema,
		Table:   cfg.Retriever.Table,
		Key:     cfg.Retriever.Key,
		Columns: cfg.Retriever.Columns,
	})
	if err != nil {
		_ = db.Close()
		return cli.ConfigError("configuring retriever", err)
	}

	logger.Debug("retriever enabled", "driver", cfg.Retriever.Driver, "table", cfg.Retriever.Table)
	s.db = db
	s.loader = loader
	return nil
}

// retriever returns the row loader, or nil when rows come from the hits.
func (s *session) retriever() quarry.Retriever {
	if s.loader == nil {
		return nil
	}
	return s.loader.Retriever()
}

func (s *session) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing retriever database: %w", err)
	}
	return nil
}
