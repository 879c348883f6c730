package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Image tags used by the integration tests.
const (
	PostgresImage      = "postgres:18-alpine"
	ElasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.17.0"
	elasticPassword    = "quarry-test"
)

// ElasticSettings describes how to reach the test cluster.
type ElasticSettings struct {
	Address  string
	Username string
	Password string
	CACert   []byte
}

// Singleton container state. Containers are not terminated explicitly;
// ryuk removes them when the test binary exits.
var (
	postgresOnce sync.Once
	postgresDSN  string
	postgresErr  error

	elasticOnce     sync.Once
	elasticSettings ElasticSettings
	elasticErr      error
)

func ensurePostgres() (string, error) {
	postgresOnce.Do(func() {
		ctx := context.Background()

		container, err := postgres.Run(ctx,
			PostgresImage,
			postgres.WithDatabase("quarry"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			postgresErr = fmt.Errorf("failed to start PostgreSQL container: %w", err)
			return
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = container.Terminate(ctx)
			postgresErr = fmt.Errorf("failed to get PostgreSQL connection string: %w", err)
			return
		}
		postgresDSN = dsn
	})
	return postgresDSN, postgresErr
}

func ensureElastic() (ElasticSettings, error) {
	elasticOnce.Do(func() {
		ctx := context.Background()

		container, err := elasticsearch.Run(ctx,
			ElasticsearchImage,
			elasticsearch.WithPassword(elasticPassword),
		)
		if err != nil {
			elasticErr = fmt.Errorf("failed to start Elasticsearch container: %w", err)
			return
		}

		elasticSettings = ElasticSettings{
			Address:  container.Settings.Address,
			Username: "elastic",
			Password: container.Settings.Password,
			CACert:   container.Settings.CACert,
		}
	})
	return elasticSettings, elasticErr
}

// PostgresDSN returns the DSN of a shared PostgreSQL container, starting it
// on first use.
func PostgresDSN(tb testing.TB) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping container test in short mode")
	}

	dsn, err := ensurePostgres()
	require.NoError(tb, err, "failed to start PostgreSQL container")
	return dsn
}

// Elastic returns connection settings for a shared Elasticsearch container,
// starting it on first use.
func Elastic(tb testing.TB) ElasticSettings {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping container test in short mode")
	}

	settings, err := ensureElastic()
	require.NoError(tb, err, "failed to start Elasticsearch container")
	return settings
}
