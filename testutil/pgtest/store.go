package pgtest

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/config"
)

const (
	envDSN         = "TEST_POSTGRES_DSN"
	envAdapterType = "ADAPTER_TYPE"
)

// Config returns the pool settings used in tests, on the driver chosen by ADAPTER_TYPE.
func Config(dsn string) config.PostgresConfig {
	driver := strings.ToLower(os.Getenv(envAdapterType))
	if driver == "" {
		driver = config.DriverPGX
	}

	return config.PostgresConfig{
		DSN:             dsn,
		Driver:          driver,
		MaxConns:        5,
		MinConns:        1,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: time.Minute,
		ConnectTimeout:  5 * time.Second,
	}
}

// NewStore returns a migrated store on the test database. The connections are closed with t.
func NewStore(t testing.TB, options ...postgresstore.Option) postgresstore.Store {
	t.Helper()

	dsn := os.Getenv(envDSN)
	if dsn == "" {
		t.Skipf("%s is not set", envDSN)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := config.NewStore(ctx, Config(dsn), options...)
	require.NoError(t, err, "connecting to the test database")
	t.Cleanup(closeStore)

	require.NoError(t, store.Migrate(ctx), "migrating the test database")

	return store
}
