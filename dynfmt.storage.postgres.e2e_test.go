//go:build integration

package dynfmt

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts an ephemeral PostgreSQL container and returns its DSN.
func setupPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("dynfmt_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")
	return connStr
}

func TestPostgresStorage_Integration(t *testing.T) {
	connStr := setupPostgresContainer(t)

	runStorageConformance(t, func(t *testing.T) DictionaryStorage {
		storage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			AutoMigrate:      true,
		})
		require.NoError(t, err)
		_, err = storage.db.Exec(fmt.Sprintf("DELETE FROM %s", storage.tableName()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = storage.Close() })
		return storage
	})
}

func TestPostgresStorage_MigrationsIdempotent(t *testing.T) {
	connStr := setupPostgresContainer(t)
	ctx := context.Background()

	storage, err := NewPostgresStorage(PostgresConfig{ConnectionString: connStr, AutoMigrate: true})
	require.NoError(t, err)
	defer storage.Close()

	require.NoError(t, storage.RunMigrations(ctx))

	var count int
	err = storage.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s", storage.migrationsTableName())).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(postgresMigrations), count)
}

func TestPostgresStorage_DriverAndFormatter(t *testing.T) {
	connStr := setupPostgresContainer(t)
	ctx := context.Background()

	storage, err := OpenStorage(StorageDriverNamePostgres, connStr)
	require.NoError(t, err)
	defer storage.Close()

	require.NoError(t, storage.Save(ctx, &StoredDictionary{
		Name:    "pg",
		Entries: map[string]string{"db": "postgres", "quote": `"quoted" {braces}`},
	}))

	f := MustNew(WithStorage(NewCachedStorage(storage, DefaultCacheConfig())))
	out, err := f.FormatNamed(ctx, "{db}: {quote}", "pg")
	require.NoError(t, err)
	assert.Equal(t, `postgres: "quoted" {braces}`, out)
}
