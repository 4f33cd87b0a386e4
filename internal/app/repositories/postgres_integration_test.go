package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yigit/admission/internal/app/migrations"
	"github.com/yigit/admission/internal/app/repositories"
)

// setupPostgres starts a throwaway Postgres and migrates it. It runs on every
// full test run and skips only under -short or without a Docker daemon.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Postgres contract tests need Docker; skipped with -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "admission",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrator := migrations.NewMigrator(pool, zerolog.Nop())
	applied, err := migrator.MigrateFromDirectory(ctx, "../../../migrations")
	require.NoError(t, err)
	require.Positive(t, applied)

	// A second run finds everything recorded
	applied, err = migrator.MigrateFromDirectory(ctx, "../../../migrations")
	require.NoError(t, err)
	require.Zero(t, applied)

	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := setupPostgres(t)

	runRepositoryContract(t, func(t *testing.T) *repositories.Repositories {
		_, err := pool.Exec(context.Background(),
			`TRUNCATE payments, aspirations, majors, universities, exams, candidates, users RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
		return repositories.NewRepositories(pool)
	})
}
