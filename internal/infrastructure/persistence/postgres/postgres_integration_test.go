//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/imRyuukii/LoginPage/internal/config"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

func startPostgres(t *testing.T) *DBConnection {
	t.Helper()
	if os.Getenv("SKIP_DOCKER_TESTS") == "true" {
		t.Skip("Skipping Docker-dependent tests")
	}

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("loginpage"),
		tcpostgres.WithUsername("loginpage"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	conn, err := NewDBConnection(ctx, &config.DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     host,
		Port:     port.Int(),
		User:     "loginpage",
		Password: "password",
		Database: "loginpage",
		SSLMode:  "disable",
		MaxConns: 4,
		MinConns: 1,
	}, logger.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	require.NoError(t, conn.Migrate(ctx))
	return conn
}

func TestPostgres_RateLimitRepository(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()
	repo := NewRateLimitRepository(conn.DB(), conn.Dialect(), nil, logger.NewNoopLogger())

	require.NoError(t, repo.Insert(ctx, testIP, constants.ActionLogin))
	latest, err := repo.FindLatestInWindow(ctx, testIP, constants.ActionLogin, 15)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.NoError(t, repo.IncrementAttempts(ctx, latest.ID))

	sum, err := repo.SumAttemptsInWindow(ctx, testIP, constants.ActionLogin, 15)
	require.NoError(t, err)
	assert.Equal(t, 2, sum)

	rows, err := repo.Block(ctx, testIP, constants.ActionLogin, 30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.Block(ctx, testIP, constants.ActionLogin, 1)
	require.NoError(t, err)
	assert.Zero(t, rows)

	seconds, err := repo.SecondsUntilUnblocked(ctx, testIP, constants.ActionLogin)
	require.NoError(t, err)
	require.NotNil(t, seconds)
	assert.InDelta(t, 1800, *seconds, 5)

	require.NoError(t, conn.DB().Exec("UPDATE rate_limits SET last_attempt = NOW() - INTERVAL '8 days', blocked_until = NULL").Error)
	removed, err := repo.DeleteStale(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	health, err := conn.HealthCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, "postgres", health["driver"])
}

func TestPostgres_UserUniqueViolation(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()
	repo := NewUserRepository(conn.DB(), conn.Dialect(), logger.NewNoopLogger())

	require.NoError(t, repo.Create(ctx, mustUser(t, "alice", "alice@example.com")))
	err := repo.Create(ctx, mustUser(t, "alice", "alice2@example.com"))
	assert.True(t, errors.IsConflict(err))
}
