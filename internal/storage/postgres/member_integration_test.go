//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/order-core/internal/domain/member"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := testcontainers.Run(ctx, "postgres:17-alpine",
		testcontainers.WithExposedPorts("5432/tcp"),
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_USER":     "order",
			"POSTGRES_PASSWORD": "order",
			"POSTGRES_DB":       "order",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://order:order@%s:%s/order?sslmode=disable", host, port.Port())
	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	// Schema is idempotent.
	require.NoError(t, RunMigrations(ctx, pool))

	return pool
}

func TestNewPool_ApplicationName(t *testing.T) {
	pool := startPostgres(t)

	var name string
	err := pool.QueryRow(context.Background(), "SELECT current_setting('application_name')").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, applicationName, name)
}

func TestMemberRepository(t *testing.T) {
	pool := startPostgres(t)
	repo := NewMemberRepository(pool)
	ctx := context.Background()

	t.Run("save and find", func(t *testing.T) {
		m := member.Member{ID: 1, Name: "memberA", Grade: member.GradeVIP}
		require.NoError(t, repo.Save(ctx, m))

		got, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, member.Member{ID: 2, Name: "old", Grade: member.GradeVIP}))
		require.NoError(t, repo.Save(ctx, member.Member{ID: 2, Name: "new", Grade: member.GradeBasic}))

		got, err := repo.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "new", got.Name)
		assert.Equal(t, member.GradeBasic, got.Grade)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 404)
		require.ErrorIs(t, err, member.ErrNotFound)
	})
}
