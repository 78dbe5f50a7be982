//go:build integration

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/mathops/records-service/internal/config"
	"github.com/mathops/records-service/internal/observability"
)

const migrationsDir = "../../migrations"

func startPostgres(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("student_records"),
		postgres.WithUsername("records"),
		postgres.WithPassword("records"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	parsed, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)

	db, err := New(ctx, &config.DatabaseConfig{
		Host:              parsed.ConnConfig.Host,
		Port:              int(parsed.ConnConfig.Port),
		User:              parsed.ConnConfig.User,
		Password:          parsed.ConnConfig.Password,
		Name:              parsed.ConnConfig.Database,
		SSLMode:           "disable",
		MaxConns:          4,
		MinConns:          1,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: time.Minute,
		ConnectTimeout:    10 * time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func TestDB_Integration(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	m, err := NewMigrator(db, migrationsDir, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Up())

	t.Run("health and pool stats", func(t *testing.T) {
		require.NoError(t, db.Ping(ctx))

		health := db.Health(ctx)
		assert.Equal(t, "healthy", health.Status)
		assert.Empty(t, health.Error)
		assert.Equal(t, int32(4), health.MaxConns)

		metrics := observability.NewMetricsWithRegistry("test_db", prometheus.NewRegistry())
		db.PublishStats(metrics)
		total := testutil.ToFloat64(metrics.PoolConnections.WithLabelValues("total"))
		assert.GreaterOrEqual(t, total, float64(1))
	})

	t.Run("committed transaction is visible", func(t *testing.T) {
		err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, "INSERT INTO parameters (pgm_name, parm1) VALUES ($1, $2)", "CHECKIN", "Y")
			return err
		})
		require.NoError(t, err)

		var parm1 string
		require.NoError(t, db.QueryRow(ctx, "SELECT trim(parm1) FROM parameters WHERE pgm_name = $1", "CHECKIN").Scan(&parm1))
		assert.Equal(t, "Y", parm1)
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		boom := errors.New("abort")
		err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, "UPDATE parameters SET parm1 = $1 WHERE pgm_name = $2", "N", "CHECKIN"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		var parm1 string
		require.NoError(t, db.QueryRow(ctx, "SELECT trim(parm1) FROM parameters WHERE pgm_name = $1", "CHECKIN").Scan(&parm1))
		assert.Equal(t, "Y", parm1)
	})

	t.Run("read-only transaction rejects writes", func(t *testing.T) {
		err := db.WithReadOnlyTransaction(ctx, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, "DELETE FROM parameters")
			return err
		})
		require.Error(t, err)
		assert.Equal(t, "25006", pgCode(err))
	})

	t.Run("serializable transaction and batch", func(t *testing.T) {
		var count int
		err := db.WithSerializableTransaction(ctx, func(tx pgx.Tx) error {
			return tx.QueryRow(ctx, "SELECT count(*) FROM parameters").Scan(&count)
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		batch := &pgx.Batch{}
		batch.Queue("SELECT count(*) FROM stexam")
		batch.Queue("SELECT count(*) FROM main.facility")
		br := db.SendBatch(ctx, batch)
		var exams, facilities int
		require.NoError(t, br.QueryRow().Scan(&exams))
		require.NoError(t, br.QueryRow().Scan(&facilities))
		require.NoError(t, br.Close())
		assert.Zero(t, exams)
		assert.Zero(t, facilities)
	})

	t.Run("migrator steps", func(t *testing.T) {
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
		assert.False(t, dirty)

		require.NoError(t, m.Steps(-1))
		_, err = db.Exec(ctx, "SELECT 1 FROM main.facility")
		assert.Equal(t, "42P01", pgCode(err))

		require.NoError(t, m.Up())
		_, err = db.Exec(ctx, "SELECT 1 FROM main.facility")
		assert.NoError(t, err)
	})

	t.Run("drop all", func(t *testing.T) {
		require.NoError(t, m.DropAll())
		_, err := db.Exec(ctx, "SELECT 1 FROM stexam")
		assert.Equal(t, "42P01", pgCode(err))
	})
}
