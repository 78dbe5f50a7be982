package repository

import (
	"regexp"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/mathops/records-service/internal/observability"
	"github.com/mathops/records-service/internal/schema"
)

var testProfile = schema.Profile{
	Name: "test",
	Prefixes: map[schema.Schema]string{
		schema.Legacy: "",
		schema.Main:   "main",
	},
}

// newMockStore returns a pgxmock pool and a Store over it that resolves
// legacy tables to bare names and main tables to "main.<table>".
func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *Store, *observability.Metrics) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	metrics := observability.NewMetricsWithRegistry("test", prometheus.NewRegistry())
	store := NewStore(mock, schema.NewPrefixResolver(testProfile), metrics)
	return mock, store, metrics
}

// exactSQL quotes a statement for pgxmock's regexp matcher.
func exactSQL(s string) string {
	return "^" + regexp.QuoteMeta(s) + "$"
}

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

// dbDate is the driver value bound for a date column.
func dbDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func int32Ptr(n int32) *int32 { return &n }

func int64Ptr(n int64) *int64 { return &n }
