package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mathops/records-service/internal/database"
	"github.com/mathops/records-service/internal/observability"
	"github.com/mathops/records-service/internal/schema"
)

const testStudent = "823251213"

var (
	legacyProfile = schema.Profile{
		Name:     "default",
		Prefixes: map[schema.Schema]string{schema.Legacy: ""},
	}
	archiveProfile = schema.Profile{
		Name:     "archive",
		Prefixes: map[schema.Schema]string{schema.Legacy: "archive"},
	}
	mainOnlyProfile = schema.Profile{
		Name:     "main-only",
		Prefixes: map[schema.Schema]string{schema.Main: "main"},
	}
)

type stubHealth struct {
	status database.HealthStatus
}

func (h stubHealth) Health(context.Context) database.HealthStatus {
	return h.status
}

type testServer struct {
	mock    pgxmock.PgxPoolIface
	server  *Server
	metrics *observability.Metrics
}

// newTestServer builds a server over a pgxmock pool. The default profile
// maps legacy tables to bare names.
func newTestServer(t *testing.T, cfg Config) *testServer {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	metrics := observability.NewMetricsWithRegistry("test", prometheus.NewRegistry())
	srv := NewServer(cfg, Deps{
		Pool:     mock,
		Health:   stubHealth{status: database.HealthStatus{Status: "healthy"}},
		Resolver: schema.NewPrefixResolver(legacyProfile),
		Profiles: schema.Profiles{
			legacyProfile.Name:   legacyProfile,
			archiveProfile.Name:  archiveProfile,
			mainOnlyProfile.Name: mainOnlyProfile,
		},
		Metrics: metrics,
		Logger:  zerolog.Nop(),
	})
	return &testServer{mock: mock, server: srv, metrics: metrics}
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, body io.Reader, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

// exactSQL quotes a statement for pgxmock's regexp matcher.
func exactSQL(s string) string {
	return "^" + regexp.QuoteMeta(s) + "$"
}
