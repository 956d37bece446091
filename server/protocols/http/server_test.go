package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/config"
	"github.com/gear6io/mcwire/server/journal"
	"github.com/gear6io/mcwire/server/protocols/java"
	"github.com/gear6io/mcwire/server/protocols/java/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJava struct{}

func (fakeJava) GetStatus() map[string]interface{} {
	return map[string]interface{}{"port": 25565}
}

func (fakeJava) StatusDocument() java.StatusDocument {
	return java.StatusDocument{
		Version:     java.StatusVersion{Name: "mcwire", Protocol: 763},
		Players:     java.StatusPlayers{Max: 20, Online: 1},
		Description: java.ChatText{Text: "hello"},
	}
}

func (fakeJava) Sessions() []middleware.SessionInfo {
	return []middleware.SessionInfo{{SessionID: "01ABC", ClientAddr: "127.0.0.1:5000"}}
}

type fakeStore struct {
	sessions []journal.Session
	pingErr  error
}

func (f *fakeStore) Get(ctx context.Context, sessionID string) (*journal.Session, error) {
	for i := range f.sessions {
		if f.sessions[i].SessionID == sessionID {
			return &f.sessions[i], nil
		}
	}
	return nil, errors.New(journal.ErrJournalSessionAbsent, "no journal row for session", nil)
}

func (f *fakeStore) Recent(ctx context.Context, limit int) ([]journal.Session, error) {
	if limit > len(f.sessions) {
		limit = len(f.sessions)
	}
	return f.sessions[:limit], nil
}

func (f *fakeStore) Summarize(ctx context.Context) (journal.Summary, error) {
	return journal.Summary{Sessions: len(f.sessions)}, nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	return f.pingErr
}

func newTestServer(store SessionStore, gatherer prometheus.Gatherer) *Server {
	return NewServer(config.LoadDefaultConfig(), fakeJava{}, store, gatherer, zerolog.Nop())
}

func get(t *testing.T, s *Server, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded), string(body))
	return resp.StatusCode, decoded
}

func sampleStore() *fakeStore {
	return &fakeStore{sessions: []journal.Session{
		{ID: 2, SessionID: "s2", ClientAddr: "127.0.0.1:2", StartedAt: time.Now()},
		{ID: 1, SessionID: "s1", ClientAddr: "127.0.0.1:1", Username: "Steve", StartedAt: time.Now()},
	}}
}

func TestHealth(t *testing.T) {
	code, body := get(t, newTestServer(sampleStore(), nil), "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["journal"])
}

func TestHealthDegradedWhenJournalUnreachable(t *testing.T) {
	store := sampleStore()
	store.pingErr = errors.New(journal.ErrJournalUnreachable, "journal database unreachable", nil)

	code, body := get(t, newTestServer(store, nil), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])
}

func TestStatus(t *testing.T) {
	code, body := get(t, newTestServer(nil, nil), "/status")
	require.Equal(t, http.StatusOK, code)

	status := body["status"].(map[string]interface{})
	version := status["version"].(map[string]interface{})
	assert.Equal(t, "mcwire", version["name"])
	assert.EqualValues(t, 763, version["protocol"])
}

func TestLiveSessions(t *testing.T) {
	code, body := get(t, newTestServer(nil, nil), "/sessions")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])
}

func TestSessionHistory(t *testing.T) {
	s := newTestServer(sampleStore(), nil)

	code, body := get(t, s, "/sessions/history?limit=1")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])

	code, _ = get(t, s, "/sessions/history?limit=0")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSessionLookup(t *testing.T) {
	s := newTestServer(sampleStore(), nil)

	code, body := get(t, s, "/sessions/s1")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Steve", body["username"])

	code, body = get(t, s, "/sessions/missing")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "journal.session_not_found", body["code"])
}

func TestSessionSummary(t *testing.T) {
	code, body := get(t, newTestServer(sampleStore(), nil), "/sessions/summary")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["sessions"])
}

func TestJournalRoutesWithoutJournal(t *testing.T) {
	code, body := get(t, newTestServer(nil, nil), "/sessions/history")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "http.journal_disabled", body["code"])
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "mcwire_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := newTestServer(nil, reg)
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mcwire_test_total 1")
}

func TestMetricsRouteAbsentWithoutGatherer(t *testing.T) {
	code, _ := get(t, newTestServer(nil, nil), "/metrics")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStartStop(t *testing.T) {
	cfg := config.LoadDefaultConfig()
	cfg.HTTP.Address = config.LOCALHOST_ADDRESS
	cfg.HTTP.Port = 0

	s := NewServer(cfg, fakeJava{}, nil, nil, zerolog.Nop())
	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, s.Addr())

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get("http://" + s.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, 20*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop())
}
