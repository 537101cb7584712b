package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsreel/internal/logger"
	"newsreel/internal/state"
)

func TestMain(m *testing.M) {
	logger.Init()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeScheduler struct {
	next   time.Time
	active int
}

func (f *fakeScheduler) NextRun() time.Time { return f.next }
func (f *fakeScheduler) ActiveJobs() int    { return f.active }

func newTestServer(t *testing.T) (*gin.Engine, *state.File) {
	t.Helper()
	flag := state.NewFile(filepath.Join(t.TempDir(), "state.json"))
	sched := &fakeScheduler{next: time.Date(2026, 1, 2, 9, 17, 0, 0, time.UTC), active: 1}
	server := NewServer(flag, sched, "probe-token")
	return server.Router("admin", "secret"), flag
}

func get(router *gin.Engine, path, user, pass string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != "" {
		req.SetBasicAuth(user, pass)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func post(router *gin.Engine, path, user, pass string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if user != "" {
		req.SetBasicAuth(user, pass)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStatusRequiresAuth(t *testing.T) {
	router, _ := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, get(router, "/status", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/status", "admin", "wrong").Code)
	assert.Equal(t, http.StatusOK, get(router, "/status", "admin", "secret").Code)
}

func TestStartStopFlipState(t *testing.T) {
	router, flag := newTestServer(t)

	assert.Equal(t, state.Paused, flag.Get())

	w := post(router, "/start", "admin", "secret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state.Running, flag.Get())

	w = post(router, "/stop", "admin", "secret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state.Paused, flag.Get())
}

func TestStartRequiresAuth(t *testing.T) {
	router, flag := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, post(router, "/start", "", "").Code)
	assert.Equal(t, state.Paused, flag.Get())
}

func TestHealthTokenGate(t *testing.T) {
	router, _ := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, get(router, "/health", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/health?token=wrong", "", "").Code)
	assert.Equal(t, http.StatusOK, get(router, "/health?token=probe-token", "", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Auth-Token", "probe-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthPayload(t *testing.T) {
	router, flag := newTestServer(t)
	require.NoError(t, flag.Set(state.Running))

	w := get(router, "/health?token=probe-token", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, state.Running, body["status"])
	assert.Equal(t, "2026-01-02T09:17:00Z", body["next_run"])
	assert.Equal(t, float64(1), body["active_jobs"])
	assert.Contains(t, body, "metrics")
}

func TestHomeIsPublic(t *testing.T) {
	router, _ := newTestServer(t)
	assert.Equal(t, http.StatusOK, get(router, "/", "", "").Code)
}
