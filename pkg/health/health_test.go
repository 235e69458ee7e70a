package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, fn http.HandlerFunc) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestReadyEndpoint_GatedBySetReady(t *testing.T) {
	h := New()

	code, body := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])

	h.SetReady(true)
	code, body = probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	h.SetReady(false)
	code, _ = probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestLiveEndpoint_ReflectsCheckState(t *testing.T) {
	h := New()
	var failing atomic.Bool
	h.AddLivenessCheck("flaky", time.Second, func(context.Context) error {
		if failing.Load() {
			return errors.New("broken pipe")
		}
		return nil
	})

	// Checks start healthy before the first run.
	code, _ := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx, 10*time.Millisecond)
	defer h.Stop()

	failing.Store(true)
	require.Eventually(t, func() bool {
		code, _ := probe(t, h.LiveEndpoint)
		return code == http.StatusServiceUnavailable
	}, time.Second, 10*time.Millisecond)

	_, body := probe(t, h.LiveEndpoint)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "broken pipe", checks["flaky"])

	failing.Store(false)
	require.Eventually(t, func() bool {
		code, _ := probe(t, h.LiveEndpoint)
		return code == http.StatusOK
	}, time.Second, 10*time.Millisecond)
}

func TestReadyEndpoint_FailingCheckBlocksReadiness(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("backend", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx, 10*time.Millisecond)
	defer h.Stop()

	require.Eventually(t, func() bool {
		code, _ := probe(t, h.ReadyEndpoint)
		return code == http.StatusServiceUnavailable
	}, time.Second, 10*time.Millisecond)

	// Liveness is unaffected by readiness checks.
	code, _ := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
}

func TestCheckTimeout(t *testing.T) {
	h := New()
	h.AddReadinessCheck("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	h.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx, 10*time.Millisecond)
	defer h.Stop()

	require.Eventually(t, func() bool {
		code, _ := probe(t, h.ReadyEndpoint)
		return code == http.StatusServiceUnavailable
	}, time.Second, 10*time.Millisecond)
}
