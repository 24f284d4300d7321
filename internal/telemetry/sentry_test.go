package telemetry

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/bugai/backend/internal/config"
)

// mockTransport implements sentry.Transport for testing
type mockTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (t *mockTransport) Configure(_ sentry.ClientOptions) {}

func (t *mockTransport) SendEvent(event *sentry.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *mockTransport) Flush(_ time.Duration) bool { return true }

func (t *mockTransport) FlushWithContext(_ context.Context) bool { return true }

func (t *mockTransport) Close() {}

func (t *mockTransport) Events() []*sentry.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*sentry.Event(nil), t.events...)
}

func TestNewWithoutDSN(t *testing.T) {
	r, err := New(config.SentryConfig{}, "test")
	require.NoError(t, err)
	assert.Nil(t, r)

	assert.NotPanics(t, func() {
		r.CaptureRequestError(errors.New("boom"), nil, "")
		assert.True(t, r.Flush(time.Millisecond))
	})
}

func TestCaptureRequestError(t *testing.T) {
	transport := &mockTransport{}
	r, err := newReporter(sentry.ClientOptions{Transport: transport, Environment: "test"})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/cases", nil)
	req.Header.Set("Authorization", "Bearer secret")

	r.CaptureRequestError(errors.New("database exploded"), req, "/api/cases")
	r.Flush(time.Second)

	events := transport.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "/api/cases", events[0].Tags["route"])
	require.NotNil(t, events[0].Request)
	assert.NotContains(t, events[0].Request.Headers, "Authorization")
}
