// Package telemetry reports unexpected server errors to Sentry.
package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/emilythestrangee/bugai/backend/internal/config"
)

// Reporter sends errors to Sentry. A nil *Reporter is a valid no-op.
type Reporter struct {
	hub *sentry.Hub
}

// New returns nil when no DSN is configured
func New(cfg config.SentryConfig, release string) (*Reporter, error) {
	if cfg.DSN == "" {
		return nil, nil
	}
	return newReporter(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     release,
		SampleRate:  1.0,
		ServerName:  "",
	})
}

func newReporter(opts sentry.ClientOptions) (*Reporter, error) {
	opts.BeforeSend = scrubRequest
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("sentry initialization failed: %w", err)
	}
	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// scrubRequest drops credentials before an event leaves the process
func scrubRequest(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request != nil {
		delete(event.Request.Headers, "Authorization")
		delete(event.Request.Headers, "Cookie")
		event.Request.Cookies = ""
		event.Request.Data = ""
	}
	return event
}

// CaptureRequestError reports err along with the route it happened on
func (r *Reporter) CaptureRequestError(err error, req *http.Request, route string) {
	if r == nil || err == nil {
		return
	}
	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		if req != nil {
			scope.SetRequest(req)
		}
		if route != "" {
			scope.SetTag("route", route)
		}
		hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent
func (r *Reporter) Flush(timeout time.Duration) bool {
	if r == nil {
		return true
	}
	return r.hub.Flush(timeout)
}
