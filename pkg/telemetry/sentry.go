package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/inventory/pkg/config"
)

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
// Errors for which expected reports true (4xx domain errors) are never sent.
func SetupSentry(cfg *config.Config, expected func(error) bool) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentryOptions(cfg, expected)); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

func sentryOptions(cfg *config.Config, expected func(error) bool) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: 0.2,
		BeforeSend:       beforeSend(cfg, expected),
	}
}

// beforeSend tags every event with the service identity and drops events
// whose original error is an expected client error.
func beforeSend(cfg *config.Config, expected func(error) bool) func(*sentry.Event, *sentry.EventHint) *sentry.Event {
	return func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
		if hint != nil && expected != nil {
			if err := hint.OriginalException; err != nil && expected(err) {
				return nil
			}
			if err, ok := hint.RecoveredException.(error); ok && err != nil && expected(err) {
				return nil
			}
		}
		if event.Tags == nil {
			event.Tags = make(map[string]string, 3)
		}
		event.Tags["service"] = cfg.ServiceName
		event.Tags["service.version"] = cfg.ServiceVersion
		event.Tags["environment"] = cfg.Environment
		return event
	}
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware returns a net/http middleware that captures panics.
// Repanic: true so the outer Recovery middleware still writes the 500 response.
func SentryMiddleware() func(http.Handler) http.Handler {
	h := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return h.Handle
}
