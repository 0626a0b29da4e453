package util

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitReporting enables Sentry when dsn is set. It reports whether events
// will be sent.
func InitReporting(dsn, environment string) bool {
	if dsn == "" {
		return false
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		log.Printf("ERROR: Failed to initialize Sentry: %v", err)
		return false
	}
	return true
}

// ReportError logs err and forwards it to the request's Sentry hub, tagged
// with the operation that failed.
func ReportError(ctx context.Context, operation string, err error) {
	log.Printf("ERROR: %s: %v", operation, err)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", operation)
		hub.CaptureException(err)
	})
}

func FlushReporting() {
	sentry.Flush(2 * time.Second)
}
