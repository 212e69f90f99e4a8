package monitoring

import (
	"fmt"
	"time"

	"github.com/JimLiu0/provider-dashboard/config"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the global hub. An empty DSN leaves error reporting off.
func InitSentry(config config.Config) error {
	if config.SentryDSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.SentryDSN,
		Environment:      config.Environment,
		Release:          "provider-dashboard@" + config.GeneralVersion,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	return nil
}

func CaptureError(err error, context map[string]any) {
	hub := sentry.CurrentHub()
	if hub == nil || hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range context {
			scope.SetExtra(k, v)
		}
		hub.CaptureException(err)
	})
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
