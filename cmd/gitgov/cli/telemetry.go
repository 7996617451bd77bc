package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/gitgovernance/gitgov/internal/config"
)

// TelemetryOptOutEnvVar disables telemetry unconditionally, the same
// override polarity the teacher CLI honors before looking at settings.
const TelemetryOptOutEnvVar = "GITGOV_TELEMETRY_OPTOUT"

// postHogAPIKey and postHogEndpoint are placeholders; a real deployment
// overrides them at build time via -ldflags.
var (
	postHogAPIKey   = "phc_development_key"
	postHogEndpoint = "https://eu.i.posthog.com"
)

type postHogTelemetry struct {
	client    posthog.Client
	machineID string
}

type silentLogger struct{}

func (silentLogger) Logf(_ string, _ ...interface{})   {}
func (silentLogger) Debugf(_ string, _ ...interface{}) {}
func (silentLogger) Warnf(_ string, _ ...interface{})  {}
func (silentLogger) Errorf(_ string, _ ...interface{}) {}

// newTelemetryClient builds a collab.Telemetry wired to PostHog when
// cfg.Telemetry opts in, defaulting to disabled (nil/false) the same
// way the teacher's settings.telemetry does.
func newTelemetryClient(cfg *config.Config) *postHogTelemetry {
	if os.Getenv(TelemetryOptOutEnvVar) != "" {
		return nil
	}
	if cfg.Telemetry == nil || !*cfg.Telemetry {
		return nil
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 150 * time.Millisecond,
		}).DialContext,
		TLSHandshakeTimeout:   150 * time.Millisecond,
		ResponseHeaderTimeout: 150 * time.Millisecond,
	}
	client, err := posthog.NewWithConfig(postHogAPIKey, posthog.Config{
		Endpoint:           postHogEndpoint,
		ShutdownTimeout:    150 * time.Millisecond,
		BatchUploadTimeout: 250 * time.Millisecond,
		Transport:          transport,
		Logger:             silentLogger{},
		DisableGeoIP:       posthog.Ptr(true),
		DefaultEventProperties: posthog.NewProperties().
			Set("os", runtime.GOOS).
			Set("arch", runtime.GOARCH),
	})
	if err != nil {
		return nil
	}
	return &postHogTelemetry{client: client, machineID: uuid.NewString()}
}

// Track fires a best-effort telemetry event. A nil receiver (telemetry
// disabled) makes this a safe no-op, so callers don't need to branch on
// whether a client was constructed.
func (t *postHogTelemetry) Track(_ context.Context, event string, properties map[string]any) {
	if t == nil || t.client == nil {
		return
	}
	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	_ = t.client.Enqueue(posthog.Capture{
		DistinctId: t.machineID,
		Event:      event,
		Properties: props,
	})
}

func (t *postHogTelemetry) Close() {
	if t != nil && t.client != nil {
		_ = t.client.Close()
	}
}
