package logging

import "context"

// Context keys for logging values. Using private types avoids collisions
// with keys set by other packages.
type contextKey int

const (
	sessionIDKey contextKey = iota
	componentKey
	actorKey
)

// WithSyncSession adds a sync-session id to the context (analogous to the
// teacher's WithSession — here the "session" is one push/pull/resolve
// pipeline run, not an agent session).
func WithSyncSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithComponent adds a component name (e.g. "sync", "statebranch",
// "gitadapter") to the context so log lines can be attributed to a
// subsystem.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithActor adds the authenticated actor id driving the current
// operation.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if v := ctx.Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
