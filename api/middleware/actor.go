package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Teffi0/server/pkg/logger"
)

const actorIDHeader = "X-Actor-Id"

type contextKey string

const ctxActorID contextKey = "actor_id"

// ActorIDFromContext returns the acting user id, or 0 when the gateway sent
// none. Audit rows with actor 0 mean "unattributed".
func ActorIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxActorID).(int64); ok {
		return v
	}
	return 0
}

// WithActorID injects the acting user id into the context.
func WithActorID(ctx context.Context, actorID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActorID, actorID)
}

// Actor extracts the acting user from the gateway header. Session issuance
// and verification live in the gateway; this API only attributes changes.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if raw := r.Header.Get(actorIDHeader); raw != "" {
				if actorID, err := strconv.ParseInt(raw, 10, 64); err == nil && actorID > 0 {
					ctx = WithActorID(ctx, actorID)
					if logg != nil {
						ctx = logg.WithActorID(ctx, actorID)
					}
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
