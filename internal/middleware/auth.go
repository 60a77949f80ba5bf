package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/affiway/backoffice/internal/auth"
)

type contextKey int

const (
	contextKeyActor contextKey = iota
)

// Auth verifies the staff bearer token and injects the actor identity into
// the request context. Every state-machine commit downstream is attributed
// to this actor.
func Auth(ts *auth.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			actor, err := ts.VerifyToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyActor, actor)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext extracts the verified staff actor from the context.
func ActorFromContext(ctx context.Context) (*auth.Actor, bool) {
	actor, ok := ctx.Value(contextKeyActor).(*auth.Actor)
	return actor, ok
}

// WithActor injects an actor directly, bypassing token verification.
func WithActor(ctx context.Context, actor *auth.Actor) context.Context {
	return context.WithValue(ctx, contextKeyActor, actor)
}
