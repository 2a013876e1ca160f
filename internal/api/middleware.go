package api

import (
	"net/http"
	"strings"

	"github.com/clinicalscribe/scribe-service/internal/api/respond"
	"github.com/clinicalscribe/scribe-service/internal/auth"
)

// AuthMiddleware resolves the bearer token on every request and stores the
// resulting actor on the context. Requests without a resolvable key get 401;
// the actor id is never taken from the request body or path.
func AuthMiddleware(authorizer auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := bearerToken(r)
			if key == "" {
				respond.WriteError(w, http.StatusUnauthorized, auth.ErrMissingAPIKey.Error())
				return
			}
			info, err := authorizer.Authorize(r.Context(), key)
			if err != nil {
				respond.WriteError(w, http.StatusUnauthorized, auth.ErrInvalidAPIKey.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), info)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
