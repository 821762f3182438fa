// Package testutil holds small helpers shared by handler and integration
// tests.
package testutil

import (
	"net/http"

	"vitacare/pkg/domain"
	"vitacare/pkg/requestcontext"
)

// AsPrincipal returns middleware that injects the given principal into the
// request context, standing in for the JWT middleware in handler tests.
func AsPrincipal(p domain.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
