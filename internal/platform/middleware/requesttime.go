package middleware

import (
	"net/http"
	"time"

	"vitacare/pkg/requestcontext"
)

// RequestTime freezes the request clock at arrival. Services read
// requestcontext.Now so a single operation sees one consistent timestamp for
// createdAt/updatedAt stamping and grant-expiry comparison, and tests can
// inject a fixed clock.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
