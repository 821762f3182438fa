package middleware

import (
	"net"
	"net/http"

	"github.com/mssola/useragent"

	"vitacare/pkg/requestcontext"
)

// Metadata captures client metadata (remote IP, normalized user-agent family)
// into the request context so audit events can record where an action came
// from without handlers threading HTTP details into services.
func Metadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			ip = host
		}
		ctx = requestcontext.WithClientIP(ctx, ip)

		if raw := r.UserAgent(); raw != "" {
			ua := useragent.New(raw)
			name, version := ua.Browser()
			family := name
			if version != "" {
				family = name + "/" + version
			}
			ctx = requestcontext.WithUserAgent(ctx, family)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
