package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"agendo/pkg/requestcontext"
)

// Recovery converts handler panics into a 500 response. Stack traces go to the
// log only; response bodies never carry internals.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := r.Context()
					logger.ErrorContext(ctx, "handler panic",
						"panic", rec,
						"path", r.URL.Path,
						"request_id", requestcontext.RequestID(ctx),
						"stack", string(debug.Stack()),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"code":"internal","description":"Internal server error"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
