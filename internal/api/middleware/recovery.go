package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hugh/kudosboard/internal/api/dto"
)

// Recovery converts panics into a server_error envelope. Stack traces go to
// the log, never to the caller.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"error", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					writeEnvelope(w, dto.ErrServerError, nil)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
