package api

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
)

// accessLog logs method, path, status, elapsed and bytes written. Requests
// taking at least slow are logged at warn level.
func accessLog(log *logger.Logger, slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			evt := log.Info()
			if slow > 0 && elapsed >= slow {
				evt = log.Warn()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			evt.Str("request_id", chimw.GetReqID(r.Context())).
				Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
