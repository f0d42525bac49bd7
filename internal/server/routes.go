package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ukaji3/modelsheet-go/internal/logging"
	"go.uber.org/zap"
)

const traceIDHeader = "X-Trace-ID"

// Init builds the router. timeout bounds each object request; zero disables it.
func (h *Handler) Init(timeout time.Duration) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)

	router.Get("/healthz", h.healthz)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/object", func(r chi.Router) {
		if timeout > 0 {
			r.Use(middleware.Timeout(timeout))
		}
		r.Post("/excel", h.excelObject)
		r.Post("/download", h.downloadObject)
		r.Post("/delete", h.deleteObject)
	})

	return router
}

func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := h.logger.With(zap.String("trace_id", traceID))
		r = r.WithContext(logging.WithContext(r.Context(), l))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
