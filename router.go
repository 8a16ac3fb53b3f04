package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/yourorg/location-api/http"
	"github.com/yourorg/location-api/internal/logger"
)

func BuildRouter(svc httpapi.ContextService, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.Middleware(log))
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })
	r.Handle("/metrics", promhttp.Handler())

	httpapi.RegisterContext(r, httpapi.ContextDeps{Service: svc})

	return r
}
