// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig configures the HTTP router.
type RouterConfig struct {
	// CacheDir is the view cache root.
	CacheDir string

	// MediaDir, when set, is mounted read-only under /media so local
	// media can be served to the browser.
	MediaDir string

	// RateLimit is the per-IP request budget per minute on /api routes.
	// Zero disables rate limiting.
	RateLimit int
}

// indexPage is served for non-API routes. The interactive frontend is a
// separate application; this page points at the data endpoints.
const indexPage = `<!DOCTYPE html>
<html>
<head><title>clusterview</title></head>
<body>
<h1>clusterview</h1>
<p>The view API is running. Data endpoints live under <code>/api</code>.</p>
</body>
</html>
`

// NewRouter builds the HTTP handler serving the view API, the media
// mount and the metrics endpoint.
func NewRouter(cfg RouterConfig) http.Handler {
	h := NewHandler(cfg.CacheDir)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	// The server binds to localhost but the frontend may be served from
	// a dev server on another port, so CORS stays wide open.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}
		r.Use(prometheusMetrics)

		r.Get("/uuid", h.RecentUUID)
		r.Route("/views/{uuid}", func(r chi.Router) {
			r.Get("/", h.View)
			r.Get("/config", h.Config)
			r.Get("/media/{mediaID}", h.Media)
			r.Post("/media", h.MediaPage)
			r.Post("/media-metadata", h.MediaMetadata)
			r.Post("/filter", h.Filter)
			r.Post("/download-grid", h.DownloadGrid)
			r.Get("/labels", h.Labels)
			r.Post("/labels", h.SaveLabel)
			r.Delete("/labels", h.DeleteLabel)
			r.Post("/labels/counts", h.LabelCounts)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	if cfg.MediaDir != "" {
		fs := http.StripPrefix("/media", http.FileServer(http.Dir(cfg.MediaDir)))
		r.Get("/media/*", func(w http.ResponseWriter, r *http.Request) {
			fs.ServeHTTP(w, r)
		})
	}

	// Everything else gets the index page, mirroring a single-page
	// frontend's catch-all routing.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexPage))
	})

	return r
}
