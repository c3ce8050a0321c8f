package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davronov/qrdesk/internal/middleware"
)

type RouterDeps struct {
	QR     *QRHandler
	Auth   *AuthHandler
	Scan   *ScanHandler
	Health *HealthHandler

	AuthMW       *middleware.AuthMiddleware
	LoginLimiter *middleware.RateLimiter
	ScanLimiter  *middleware.RateLimiter

	RequestTimeout time.Duration
}

// NewRouter wires the two halves of the surface: the authenticated
// admin API under /api, and the public scan side everything printed on
// paper points at.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimw.Timeout(deps.RequestTimeout))

	r.Get("/health", deps.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Public: what a scanned phone hits.
	r.Group(func(r chi.Router) {
		if deps.ScanLimiter != nil {
			r.Use(deps.ScanLimiter.Middleware)
		}
		r.Get("/scan/{id}", deps.Scan.Scan)
		r.Get("/preview/{id}", deps.Scan.Preview)
		r.Get("/qr-image/{id}", deps.QR.Image)
		r.Get("/files/{name}", deps.Scan.File)
		r.Get("/api/scan-info/{id}", deps.Scan.ScanInfo)
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.LoginLimiter != nil {
				r.Use(deps.LoginLimiter.Middleware)
			}
			r.Post("/auth/login", deps.Auth.Login)
		})

		r.Get("/auth/status", deps.Auth.Status)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW.RequireAuth)

			r.Post("/auth/logout", deps.Auth.Logout)

			r.Route("/qr", func(r chi.Router) {
				r.Get("/", deps.QR.List)
				r.Post("/create", deps.QR.Create)
				r.Get("/stats", deps.QR.Stats)
				r.Get("/{id}", deps.QR.Get)
				r.Patch("/{id}", deps.QR.Update)
				r.Delete("/{id}", deps.QR.Delete)
				r.Post("/{id}/restore", deps.QR.Restore)
				r.Put("/{id}/content", deps.QR.ReplaceContent)
			})
		})
	})

	return r
}
