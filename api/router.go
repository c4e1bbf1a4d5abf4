package api

import (
	"net/http"
	"storefront_server/api/health"
	"storefront_server/api/middleware"
	"storefront_server/services"
	"storefront_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// App builds the HTTP handler. logger is used by the handlers, reqLogger only for access logs.
func App(cfg *structs.Config, logger, reqLogger *gecho.Logger, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	mw := middleware.NewMiddleware(reqLogger, cfg, sm.AdminGate, sm.CacheService)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(max(cfg.Server.MaxBodyBytes, cfg.Storage.MaxUploadBytes)))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth)
	r.Use(mw.SetupCORS().Handler)

	r.Use(mw.RateLimitMiddleware())

	r.Route("/api", func(r chi.Router) {
		NewRouterManager(logger, cfg, sm, mw).RegisterRoutes(r)
	})

	r.Handle("/metrics", health.MetricsHandler())

	// Uploaded images
	publicPath := "/" + strings.Trim(cfg.Storage.PublicPath, "/")
	fs := http.StripPrefix(publicPath+"/", http.FileServer(http.Dir(cfg.Storage.ImagesDir)))
	r.Get(publicPath+"/*", fs.ServeHTTP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the "+cfg.Server.AppName+" API"),
			gecho.Send(),
		)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
