package httpserver

import (
	"net/http"

	"catalog-admin-go/internal/config"
	"catalog-admin-go/internal/transport/httpserver/handler"
	authmw "catalog-admin-go/internal/transport/httpserver/middleware"
	"catalog-admin-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const adminCatalogPrefix = "/api/v1/admin/catalog"

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLog(log))
	r.Use(chimw.Recoverer)
	if cfg.HTTP.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.HTTP.RequestTimeout))
	}
	r.Use(authmw.NewCORS(cfg.HTTP.AllowedOrigins))

	r.Get("/api/health", handlers.Health)

	auth := authmw.NewAdminAuth(cfg.Auth, log)
	r.Route(adminCatalogPrefix, func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/families", handlers.ListFamilies)
		r.Post("/families", handlers.CreateFamily)
		r.Delete("/families", handlers.MassDestroyFamilies)
		r.Post("/families/mass-destroy", handlers.MassDestroyFamilies)
		r.Delete("/families/mass-destroy", handlers.MassDestroyFamilies)

		r.Get("/families/{id}", handlers.GetFamily)
		r.Put("/families/{id}", handlers.UpdateFamily)
		r.Patch("/families/{id}", handlers.UpdateFamily)
		r.Delete("/families/{id}", handlers.DeleteFamily)
	})

	return r
}
