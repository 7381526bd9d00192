package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"catalog-matcher/internal/config"
	"catalog-matcher/internal/engine"
	mh "catalog-matcher/internal/matcher/handler"
	"catalog-matcher/internal/middleware"
	"catalog-matcher/server/http/handlers"
)

func NewRouter(cfg config.Config, eng *engine.Engine, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)
	r.Get("/stats", mh.Stats(eng))

	r.Get("/search", mh.Search(eng, logger))
	r.Post("/search", mh.Search(eng, logger))
	r.Post("/process", mh.Process(eng, cfg, logger))
	r.Post("/export", mh.Export(eng, cfg, logger))
	r.Post("/reload", mh.Reload(eng, logger))

	r.Route("/mappings", func(r chi.Router) {
		r.Get("/", mh.ListMappings(eng))
		r.Post("/", mh.AddMapping(eng, logger))
	})
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", mh.GetSettings(eng))
		r.Put("/", mh.PutSettings(eng, logger))
	})

	return r
}
