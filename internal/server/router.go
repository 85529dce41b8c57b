// Package server assembles the HTTP router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/studio-billing/httpx"
	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/handlers"
	"github.com/diewo77/studio-billing/internal/logger"
	"github.com/diewo77/studio-billing/internal/render"
	"github.com/diewo77/studio-billing/internal/store"
	"github.com/diewo77/studio-billing/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options carries everything the router needs.
type Options struct {
	Catalog  *catalog.Catalog
	Store    store.Store
	Sessions *session.Manager
	Log      *zap.Logger
	Location *time.Location
	Now      func() time.Time
	Renderer render.Renderer
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewManager("", 0, false)
	}
	deps := handlers.Deps{
		Catalog:  opts.Catalog,
		Store:    opts.Store,
		Log:      opts.Log,
		Location: opts.Location,
		Now:      opts.Now,
	}
	home := handlers.NewHomeHandler(deps)
	billing := handlers.NewBillingHandler(deps)
	docs := handlers.NewDocumentHandler(deps, opts.Renderer)
	api := handlers.NewAPIHandler(deps, docs)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(opts.Log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthz(opts.Store))

	r.Group(func(r chi.Router) {
		r.Use(opts.Sessions.Middleware)

		r.Get("/", home.Show)
		r.Get("/billing", billing.Show)
		r.Post("/billing", billing.Update)
		r.Get("/billing/clear", billing.ConfirmClear)
		r.Post("/billing/clear", billing.Clear)
		r.Get("/print", docs.Print)
		r.Get("/quote", docs.Quote)
		r.Get("/invoice", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/billing", http.StatusFound)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/catalog", api.GetCatalog)
			r.Get("/billing", api.GetDraft)
			r.Delete("/billing", api.Clear)
			r.Post("/billing/ops", api.ApplyOps)
			r.Post("/billing/submit", api.Submit)
			r.Post("/billing/quote", api.CreateQuote)
			r.Get("/document", api.Document)
		})
	})

	return r
}

func healthz(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p, ok := st.(store.Pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
