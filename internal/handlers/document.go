package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/studio-billing/internal/models"
	"github.com/diewo77/studio-billing/internal/render"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	Deps
	renderer render.Renderer
}

func NewDocumentHandler(d Deps, renderer render.Renderer) *DocumentHandler {
	if renderer == nil {
		renderer = render.NewRenderer()
	}
	return &DocumentHandler{Deps: d.withDefaults(), renderer: renderer}
}

// load returns the handed-off record. ok is false when there is nothing
// printable; corrupt records have already been removed by then.
func (h *DocumentHandler) load(r *http.Request) (inv *models.Invoice, ok bool, err error) {
	st, err := h.sessionStore(r)
	if err != nil {
		return nil, false, err
	}
	inv, err = render.LoadHandoff(r.Context(), st)
	switch {
	case errors.Is(err, render.ErrNoInvoice):
		return nil, false, nil
	case errors.Is(err, render.ErrCorruptInvoice):
		h.Log.Warn("discarded unreadable hand-off", zap.Error(err))
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return inv, true, nil
}

func (h *DocumentHandler) build(kind render.Kind, inv *models.Invoice) (render.Document, string, error) {
	doc := render.Build(kind, inv, h.Catalog.Company, h.Now().In(h.Location))
	html, err := h.renderer.RenderHTML(doc)
	return doc, html, err
}

func (h *DocumentHandler) serve(kind render.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, ok, err := h.load(r)
		if err != nil {
			h.serverError(w, r, "load hand-off", err)
			return
		}
		if !ok {
			http.Redirect(w, r, "/billing", http.StatusSeeOther)
			return
		}
		_, html, err := h.build(kind, inv)
		if err != nil {
			h.serverError(w, r, "render document", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}
}

// Print shows the invoice for the handed-off record.
func (h *DocumentHandler) Print(w http.ResponseWriter, r *http.Request) {
	h.serve(render.KindInvoice)(w, r)
}

// Quote shows the quotation for the handed-off record.
func (h *DocumentHandler) Quote(w http.ResponseWriter, r *http.Request) {
	h.serve(render.KindQuote)(w, r)
}
