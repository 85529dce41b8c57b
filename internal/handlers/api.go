package handlers

import (
	"net/http"

	"github.com/diewo77/studio-billing/httpx"
	"github.com/diewo77/studio-billing/internal/builder"
	"github.com/diewo77/studio-billing/internal/models"
	"github.com/diewo77/studio-billing/internal/render"
	"github.com/diewo77/studio-billing/validation"
	"go.uber.org/zap"
)

type APIHandler struct {
	Deps
	docs *DocumentHandler
}

func NewAPIHandler(d Deps, docs *DocumentHandler) *APIHandler {
	d = d.withDefaults()
	if docs == nil {
		docs = NewDocumentHandler(d, nil)
	}
	return &APIHandler{Deps: d, docs: docs}
}

type draftResponse struct {
	Draft    models.Draft          `json:"draft"`
	Restored bool                  `json:"restored"`
	Warnings validation.Violations `json:"warnings,omitempty"`
}

type opsRequest struct {
	Ops []builder.Op `json:"ops"`
}

type handoffResponse struct {
	Redirect string `json:"redirect"`
}

func (h *APIHandler) mount(w http.ResponseWriter, r *http.Request) (*builder.Workspace, bool) {
	ws, err := h.workspace(r)
	if err != nil {
		h.Log.Error("mount workspace", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return nil, false
	}
	return ws, true
}

func draftOf(ws *builder.Workspace) draftResponse {
	return draftResponse{Draft: ws.Draft(), Restored: ws.Restored(), Warnings: ws.Validate()}
}

// GetCatalog returns the reference data.
func (h *APIHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.Catalog)
}

// GetDraft returns the session's current builder state.
func (h *APIHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.mount(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, draftOf(ws))
}

// ApplyOps runs a batch of builder transitions. The batch is all or nothing:
// the draft is saved only when every op is valid.
func (h *APIHandler) ApplyOps(w http.ResponseWriter, r *http.Request) {
	var req opsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	ws, ok := h.mount(w, r)
	if !ok {
		return
	}
	for i, op := range req.Ops {
		if err := ws.Builder.Apply(op); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_op", map[string]any{"index": i, "reason": err.Error()})
			return
		}
	}
	if err := ws.Save(r.Context()); err != nil {
		h.Log.Error("save draft", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, draftOf(ws))
}

func (h *APIHandler) handoff(quote bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := h.mount(w, r)
		if !ok {
			return
		}
		submit := ws.Submit
		if quote {
			submit = ws.CreateQuote
		}
		dest, err := submit(r.Context())
		if err != nil {
			h.Log.Error("hand off invoice", zap.Error(err))
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, handoffResponse{Redirect: dest})
	}
}

// Submit hands the draft to the invoice page.
func (h *APIHandler) Submit(w http.ResponseWriter, r *http.Request) { h.handoff(false)(w, r) }

// CreateQuote hands the draft to the quotation page.
func (h *APIHandler) CreateQuote(w http.ResponseWriter, r *http.Request) { h.handoff(true)(w, r) }

// Clear deletes the draft snapshot.
func (h *APIHandler) Clear(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessionStore(r)
	if err != nil {
		h.Log.Error("session store", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if err := builder.NewWorkspace(h.Catalog, st, h.Log).Clear(r.Context()); err != nil {
		h.Log.Error("clear draft", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Document returns the printable page of the handed-off record as HTML.
func (h *APIHandler) Document(w http.ResponseWriter, r *http.Request) {
	kind, ok := render.ParseKind(r.URL.Query().Get("kind"))
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_kind", nil)
		return
	}
	inv, ok, err := h.docs.load(r)
	if err != nil {
		h.Log.Error("load hand-off", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "no_invoice", nil)
		return
	}
	doc, html, err := h.docs.build(kind, inv)
	if err != nil {
		h.Log.Error("render document", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="`+doc.Filename(inv.InvoiceNumber)+`"`)
	_, _ = w.Write([]byte(html))
}
