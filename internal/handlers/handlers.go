// Package handlers implements the HTML pages and the JSON API of the studio
// billing app.
package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/diewo77/studio-billing/internal/builder"
	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/store"
	"github.com/diewo77/studio-billing/session"
	"github.com/diewo77/studio-billing/view"
	"go.uber.org/zap"
)

var errNoSession = errors.New("handlers: request has no session")

func init() {
	view.SetFuncs(template.FuncMap{
		"eventTypeInput":         builder.EventTypeInput,
		"serviceSelectInput":     builder.ServiceSelectInput,
		"serviceUnitInput":       builder.ServiceUnitInput,
		"deliverableUnitInput":   builder.DeliverableUnitInput,
		"complementaryUnitInput": builder.ComplementaryUnitInput,
	})
}

// Deps are the collaborators shared by every handler.
type Deps struct {
	Catalog  *catalog.Catalog
	Store    store.Store
	Log      *zap.Logger
	Location *time.Location
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// sessionStore narrows the shared store to the caller's session.
func (d Deps) sessionStore(r *http.Request) (store.Store, error) {
	id, ok := session.IDFromContext(r.Context())
	if !ok {
		return nil, errNoSession
	}
	return store.Scoped(d.Store, id), nil
}

// workspace returns the caller's mounted builder workspace.
func (d Deps) workspace(r *http.Request) (*builder.Workspace, error) {
	st, err := d.sessionStore(r)
	if err != nil {
		return nil, err
	}
	ws := builder.NewWorkspace(d.Catalog, st, d.Log)
	if err := ws.Mount(r.Context()); err != nil {
		return nil, err
	}
	return ws, nil
}

func (d Deps) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	d.Log.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (d Deps) page(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["Company"] = d.Catalog.Company
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		d.serverError(w, r, "render page", err)
	}
}

type HomeHandler struct {
	Deps
}

func NewHomeHandler(d Deps) *HomeHandler {
	return &HomeHandler{Deps: d.withDefaults()}
}

func (h *HomeHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, "home.html", map[string]any{"Title": "Home"})
}
