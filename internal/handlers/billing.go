package handlers

import (
	"net/http"

	"github.com/diewo77/studio-billing/internal/builder"
	"github.com/diewo77/studio-billing/validation"
	"go.uber.org/zap"
)

// FieldView is one scalar input of the builder form.
type FieldView struct {
	Name    string
	Label   string
	Type    string
	Value   string
	Warning string
	Wide    bool
}

var fieldLabels = map[string]string{
	builder.FieldInvoiceNo:      "Invoice No",
	builder.FieldCustomerName:   "Customer Name",
	builder.FieldAddress:        "Address",
	builder.FieldPhoneNo:        "Phone No",
	builder.FieldEventCount:     "No of Events",
	builder.FieldEngagementDate: "Engagement Date",
	builder.FieldSeerDate:       "Seer Date",
	builder.FieldWeddingDate:    "Wedding Date",
	builder.FieldReceptionDate:  "Reception Date",
	builder.FieldEventDate:      "Event Date",
	builder.FieldCustomDateName: "Custom Date Name",
	builder.FieldCustomDate:     "Custom Date",
	builder.FieldRemarks:        "Remarks",
	builder.FieldTotal:          "Total Amount",
	builder.FieldAdvance:        "Advance Amount",
}

var warningText = map[string]string{
	"invalid_date": "Expected a date as YYYY-MM-DD",
	"not_a_number": "Should start with a number",
}

func fieldViews(b *builder.Builder, warnings validation.Violations) []FieldView {
	out := make([]FieldView, 0, len(builder.ScalarFields))
	for _, name := range builder.ScalarFields {
		fv := FieldView{Name: name, Label: fieldLabels[name], Type: "text", Value: b.Field(name)}
		switch {
		case builder.DateFields[name]:
			fv.Type = "date"
		case name == builder.FieldPhoneNo:
			fv.Type = "tel"
		case name == builder.FieldRemarks:
			fv.Type = "textarea"
			fv.Wide = true
		case name == builder.FieldTotal, name == builder.FieldAdvance:
			fv.Wide = true
		}
		if code, ok := warnings[name]; ok {
			fv.Warning = warningText[code]
		}
		out = append(out, fv)
	}
	return out
}

type BillingHandler struct {
	Deps
}

func NewBillingHandler(d Deps) *BillingHandler {
	return &BillingHandler{Deps: d.withDefaults()}
}

func (h *BillingHandler) render(w http.ResponseWriter, r *http.Request, ws *builder.Workspace) {
	h.page(w, r, http.StatusOK, "billing.html", map[string]any{
		"Title":       "Billing",
		"Builder":     ws.Builder,
		"Invoice":     ws.Invoice(),
		"Catalog":     h.Catalog,
		"CustomInput": ws.CustomInput(),
		"Fields":      fieldViews(ws.Builder, ws.Validate()),
		"Restored":    ws.Restored() && r.URL.Query().Get("saved") == "",
	})
}

// Show renders the builder with the session's draft.
func (h *BillingHandler) Show(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r)
	if err != nil {
		h.serverError(w, r, "mount workspace", err)
		return
	}
	h.render(w, r, ws)
}

// Update binds the posted form, runs the pressed button's action and redirects.
func (h *BillingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	action, ok := builder.ParseAction(r.PostForm.Get(builder.InputAction), r.PostForm)
	if !ok {
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	ws, err := h.workspace(r)
	if err != nil {
		h.serverError(w, r, "mount workspace", err)
		return
	}
	ctx := r.Context()
	err = ws.Apply(ctx, func(b *builder.Builder) {
		b.BindForm(r.PostForm)
		b.Do(action)
	})
	if err != nil {
		h.serverError(w, r, "save draft", err)
		return
	}

	dest := "/billing?saved=1"
	switch action.Kind {
	case builder.ActionSubmit:
		dest, err = ws.Submit(ctx)
	case builder.ActionQuote:
		dest, err = ws.CreateQuote(ctx)
	}
	if err != nil {
		h.serverError(w, r, "hand off invoice", err)
		return
	}
	fields := []zap.Field{zap.String("action", string(action.Kind)), zap.String("dest", dest)}
	if v := ws.Validate(); !v.Empty() {
		fields = append(fields, zap.Strings("warnings", v.Fields()))
	}
	h.Log.Debug("billing action", fields...)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// ConfirmClear asks before the draft is thrown away.
func (h *BillingHandler) ConfirmClear(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, "clear.html", map[string]any{"Title": "Clear form"})
}

// Clear resets the form and deletes the draft snapshot.
func (h *BillingHandler) Clear(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessionStore(r)
	if err != nil {
		h.serverError(w, r, "session store", err)
		return
	}
	ws := builder.NewWorkspace(h.Catalog, st, h.Log)
	if err := ws.Clear(r.Context()); err != nil {
		h.serverError(w, r, "clear draft", err)
		return
	}
	http.Redirect(w, r, "/billing", http.StatusSeeOther)
}
