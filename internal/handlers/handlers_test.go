package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/studio-billing/internal/builder"
	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/store"
	"github.com/diewo77/studio-billing/session"
)

const testSession = "3f1e9a52-8d47-4c3b-9a57-2f0d8a1c6b11"

func newTestDeps(t *testing.T) (Deps, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(0)
	return Deps{
		Catalog:  catalog.Default(),
		Store:    mem,
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) },
	}, mem
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(session.WithID(req.Context(), testSession))
}

func scoped(mem *store.Memory) store.Store { return store.Scoped(mem, testSession) }

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return withSession(req)
}

func loadDraft(t *testing.T, mem *store.Memory) *builder.Builder {
	t.Helper()
	ws := builder.NewWorkspace(catalog.Default(), scoped(mem), nil)
	if err := ws.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return ws.Builder
}

func TestHome(t *testing.T) {
	d, _ := newTestDeps(t)
	w := httptest.NewRecorder()
	NewHomeHandler(d).Show(w, withSession(httptest.NewRequest(http.MethodGet, "/", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"V6Pictures", `href="/billing"`, `href="/invoice"`} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestBillingShow_EmptyAndRestored(t *testing.T) {
	d, mem := newTestDeps(t)
	h := NewBillingHandler(d)

	w := httptest.NewRecorder()
	h.Show(w, withSession(httptest.NewRequest(http.MethodGet, "/billing", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "previous draft was restored") {
		t.Errorf("empty session shows restore notice")
	}
	if _, ok, _ := scoped(mem).Get(context.Background(), store.DraftKey); ok {
		t.Errorf("viewing the form wrote a draft")
	}

	ws := builder.NewWorkspace(d.Catalog, scoped(mem), nil)
	_ = ws.Apply(context.Background(), func(b *builder.Builder) { b.SetField(builder.FieldCustomerName, "Kavya") })

	w = httptest.NewRecorder()
	h.Show(w, withSession(httptest.NewRequest(http.MethodGet, "/billing", nil)))
	body := w.Body.String()
	if !strings.Contains(body, "previous draft was restored") || !strings.Contains(body, `value="Kavya"`) {
		t.Errorf("restored draft not shown")
	}
}

func TestBillingUpdate_AddServiceAndSave(t *testing.T) {
	d, mem := newTestDeps(t)
	h := NewBillingHandler(d)

	w := httptest.NewRecorder()
	h.Update(w, postForm("/billing", url.Values{
		builder.FieldInvoiceNo:        {"INV-1"},
		builder.EventTypeInput(0):     {"Wedding"},
		builder.ServiceSelectInput(0): {"drone"},
		builder.InputDeliverable:      {"teaser"},
		builder.FieldWeddingDate:      {"2024-03-07"},
		builder.InputAction:           {"add_service:0"},
	}))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/billing?saved=1" {
		t.Fatalf("got %d location=%q", w.Code, w.Header().Get("Location"))
	}

	b := loadDraft(t, mem)
	inv := b.Invoice()
	if inv.InvoiceNumber != "INV-1" || inv.Events[0].EventName != "Wedding" {
		t.Fatalf("draft = %+v", inv)
	}
	if len(inv.Events[0].Services) != 1 || inv.Events[0].Services[0].ServiceName != "Drone Coverage" {
		t.Fatalf("services = %+v", inv.Events[0].Services)
	}
	if !b.HasDeliverable("teaser") {
		t.Errorf("checked deliverable not saved")
	}
}

func TestBillingUpdate_RejectsUnknownAction(t *testing.T) {
	d, mem := newTestDeps(t)
	w := httptest.NewRecorder()
	NewBillingHandler(d).Update(w, postForm("/billing", url.Values{builder.InputAction: {"self_destruct"}}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if mem.Len() != 0 {
		t.Errorf("rejected action wrote to the store")
	}
}

func TestBillingUpdate_SubmitThenPrint(t *testing.T) {
	d, _ := newTestDeps(t)
	billing := NewBillingHandler(d)
	docs := NewDocumentHandler(d, nil)

	w := httptest.NewRecorder()
	billing.Update(w, postForm("/billing", url.Values{
		builder.FieldCustomerName: {"divya"},
		builder.FieldTotal:        {"10,000"},
		builder.FieldAdvance:      {"4,500"},
		builder.InputAction:       {"submit"},
	}))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != builder.DestinationInvoice {
		t.Fatalf("got %d location=%q", w.Code, w.Header().Get("Location"))
	}

	w = httptest.NewRecorder()
	docs.Print(w, withSession(httptest.NewRequest(http.MethodGet, "/print", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"INVOICE TO", "DIVYA", "5,500", "01/03/2024"} {
		if !strings.Contains(body, want) {
			t.Errorf("print page missing %q", want)
		}
	}

	w = httptest.NewRecorder()
	docs.Quote(w, withSession(httptest.NewRequest(http.MethodGet, "/quote", nil)))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "QUOTATION") || strings.Contains(w.Body.String(), "BALANCE") {
		t.Errorf("quote page wrong: %d", w.Code)
	}
}

func TestDocument_RedirectsWithoutHandoff(t *testing.T) {
	d, mem := newTestDeps(t)
	docs := NewDocumentHandler(d, nil)

	w := httptest.NewRecorder()
	docs.Print(w, withSession(httptest.NewRequest(http.MethodGet, "/print", nil)))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/billing" {
		t.Fatalf("missing hand-off: got %d %q", w.Code, w.Header().Get("Location"))
	}

	_ = scoped(mem).Set(context.Background(), store.HandoffKey, "{broken")
	w = httptest.NewRecorder()
	docs.Quote(w, withSession(httptest.NewRequest(http.MethodGet, "/quote", nil)))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("corrupt hand-off: got %d", w.Code)
	}
	if _, ok, _ := scoped(mem).Get(context.Background(), store.HandoffKey); ok {
		t.Errorf("corrupt hand-off kept")
	}
}

func TestBillingClear(t *testing.T) {
	d, mem := newTestDeps(t)
	h := NewBillingHandler(d)
	ws := builder.NewWorkspace(d.Catalog, scoped(mem), nil)
	_ = ws.Apply(context.Background(), func(b *builder.Builder) { b.SetField(builder.FieldRemarks, "x") })

	w := httptest.NewRecorder()
	h.ConfirmClear(w, withSession(httptest.NewRequest(http.MethodGet, "/billing/clear", nil)))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `action="/billing/clear"`) {
		t.Fatalf("confirm page: %d", w.Code)
	}
	if _, ok, _ := scoped(mem).Get(context.Background(), store.DraftKey); !ok {
		t.Fatalf("confirmation page must not clear")
	}

	w = httptest.NewRecorder()
	h.Clear(w, postForm("/billing/clear", url.Values{}))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}
	if _, ok, _ := scoped(mem).Get(context.Background(), store.DraftKey); ok {
		t.Errorf("draft survived clear")
	}
}

func TestNoSessionIsServerError(t *testing.T) {
	d, _ := newTestDeps(t)
	w := httptest.NewRecorder()
	NewBillingHandler(d).Show(w, httptest.NewRequest(http.MethodGet, "/billing", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "session") {
		t.Errorf("internal error leaked: %q", w.Body.String())
	}
}

func TestFieldViews(t *testing.T) {
	b := builder.New(catalog.Default())
	b.SetField(builder.FieldSeerDate, "soon")
	views := fieldViews(b, b.Validate())
	if len(views) != len(builder.ScalarFields) {
		t.Fatalf("views = %d", len(views))
	}
	byName := map[string]FieldView{}
	for _, v := range views {
		byName[v.Name] = v
		if v.Label == "" {
			t.Errorf("%s has no label", v.Name)
		}
	}
	if byName[builder.FieldSeerDate].Type != "date" || byName[builder.FieldSeerDate].Warning == "" {
		t.Errorf("seer date view = %+v", byName[builder.FieldSeerDate])
	}
	if !byName[builder.FieldRemarks].Wide || byName[builder.FieldRemarks].Type != "textarea" {
		t.Errorf("remarks view = %+v", byName[builder.FieldRemarks])
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode: %v body=%s", err, w.Body.String())
	}
}
