package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/store"
	"github.com/diewo77/studio-billing/session"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	return New(Options{
		Catalog:  catalog.Default(),
		Store:    st,
		Sessions: session.NewManager("test-secret", time.Hour, false),
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, store.NewMemory(0))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Errorf("health check issued a session cookie")
	}
}

func TestHealthz_SQLStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	h := newTestServer(t, store.NewGorm(db, 0))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
}

func TestInvoiceRedirectsToBilling(t *testing.T) {
	h := newTestServer(t, store.NewMemory(0))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoice", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/billing" {
		t.Fatalf("got %d %q", w.Code, w.Header().Get("Location"))
	}
}

type client struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return w
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func TestBuilderToPrintFlow(t *testing.T) {
	st := store.NewMemory(0)
	h := newTestServer(t, st)
	alice := &client{t: t, h: h}
	bob := &client{t: t, h: h}

	if w := alice.get("/billing"); w.Code != http.StatusOK || len(alice.cookies) != 1 {
		t.Fatalf("first visit: %d cookies=%d", w.Code, len(alice.cookies))
	}

	steps := []url.Values{
		{"event_type_0": {"Wedding"}, "service_select_0": {"candid_photo"}, "action": {"add_service:0"}},
		{"event_type_0": {"Wedding"}, "service_select_0": {"drone"}, "action": {"add_service:0"}},
		{"customer_name": {"Anu"}, "deliverable": {"premium_album"}, "deliverable_unit_premium_album": {"40 Sheets"}, "total_amount": {"50,000"}, "advance_amount": {"20,000"}, "action": {"submit"}},
	}
	for i, form := range steps {
		w := alice.post("/billing", form)
		if w.Code != http.StatusSeeOther {
			t.Fatalf("step %d: expected 303 got %d", i, w.Code)
		}
	}

	w := alice.get("/print")
	if w.Code != http.StatusOK {
		t.Fatalf("print: expected 200 got %d", w.Code)
	}
	body := w.Body.String()
	if n := strings.Count(body, `class="service"`); n != 2 {
		t.Errorf("service rows = %d", n)
	}
	if strings.Index(body, "Candid Photography") > strings.Index(body, "Drone Coverage") {
		t.Errorf("services out of order")
	}
	if n := strings.Count(body, `class="deliverable"`); n != 1 || !strings.Contains(body, "Premium Album: 40 Sheets") {
		t.Errorf("deliverables wrong")
	}
	if !strings.Contains(body, "30,000") {
		t.Errorf("balance missing")
	}

	if w := bob.get("/print"); w.Code != http.StatusSeeOther {
		t.Errorf("another session saw the hand-off: %d", w.Code)
	}

	if w := alice.post("/billing/clear", url.Values{}); w.Code != http.StatusSeeOther {
		t.Fatalf("clear: %d", w.Code)
	}
	w = alice.get("/api/billing")
	if strings.Contains(w.Body.String(), "Anu") {
		t.Errorf("draft survived clear: %s", w.Body.String())
	}
}

func TestForgedCookieGetsFreshSession(t *testing.T) {
	h := newTestServer(t, store.NewMemory(0))
	req := httptest.NewRequest(http.MethodGet, "/api/billing", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "00000000-0000-0000-0000-000000000000.forged"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if c := w.Result().Cookies(); len(c) != 1 || strings.HasPrefix(c[0].Value, "00000000-") {
		t.Errorf("forged session kept: %+v", c)
	}
}
