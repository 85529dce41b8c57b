package view

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func withFS(t *testing.T, fsys fstest.MapFS) {
	t.Helper()
	prev := files
	SetFS(fsys)
	t.Cleanup(func() { SetFS(prev) })
}

func TestRender_WrapsPageInLayout(t *testing.T) {
	withFS(t, fstest.MapFS{
		"layout.html": {Data: []byte(`<main>{{template "content" .}}</main><footer>{{.Year}}</footer>`)},
		"page.html":   {Data: []byte(`{{define "content"}}hi {{upper .Name}} #{{inc 1}}{{end}}`)},
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	if err := Render(rr, req, "page.html", map[string]any{"Name": "anu"}); err != nil {
		t.Fatal(err)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "<main>hi ANU #2</main><footer>") {
		t.Fatalf("body = %q", body)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
}

func TestRender_FullDocumentSkipsLayout(t *testing.T) {
	withFS(t, fstest.MapFS{
		"layout.html": {Data: []byte(`LAYOUT{{template "content" .}}`)},
		"doc.html":    {Data: []byte(`<!DOCTYPE html><p>{{.Path}}</p>`)},
	})
	rr := httptest.NewRecorder()
	if err := Render(rr, httptest.NewRequest(http.MethodGet, "/doc", nil), "doc.html", nil); err != nil {
		t.Fatal(err)
	}
	if got := rr.Body.String(); got != "<!DOCTYPE html><p>/doc</p>" {
		t.Fatalf("body = %q", got)
	}
}

func TestRenderStatus_ErrorWritesNothing(t *testing.T) {
	withFS(t, fstest.MapFS{
		"layout.html": {Data: []byte(`{{template "content" .}}`)},
		"bad.html":    {Data: []byte(`{{define "content"}}start {{index .Items 5}}{{end}}`)},
	})
	rr := httptest.NewRecorder()
	err := RenderStatus(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, "bad.html", map[string]any{"Items": []int{}})
	if err == nil {
		t.Fatal("expected execution error")
	}
	if rr.Body.Len() != 0 {
		t.Errorf("partial output written: %q", rr.Body.String())
	}
}

func TestSetFuncs(t *testing.T) {
	withFS(t, fstest.MapFS{
		"layout.html": {Data: []byte(`{{template "content" .}}`)},
		"f.html":      {Data: []byte(`{{define "content"}}{{shout "hey"}}{{end}}`)},
	})
	SetFuncs(template.FuncMap{"shout": func(s string) string { return s + "!" }})

	rr := httptest.NewRecorder()
	if err := Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), "f.html", nil); err != nil {
		t.Fatal(err)
	}
	if rr.Body.String() != "hey!" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestDict(t *testing.T) {
	dict := Funcs()["dict"].(func(...any) map[string]any)
	m := dict("A", 1, "B", "two")
	if m["A"] != 1 || m["B"] != "two" {
		t.Fatalf("dict = %v", m)
	}
	if dict("odd") != nil {
		t.Errorf("odd arg count should yield nil")
	}
}

func TestEmbeddedPagesParse(t *testing.T) {
	ResetForTests()
	SetFuncs(template.FuncMap{
		"eventTypeInput":         func(int) string { return "" },
		"serviceSelectInput":     func(int) string { return "" },
		"serviceUnitInput":       func(int, int) string { return "" },
		"deliverableUnitInput":   func(string) string { return "" },
		"complementaryUnitInput": func(string) string { return "" },
	})
	for _, name := range []string{"home.html", "billing.html", "clear.html"} {
		if _, err := parse(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
