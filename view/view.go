// Package view renders the server-side pages from templates embedded in the binary.
package view

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"
)

//go:embed templates
var embedded embed.FS

var (
	files    fs.FS = mustSub(embedded, "templates")
	tplCache       = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	extraMu    sync.RWMutex
	extraFuncs = template.FuncMap{}
)

func mustSub(f fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// SetFuncs registers additional template helpers. Call it during bootstrap,
// before the first Render; parsed templates are cached with the helpers they saw.
func SetFuncs(fm template.FuncMap) {
	extraMu.Lock()
	for k, v := range fm {
		extraFuncs[k] = v
	}
	extraMu.Unlock()
	ResetForTests()
}

// SetFS overrides the template source (useful for tests).
func SetFS(f fs.FS) {
	if f == nil {
		return
	}
	files = f
	ResetForTests()
}

// ResetForTests clears the template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

// Funcs returns the standard func map plus the registered helpers.
func Funcs() template.FuncMap {
	fm := template.FuncMap{
		"year":  func() int { return time.Now().Year() },
		"inc":   func(i int) int { return i + 1 },
		"upper": strings.ToUpper,
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
	extraMu.RLock()
	for k, v := range extraFuncs {
		fm[k] = v
	}
	extraMu.RUnlock()
	return fm
}

func parse(name string) (*template.Template, error) {
	content, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, err
	}
	// A full document is rendered without the layout.
	if bytes.Contains(bytes.ToLower(content), []byte("<!doctype")) {
		return template.New(name).Funcs(Funcs()).ParseFS(files, name)
	}
	patterns := []string{"layout.html", name}
	if matches, _ := fs.Glob(files, "partials/*.html"); len(matches) > 0 {
		patterns = append(patterns, "partials/*.html")
	}
	return template.New("layout.html").Funcs(Funcs()).ParseFS(files, patterns...)
}

// Render executes the named page inside the layout.
// name should be the filename (e.g., "billing.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code. The page is buffered so
// a template error never leaves a half-written response.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["Path"]; !exists && r != nil {
		data["Path"] = r.URL.Path
	}

	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if !ok {
		parsed, err := parse(name)
		if err != nil {
			return err
		}
		tplCache.Lock()
		tplCache.m[name] = parsed
		tplCache.Unlock()
		t = parsed
	}
	if t == nil {
		return errors.New("template not cached")
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
