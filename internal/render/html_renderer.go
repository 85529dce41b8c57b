package render

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/document.html
var templateFS embed.FS

// Renderer produces the printable page for a document.
type Renderer interface {
	RenderHTML(doc Document) (string, error)
}

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"headerValue": headerValue,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("document.html").Funcs(funcs).ParseFS(templateFS, "templates/document.html")),
	}
}

func (r *HTMLRenderer) RenderHTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func headerValue(lines []Line, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i].Value
}
