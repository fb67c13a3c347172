package web

import (
	"bytes"
	"errors"
	"html/template"
	"strings"

	"catalog-cli/internal/docs"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// Raw HTML passthrough stays disabled.
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var landingTmpl = template.Must(template.New("landing").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>body{font-family:system-ui,sans-serif;max-width:46rem;margin:2rem auto;padding:0 1rem;line-height:1.5}code{background:#f2f2f2;padding:0 .2rem}</style>
</head><body>
{{.Body}}
</body></html>
`))

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

// renderLanding renders the api docs topic as the page served at GET /.
func renderLanding() ([]byte, error) {
	md, ok := docs.Get("api")
	if !ok {
		return nil, errors.New("web: api docs topic missing")
	}
	var buf bytes.Buffer
	err := landingTmpl.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{"Catalog API", renderMarkdownHTML(md)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
