package ir

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2328; max-width: 960px; margin: 0 auto; padding: 2rem; }
h1, h2, h3 { border-bottom: 1px solid #d0d7de; padding-bottom: .3em; }
code { background: #f6f8fa; border-radius: 4px; padding: .1em .3em; font-family: ui-monospace, SFMono-Regular, Menlo, monospace; }
pre { background: #f6f8fa; border-radius: 6px; padding: 1rem; overflow-x: auto; }
pre code { background: none; padding: 0; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #d0d7de; padding: .4rem .8rem; text-align: left; }
th { background: #f6f8fa; }
hr { border: 0; border-top: 1px solid #d0d7de; margin: 2rem 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML writes the document as a styled standalone HTML page
func (d *Doc) RenderHTML(w io.Writer) error {
	var md bytes.Buffer
	if err := d.RenderMarkdown(&md); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := markdownEngine.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("failed to convert markdown: %w", err)
	}

	return pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: d.Title,
		Body:  template.HTML(body.String()),
	})
}
