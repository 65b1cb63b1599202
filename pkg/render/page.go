package render

import (
	"fmt"
	"html/template"
	"strings"
)

// DefaultPageTitle is used when the document has no \title.
const DefaultPageTitle = "texpreview"

//nolint:gochecknoglobals // Parsed once.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script>window.MathJax = {tex: {inlineMath: [["\\(", "\\)"]], displayMath: [["\\[", "\\]"]]}};</script>
<script async src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-chtml.js"></script>
<style>
.tp-error { color: #b00020; border-left: 3px solid #b00020; padding-left: 0.5em; }
</style>
</head>
<body>
<main class="tp-document">
{{.Body}}
</main>
</body>
</html>
`))

// Page wraps rendered document HTML in a complete page that loads a client
// side math typesetter. The title comes from meta with whitespace collapsed.
func Page(meta Metadata, body string) (string, error) {
	title := strings.Join(strings.Fields(meta.Title), " ")
	if title == "" {
		title = DefaultPageTitle
	}

	var sb strings.Builder
	err := pageTemplate.Execute(&sb, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body), //nolint:gosec // Rendered output is already escaped per block.
	})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return sb.String(), nil
}

// Document returns the HTML of the last render, wrapped in a complete page
// when standalone is set.
func (o *Orchestrator) Document(standalone bool) (string, error) {
	body := o.HTML()
	if !standalone {
		return body, nil
	}
	return Page(o.Metadata(), body)
}
