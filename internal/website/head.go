package website

import (
	"html/template"
	"strings"

	"github.com/pkg/errors"
)

var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
{{template "head" .}}<body>
{{.Body}}
</body>
</html>`))

var _ = template.Must(documentTmpl.New("head").Parse(`<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Page.Title}}</title>
{{with .Page.Description}}<meta name="description" content="{{.}}">
{{end}}{{with .Page.URL}}<link rel="canonical" href="{{.}}">
{{end}}<meta name="theme-color" content="{{.Theme}}">
<meta property="og:type" content="website">
{{with .Page.SiteName}}<meta property="og:site_name" content="{{.}}">
{{end}}{{with .Page.Title}}<meta property="og:title" content="{{.}}">
{{end}}{{with .Page.Description}}<meta property="og:description" content="{{.}}">
{{end}}{{with .Page.URL}}<meta property="og:url" content="{{.}}">
{{end}}<script type="application/ld+json">{{.Org}}</script>
{{with .Page.Favicon}}<link rel="icon" href="{{.}}">
{{end}}<style>
{{.CSS}}
</style>
</head>
`))

type document struct {
	Page  PageConfig
	Lang  string
	Theme string
	Org   map[string]string
	CSS   template.CSS
	Body  template.HTML
}

func newDocument(cfg PageConfig, customCSS string) document {
	d := document{Page: cfg, Lang: cfg.Language, Theme: cfg.ThemeColor}
	if d.Lang == "" {
		d.Lang = "en"
	}
	if d.Theme == "" {
		d.Theme = Colors["primary"]
	}

	d.Org = map[string]string{
		"@context":    "https://schema.org",
		"@type":       "Organization",
		"name":        cfg.SiteName,
		"description": cfg.Description,
	}
	if cfg.URL != "" {
		d.Org["url"] = cfg.URL
	}

	css := RenderStyles()
	if customCSS != "" {
		css += "\n" + customCSS
	}
	// The stylesheet is ours; site config only appends to it.
	d.CSS = template.CSS(css)
	return d
}

func execute(name string, d document) (string, error) {
	var sb strings.Builder
	if err := documentTmpl.ExecuteTemplate(&sb, name, d); err != nil {
		return "", errors.Wrapf(err, "failed to render %s", name)
	}
	return sb.String(), nil
}

// RenderHead renders the <head> element: SEO and Open Graph tags, an
// Organization JSON-LD block and the inline stylesheet.
func RenderHead(cfg PageConfig, customCSS string) (string, error) {
	return execute("head", newDocument(cfg, customCSS))
}

// RenderDocument wraps body, which must be trusted markup, in a full page.
func RenderDocument(cfg PageConfig, customCSS, body string) (string, error) {
	d := newDocument(cfg, customCSS)
	d.Body = template.HTML(body)
	return execute("document", d)
}
