// Package landing assembles complete site pages around the live navbar.
package landing

import (
	"html"

	"github.com/rohanthewiz/element"

	"github.com/consenterra/website/internal/website"
	"github.com/consenterra/website/internal/website/components"
)

// ContentID is the element swapped by the client on in-page navigation.
const ContentID = "page-content"

// Options configures page assembly.
type Options struct {
	// Config carries the site wide document metadata.
	Config website.PageConfig
	// BaseURL prefixes canonical URLs. Empty disables them.
	BaseURL string
	// Footer configures the footer section.
	Footer components.Footer
	// ScriptSrc is the live client script. Empty renders a static page.
	ScriptSrc string
	// LivePath is the websocket endpoint the client script connects to.
	LivePath string
	// CustomCSS is additional CSS to include
	CustomCSS string
}

// DefaultOptions returns the production page options.
func DefaultOptions() Options {
	return Options{
		Config:    website.DefaultPageConfig(),
		Footer:    components.DefaultFooter(),
		ScriptSrc: "/_live/navbar.js",
		LivePath:  "/_live/websocket",
	}
}

// Content is the swappable main content of a page.
type Content struct {
	Page website.Page
}

func (c Content) Render(b *element.Builder) (x any) {
	element.RenderComponents(b,
		components.Hero{Title: c.Page.Heading, Subtitle: c.Page.Lead},
		components.Cards(c.Page.Cards),
		components.Sections(c.Page.Sections),
	)
	return
}

// body is everything inside <body>: skip link, navbar mount point, content,
// footer and the live client script.
type body struct {
	page   website.Page
	navbar string
	opts   Options
}

func (pb body) Render(b *element.Builder) (x any) {
	b.A("href", "#"+ContentID, "class", "sr-only").T("Skip to main content")
	b.Div("data-live-view", "navbar", "data-live-path", html.EscapeString(pb.page.Path)).T(pb.navbar)
	b.Main("id", ContentID).R(
		Content{Page: pb.page}.Render(b),
	)
	pb.opts.Footer.Render(b)
	if pb.opts.ScriptSrc != "" {
		b.Script("src", html.EscapeString(pb.opts.ScriptSrc),
			"data-live-endpoint", html.EscapeString(pb.opts.LivePath),
			"defer", "defer").R()
	}
	return
}

// RenderPage generates a complete document for page. navbar is the server
// rendered navbar markup for the page path.
func RenderPage(page website.Page, navbar string, opts Options) (string, error) {
	b := element.NewBuilder()
	body{page: page, navbar: navbar, opts: opts}.Render(b)
	return website.RenderDocument(opts.Config.ForPage(opts.BaseURL, page), opts.CustomCSS, b.String())
}
