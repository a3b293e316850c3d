// Package components provides the page sections of the marketing site as
// element components.
package components

import (
	"html"

	"github.com/rohanthewiz/element"
)

// Hero opens a page: headline, lead and an optional call to action.
type Hero struct {
	Title    string
	Subtitle string
	Action   HeroButton
}

// HeroButton is a hero call to action.
type HeroButton struct {
	Text string
	URL  string
}

func (h Hero) Render(b *element.Builder) (x any) {
	b.Section("class", "hero", "aria-labelledby", "hero-title").R(
		b.DivClass("section-container").R(
			b.H1("id", "hero-title", "class", "hero-title").T(html.EscapeString(h.Title)),
			b.Wrap(func() {
				if h.Subtitle != "" {
					b.P("class", "hero-subtitle").T(html.EscapeString(h.Subtitle))
				}
				if h.Action.Text != "" {
					b.P("class", "hero-action").R(
						b.A("href", html.EscapeString(h.Action.URL), "class", "card-title", "data-nav", "link").
							T(html.EscapeString(h.Action.Text)),
					)
				}
			}),
		),
	)
	return
}
