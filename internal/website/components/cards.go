package components

import (
	"html"

	"github.com/rohanthewiz/element"

	"github.com/consenterra/website/internal/website"
)

// Cards is a grid of linked cards. An empty grid renders nothing.
type Cards []website.Card

func (cs Cards) Render(b *element.Builder) (x any) {
	if len(cs) == 0 {
		return
	}
	b.Section("class", "section-container cards").R(
		element.ForEach([]website.Card(cs), func(c website.Card) {
			b.A("href", html.EscapeString(c.Href), "class", "card", "data-nav", "link").R(
				b.DivClass("card-title").T(html.EscapeString(c.Title)),
				b.P("class", "card-desc").T(html.EscapeString(c.Description)),
			)
		}),
	)
	return
}

// Sections renders the text blocks of a page.
type Sections []website.Section

func (ss Sections) Render(b *element.Builder) (x any) {
	element.ForEach([]website.Section(ss), func(s website.Section) {
		b.Section("class", "section-container page-section").R(
			b.Wrap(func() {
				if s.Heading != "" {
					b.H2().T(html.EscapeString(s.Heading))
				}
			}),
			element.ForEach(s.Paragraphs, func(p string) {
				b.P().T(html.EscapeString(p))
			}),
		)
	})
	return
}
