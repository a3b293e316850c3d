package components

import (
	"html"

	"github.com/rohanthewiz/element"

	"github.com/consenterra/website/internal/website"
)

// Footer is the site footer.
type Footer struct {
	Config   website.FooterConfig
	LogoText string
}

func (f Footer) Render(b *element.Builder) (x any) {
	cfg := f.Config
	b.Footer("class", "site-footer", "role", "contentinfo").R(
		b.DivClass("section-container").R(
			b.Wrap(func() {
				if f.LogoText != "" {
					b.DivClass("nav-logo").T(html.EscapeString(f.LogoText))
				}
				if cfg.Tagline != "" {
					b.P().T(html.EscapeString(cfg.Tagline))
				}
				if len(cfg.Links) > 0 {
					b.Nav("class", "footer-links", "aria-label", "Footer navigation").R(
						element.ForEach(cfg.Links, func(l website.FooterLink) {
							b.A("href", html.EscapeString(l.URL), "data-nav", "link").T(html.EscapeString(l.Label))
						}),
					)
				}
				if cfg.Email != "" || cfg.Copyright != "" {
					b.Div().R(f.legal(b))
				}
			}),
		),
	)
	return
}

// legal writes the contact address and copyright separated by a dot.
func (f Footer) legal(b *element.Builder) (x any) {
	email := html.EscapeString(f.Config.Email)
	if email != "" {
		b.A("href", "mailto:"+email).T(email)
	}
	if f.Config.Copyright != "" {
		if email != "" {
			b.T(" · ")
		}
		b.T(html.EscapeString(f.Config.Copyright))
	}
	return
}

// DefaultFooter returns the standard ConsenTerra footer.
func DefaultFooter() Footer {
	return Footer{
		LogoText: "ConsenTerra",
		Config: website.FooterConfig{
			Tagline:   "Understand before you consent.",
			Email:     "hello@consenterra.com",
			Copyright: "© ConsenTerra",
			Links: []website.FooterLink{
				{Label: "Privacy Policy", URL: "/privacy"},
				{Label: "Career", URL: "/career"},
				{Label: "Contact", URL: "/contact"},
			},
		},
	}
}
