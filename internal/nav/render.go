package nav

import (
	"strconv"

	"github.com/rohanthewiz/element"
)

// DefaultBrand is the text logo.
const DefaultBrand = "ConsenTerra"

// Icons supplies the decorative glyphs as inline SVG markup.
type Icons interface {
	MenuOpen() string
	MenuClose() string
	Chevron() string
}

// Slot names of the live header. Their inner markup is what travels in diffs.
const (
	SlotDesktop = "desktop"
	SlotToggle  = "toggle"
	SlotMobile  = "mobile"
)

// Markup renders one navbar frame.
type Markup struct {
	Brand string
	View  View
	Icons Icons
}

// Render implements element.Component.
func (m Markup) Render(b *element.Builder) (x any) {
	icons := m.Icons
	if icons == nil {
		icons = textIcons{}
	}
	brand := m.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	b.Header("id", "navbar", "class", "site-header").R(
		b.Nav("class", "section-container nav-bar", "aria-label", "Main navigation").R(
			b.A("href", "/", "class", "nav-logo", "data-nav", "link").T(brand),
			b.Div("class", "nav-desktop", "data-slot", SlotDesktop).R(
				RenderDesktop(b, m.View.Desktop, icons),
			),
			b.Div("class", "nav-toggle-slot", "data-slot", SlotToggle).R(
				renderToggle(b, m.View.MobileOpen, icons),
			),
		),
		b.Div("class", "nav-mobile-slot", "data-slot", SlotMobile).R(
			RenderMobile(b, m.View.Mobile, icons),
		),
	)
	return
}

// Render returns the navbar markup for v.
func Render(brand string, v View, icons Icons) string {
	b := element.NewBuilder()
	element.RenderComponents(b, Markup{Brand: brand, View: v, Icons: icons})
	return b.String()
}

// RenderDesktop writes the horizontal menu. Dropdown panels are shown by the
// stylesheet on hover and focus-within.
func RenderDesktop(b *element.Builder, items []Item, icons Icons) (x any) {
	b.Ul("class", "nav-list").R(
		element.ForEach(items, func(it Item) {
			if it.Dropdown {
				renderDesktopDropdown(b, it, icons)
				return
			}
			b.Li("class", "nav-item").R(
				b.A("href", it.Href, "class", activeClass("nav-link", it.Active), "data-nav", "link").T(it.Name),
			)
		}),
	)
	return
}

func renderDesktopDropdown(b *element.Builder, it Item, icons Icons) {
	b.Li("class", "nav-item nav-dropdown").R(
		b.Button("type", "button", "class", activeClass("nav-link nav-trigger", it.Active), "aria-haspopup", "true").R(
			b.T(it.Name),
			b.Span("class", "nav-chevron", "aria-hidden", "true").T(icons.Chevron()),
		),
		b.Ul("class", "nav-dropdown-panel").R(
			element.ForEach(it.Solutions, func(s Solution) {
				b.Li().R(
					b.A("href", s.Href, "class", "nav-solution", "data-nav", "link").R(
						b.Div("class", "nav-solution-title").T(s.Title),
						b.P("class", "nav-solution-desc").T(s.Description),
					),
				)
			}),
		),
	)
}

// RenderMobile writes the open mobile menu. Nothing is written for a nil
// panel, and the solutions list only exists while the disclosure is
// expanded.
func RenderMobile(b *element.Builder, panel *MobilePanel, icons Icons) (x any) {
	if panel == nil {
		return
	}

	b.Div("class", "nav-mobile").R(
		b.Div("class", "section-container nav-mobile-list").R(
			element.ForEach(panel.Items, func(it Item) {
				if it.Dropdown {
					renderMobileDropdown(b, it, panel.SolutionsOpen, icons)
					return
				}
				b.A("href", it.Href, "class", activeClass("nav-mobile-link", it.Active),
					"lv-click", EventNavigate, "lv-value-href", it.Href).T(it.Name)
			}),
		),
	)
	return
}

func renderMobileDropdown(b *element.Builder, it Item, open bool, icons Icons) {
	chevron := "nav-chevron"
	if open {
		chevron += " rotated"
	}

	b.Div("class", "nav-mobile-group").R(
		b.Button("type", "button", "class", activeClass("nav-mobile-trigger", it.Active),
			"lv-click", EventToggleSolutions, "aria-expanded", strconv.FormatBool(open)).R(
			b.T(it.Name),
			b.Span("class", chevron, "aria-hidden", "true").T(icons.Chevron()),
		),
		b.Wrap(func() {
			if !open {
				return
			}
			b.Div("class", "nav-mobile-solutions").R(
				element.ForEach(it.Solutions, func(s Solution) {
					b.A("href", s.Href, "class", "nav-mobile-sublink",
						"lv-click", EventNavigate, "lv-value-href", s.Href).T(s.Title)
				}),
			)
		}),
	)
}

func renderToggle(b *element.Builder, open bool, icons Icons) (x any) {
	glyph := icons.MenuOpen()
	if open {
		glyph = icons.MenuClose()
	}

	b.Button("type", "button", "class", "nav-toggle", "lv-click", EventToggleMenu,
		"aria-label", "Toggle menu", "aria-expanded", strconv.FormatBool(open)).T(glyph)
	return
}

func activeClass(base string, active bool) string {
	if active {
		return base + " active"
	}
	return base
}

// textIcons stands in when no icon set is configured.
type textIcons struct{}

func (textIcons) MenuOpen() string  { return "&#9776;" }
func (textIcons) MenuClose() string { return "&#10005;" }
func (textIcons) Chevron() string   { return "&#9662;" }
