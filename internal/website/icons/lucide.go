// Package icons supplies the navbar glyphs as inline Lucide SVGs.
package icons

import "fmt"

const svgAttrs = `xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"`

// Lucide renders the menu, x and chevron-down icons of the Lucide set.
type Lucide struct {
	// Size is the rendered width and height in pixels. Zero leaves sizing to
	// the stylesheet.
	Size int
}

func (l Lucide) svg(name, body string) string {
	size := ""
	if l.Size > 0 {
		size = fmt.Sprintf(` width="%d" height="%d"`, l.Size, l.Size)
	}
	return fmt.Sprintf(`<svg class="lucide lucide-%s"%s %s>%s</svg>`, name, size, svgAttrs, body)
}

// MenuOpen is the hamburger shown while the mobile menu is closed.
func (l Lucide) MenuOpen() string {
	return l.svg("menu", `<line x1="4" x2="20" y1="12" y2="12"></line><line x1="4" x2="20" y1="6" y2="6"></line><line x1="4" x2="20" y1="18" y2="18"></line>`)
}

// MenuClose is the cross shown while the mobile menu is open.
func (l Lucide) MenuClose() string {
	return l.svg("x", `<path d="M18 6 6 18"></path><path d="m6 6 12 12"></path>`)
}

// Chevron marks dropdown triggers.
func (l Lucide) Chevron() string {
	return l.svg("chevron-down", `<path d="m6 9 6 6 6-6"></path>`)
}
