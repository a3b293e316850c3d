package website

import (
	"fmt"
	"sort"
	"strings"
)

// Colors is the site palette.
var Colors = map[string]string{
	"bg":          "#FFFFFF",
	"bgAlt":       "#F5F7F4",
	"text":        "#14201A",
	"textMuted":   "#55635B",
	"primary":     "#2F7D57",
	"primaryDark": "#23603F",
	"popover":     "#FFFFFF",
	"border":      "#E2E8E4",
}

// FontFamily uses the system font stack.
var FontFamily = `system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif`

// Breakpoints for responsive design (mobile-first: min-width). The navbar
// switches between its mobile and desktop layout at lg.
var Breakpoints = map[string]string{
	"md": "768px",
	"lg": "1024px",
}

// StyleOption allows customizing the generated CSS
type StyleOption func(*styleConfig)

type styleConfig struct {
	customColors map[string]string
	includeReset bool
}

// WithCustomColors overrides default colors
func WithCustomColors(colors map[string]string) StyleOption {
	return func(cfg *styleConfig) {
		for k, v := range colors {
			cfg.customColors[k] = v
		}
	}
}

// WithReset includes a CSS reset
func WithReset(include bool) StyleOption {
	return func(cfg *styleConfig) {
		cfg.includeReset = include
	}
}

// RenderStyles generates the complete site stylesheet.
func RenderStyles(opts ...StyleOption) string {
	cfg := &styleConfig{
		customColors: make(map[string]string),
		includeReset: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	colors := make(map[string]string, len(Colors))
	for k, v := range Colors {
		colors[k] = v
	}
	for k, v := range cfg.customColors {
		colors[k] = v
	}

	var sb strings.Builder

	if cfg.includeReset {
		sb.WriteString(cssReset())
	}
	sb.WriteString(cssVariables(colors))
	sb.WriteString(cssBase())
	sb.WriteString(cssNavbar())
	sb.WriteString(cssPage())
	sb.WriteString(cssResponsive())

	return sb.String()
}

func cssReset() string {
	return `
*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
html{-webkit-text-size-adjust:100%}
body{line-height:1.6;-webkit-font-smoothing:antialiased}
svg{display:block}
button{font:inherit;color:inherit;background:none;border:none;cursor:pointer}
a{color:inherit;text-decoration:none}
ul{list-style:none}
`
}

func cssVariables(colors map[string]string) string {
	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]string, 0, len(names))
	for _, name := range names {
		vars = append(vars, fmt.Sprintf("--color-%s:%s", name, colors[name]))
	}
	return fmt.Sprintf(":root{%s;--font-sans:%s}\n", strings.Join(vars, ";"), FontFamily)
}

func cssBase() string {
	return `
body{font-family:var(--font-sans);background:var(--color-bg);color:var(--color-text);min-height:100vh}
.section-container{width:100%;max-width:1200px;margin:0 auto;padding:0 1rem}
.sr-only{position:absolute;width:1px;height:1px;overflow:hidden;clip:rect(0,0,0,0);white-space:nowrap}
.sr-only:focus{position:static;width:auto;height:auto;clip:auto}
`
}

// cssNavbar styles the live header. The desktop dropdown panel is disclosed
// purely by :hover and :focus-within; the server only renders its content.
func cssNavbar() string {
	return `
.site-header{position:sticky;top:0;z-index:50;width:100%;background:var(--color-bg)}
.nav-bar{display:flex;height:4rem;align-items:center;justify-content:space-between}
.nav-logo{font-size:1.25rem;font-weight:600;color:var(--color-text);transition:color .2s}
.nav-logo:hover{color:var(--color-primary)}
.nav-desktop{display:none}
.nav-list{display:flex;align-items:center;gap:.25rem}
.nav-item{position:relative}
.nav-link{display:inline-flex;height:2.5rem;align-items:center;gap:.25rem;padding:.5rem 1rem;font-size:.875rem;transition:color .2s}
.nav-link:hover,.nav-link.active{color:var(--color-primary)}
.nav-chevron svg{width:1rem;height:1rem;transition:transform .2s}
.nav-dropdown-panel{display:none;position:absolute;top:100%;left:0;width:280px;padding:.5rem;background:var(--color-popover);border:1px solid var(--color-border);border-radius:.5rem;box-shadow:0 10px 30px rgba(0,0,0,.08)}
.nav-dropdown:hover .nav-dropdown-panel,.nav-dropdown:focus-within .nav-dropdown-panel{display:block}
.nav-dropdown:hover .nav-chevron svg,.nav-dropdown:focus-within .nav-chevron svg{transform:rotate(180deg)}
.nav-solution{display:block;padding:.75rem;border-radius:.375rem;line-height:1;transition:background .2s}
.nav-solution:hover{background:var(--color-bgAlt)}
.nav-solution-title{font-size:.875rem;font-weight:500}
.nav-solution-desc{margin-top:.25rem;font-size:.75rem;line-height:1.3;color:var(--color-textMuted)}
.nav-toggle{padding:.5rem;border-radius:.375rem;transition:background .2s}
.nav-toggle:hover{background:var(--color-bgAlt)}
.nav-toggle svg{width:1.25rem;height:1.25rem}
.nav-mobile{border-top:1px solid var(--color-border);background:var(--color-bg)}
.nav-mobile-list{padding-top:1rem;padding-bottom:1rem}
.nav-mobile-list>*+*{margin-top:.25rem}
.nav-mobile-link,.nav-mobile-trigger,.nav-mobile-sublink{display:flex;width:100%;align-items:center;justify-content:space-between;padding:.5rem .75rem;border-radius:.375rem;font-size:.875rem;transition:background .2s}
.nav-mobile-link:hover,.nav-mobile-trigger:hover,.nav-mobile-sublink:hover{background:var(--color-bgAlt)}
.nav-mobile-link.active,.nav-mobile-trigger.active{color:var(--color-primary)}
.nav-mobile-solutions{padding-left:1rem;margin-top:.25rem}
.nav-mobile-sublink{color:var(--color-textMuted)}
.nav-mobile-sublink:hover{color:var(--color-text)}
.nav-chevron.rotated svg{transform:rotate(180deg)}
`
}

func cssPage() string {
	return `
.hero{padding:4rem 0 2rem}
.hero-title{font-size:clamp(2rem,5vw,3.25rem);font-weight:700;line-height:1.1;letter-spacing:-.02em;margin-bottom:1rem}
.hero-subtitle{max-width:640px;font-size:1.125rem;color:var(--color-textMuted)}
.page-section{padding:2rem 0}
.page-section h2{font-size:1.5rem;margin-bottom:.75rem}
.page-section p{color:var(--color-textMuted);max-width:720px}
.page-section p+p{margin-top:.75rem}
.cards{display:grid;grid-template-columns:1fr;gap:1rem;padding:2rem 0}
.card{display:block;padding:1.5rem;border:1px solid var(--color-border);border-radius:.75rem;transition:border-color .2s}
.card:hover{border-color:var(--color-primary)}
.card-title{font-weight:600;margin-bottom:.5rem}
.card-desc{font-size:.875rem;color:var(--color-textMuted)}
.site-footer{margin-top:4rem;padding:2rem 0;border-top:1px solid var(--color-border);font-size:.875rem;color:var(--color-textMuted)}
.footer-links{display:flex;flex-wrap:wrap;gap:1rem;margin:1rem 0}
.footer-links a:hover{color:var(--color-primary)}
`
}

func cssResponsive() string {
	return fmt.Sprintf(`
@media(min-width:%s){
.cards{grid-template-columns:repeat(3,1fr)}
.section-container{padding:0 1.5rem}
}
@media(min-width:%s){
.nav-desktop{display:flex;align-items:center}
.nav-toggle-slot,.nav-mobile-slot{display:none}
}
@media(prefers-reduced-motion:reduce){*{transition-duration:.01ms!important}}
`, Breakpoints["md"], Breakpoints["lg"])
}
