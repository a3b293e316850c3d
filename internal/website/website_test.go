package website

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consenterra/website/internal/nav"
)

func TestPages_CoverNavigationTargets(t *testing.T) {
	for _, e := range nav.Entries() {
		_, ok := Lookup(e.Target())
		assert.True(t, ok, "no page for %s", e.Target())

		if d, isDropdown := e.(nav.Dropdown); isDropdown {
			for _, s := range d.Solutions {
				page, ok := Lookup(s.Href)
				require.True(t, ok, "no page for %s", s.Href)
				assert.Equal(t, s.Title, page.Heading)
				assert.Equal(t, s.Description, page.Lead)
			}
		}
	}
}

func TestPages_UniqueSortedPaths(t *testing.T) {
	pages := Pages()
	seen := make(map[string]bool)
	for i, p := range pages {
		assert.False(t, seen[p.Path], "duplicate page %s", p.Path)
		seen[p.Path] = true
		if i > 0 {
			assert.Less(t, pages[i-1].Path, p.Path)
		}
	}
}

func TestPages_SolutionsOverviewCards(t *testing.T) {
	page, ok := Lookup("/solutions")
	require.True(t, ok)

	require.Len(t, page.Cards, len(nav.Solutions()))
	for i, s := range nav.Solutions() {
		assert.Equal(t, s.Href, page.Cards[i].Href)
	}

	home, _ := Lookup("/")
	assert.Equal(t, page.Cards, home.Cards)
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("/nope")
	assert.False(t, ok)
}

func TestPageConfig_ForPage(t *testing.T) {
	cfg := DefaultPageConfig()

	home := cfg.ForPage("https://consenterra.com", Page{Path: "/", Title: "ConsenTerra"})
	assert.Equal(t, "ConsenTerra", home.Title)
	assert.Equal(t, "https://consenterra.com/", home.URL)

	about := cfg.ForPage("", Page{Path: "/about", Title: "About Us", Description: "d"})
	assert.Equal(t, "About Us | ConsenTerra", about.Title)
	assert.Empty(t, about.URL)
	assert.Equal(t, "d", about.Description)
}

func TestRenderHead_EscapesMetadata(t *testing.T) {
	head, err := RenderHead(PageConfig{
		Title:       `Tom & "Jerry"`,
		Description: "<b>bold</b>",
		SiteName:    "ConsenTerra",
		URL:         "https://consenterra.com/about",
	}, ".extra{}")
	require.NoError(t, err)

	assert.Contains(t, head, "<title>Tom &amp; &#34;Jerry&#34;</title>")
	assert.Contains(t, head, `content="&lt;b&gt;bold&lt;/b&gt;"`)
	assert.Contains(t, head, `<link rel="canonical" href="https://consenterra.com/about">`)
	assert.Contains(t, head, `"@type":"Organization"`)
	assert.NotContains(t, head, "<b>bold</b>")
	assert.Contains(t, head, ".extra{}")
}

func TestRenderDocument(t *testing.T) {
	doc, err := RenderDocument(PageConfig{Title: "T"}, "", "<main>hi</main>")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>\n<html lang=\"en\">"))
	assert.Contains(t, doc, "<body>\n<main>hi</main>\n</body>")
}

func TestRenderStyles_NavbarDisclosure(t *testing.T) {
	css := RenderStyles()

	assert.Contains(t, css, ".nav-dropdown:hover .nav-dropdown-panel,.nav-dropdown:focus-within .nav-dropdown-panel{display:block}")
	assert.Contains(t, css, "@media(min-width:1024px){\n.nav-desktop{display:flex;align-items:center}")
	assert.Contains(t, css, "--color-primary:"+Colors["primary"])
}

func TestRenderStyles_Options(t *testing.T) {
	css := RenderStyles(WithCustomColors(map[string]string{"primary": "#000000"}), WithReset(false))

	assert.Contains(t, css, "--color-primary:#000000")
	assert.NotContains(t, css, "box-sizing:border-box")
	assert.Equal(t, css, RenderStyles(WithCustomColors(map[string]string{"primary": "#000000"}), WithReset(false)))
}

func TestRenderHead_JSONLDCannotCloseScript(t *testing.T) {
	head, err := RenderHead(PageConfig{SiteName: "CT", Description: "</script><script>alert(1)</script>"}, "")
	require.NoError(t, err)

	assert.NotContains(t, head, "</script><script>alert(1)")
	assert.Contains(t, head, `<script type="application/ld+json">`)
	assert.Contains(t, head, `"name":"CT"`)
}

func TestExecute_ReportsTemplateErrors(t *testing.T) {
	out, err := execute("missing", newDocument(PageConfig{Title: "T"}, ""))
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, err.Error(), "failed to render missing")
}
