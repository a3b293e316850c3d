// Package website renders the ConsenTerra marketing pages that host the live
// navbar: document head, stylesheet, page table and page sections.
package website

// PageConfig defines the document level metadata of a page.
type PageConfig struct {
	// Title is the page title (shown in browser tab and search results)
	Title string
	// Description is the meta description for SEO
	Description string
	// URL is the canonical URL of the page
	URL string
	// SiteName is the brand used in titles and structured data
	SiteName string
	// Language is the page language (default: "en")
	Language string
	// ThemeColor is the mobile browser theme color
	ThemeColor string
	// Favicon is the path to the favicon
	Favicon string
}

// Page is one routed marketing page.
type Page struct {
	Path        string
	Title       string
	Description string

	// Heading and Lead open the page.
	Heading string
	Lead    string

	Sections []Section
	Cards    []Card
}

// Section is a titled block of paragraphs.
type Section struct {
	Heading    string
	Paragraphs []string
}

// Card links to another page with a short summary.
type Card struct {
	Title       string
	Description string
	Href        string
}

// FooterLink is a link in the footer navigation.
type FooterLink struct {
	Label string
	URL   string
}

// FooterConfig configures the footer section.
type FooterConfig struct {
	Tagline   string
	Email     string
	Copyright string
	Links     []FooterLink
}

// DefaultPageConfig returns a PageConfig with the site defaults.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		SiteName:   "ConsenTerra",
		Language:   "en",
		ThemeColor: Colors["primary"],
	}
}

// ForPage derives the metadata of page from the site defaults.
func (c PageConfig) ForPage(baseURL string, page Page) PageConfig {
	c.Title = page.Title
	if c.SiteName != "" && page.Path != "/" {
		c.Title = page.Title + " | " + c.SiteName
	}
	c.Description = page.Description
	if baseURL != "" {
		c.URL = baseURL + page.Path
	}
	return c
}
