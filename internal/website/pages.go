package website

import (
	"sort"

	"github.com/consenterra/website/internal/nav"
)

var basePages = []Page{
	{
		Path:        "/",
		Title:       "ConsenTerra",
		Description: "Tools that make consent, founding and everyday sustainability understandable.",
		Heading:     "Technology that earns your trust",
		Lead:        "ConsenTerra builds small, honest products for people who want to understand what they agree to and what their choices change.",
		Sections: []Section{
			{
				Heading: "What we do",
				Paragraphs: []string{
					"We turn fine print, founder folklore and green claims into plain language and concrete next steps.",
				},
			},
		},
	},
	{
		Path:        "/about",
		Title:       "About Us",
		Description: "The people and principles behind ConsenTerra.",
		Heading:     "About ConsenTerra",
		Lead:        "A small team building products around informed consent.",
		Sections: []Section{
			{
				Heading: "Our principles",
				Paragraphs: []string{
					"Explain before asking. Measure what matters. Never collect data we do not need.",
				},
			},
		},
	},
	{
		Path:        "/privacy",
		Title:       "Privacy Policy",
		Description: "How ConsenTerra handles personal data.",
		Heading:     "Privacy Policy",
		Lead:        "We collect as little as possible and explain every piece we keep.",
		Sections: []Section{
			{
				Heading: "Data we process",
				Paragraphs: []string{
					"Server logs with request metadata are kept for a limited time for security and reliability.",
					"This site sets no tracking cookies and remembers no menu state between visits.",
				},
			},
			{
				Heading:    "Your rights",
				Paragraphs: []string{"You can ask for access to, correction of, or deletion of your data at any time."},
			},
		},
	},
	{
		Path:        "/career",
		Title:       "Career",
		Description: "Work with ConsenTerra.",
		Heading:     "Careers",
		Lead:        "We are always happy to hear from people who care about trustworthy technology.",
	},
	{
		Path:        "/contact",
		Title:       "Contact",
		Description: "Get in touch with ConsenTerra.",
		Heading:     "Contact",
		Lead:        "Questions, partnerships or press: we read every message.",
	},
}

var solutionLeads = map[string]string{
	"/solutions/prixplainer":   "Privacy policies and consent banners, translated into what actually happens to your data.",
	"/solutions/foundrfate":    "Structured guidance for founders, built from what worked for others.",
	"/solutions/trusteartthy": "Everyday product swaps with a measurable footprint.",
}

// NotFoundPage is rendered for unknown paths.
var NotFoundPage = Page{
	Title:       "Page not found",
	Description: "The page you are looking for does not exist.",
	Heading:     "Page not found",
	Lead:        "The page you are looking for does not exist or has moved.",
}

// Pages returns every routed page. Solution pages and the solutions overview
// are derived from the navigation table.
func Pages() []Page {
	pages := make([]Page, 0, len(basePages)+4)
	pages = append(pages, basePages...)

	overview := Page{
		Path:        "/solutions",
		Title:       "Solutions",
		Description: "PriXplainer, FoundrFATE and TrustEarthy.",
		Heading:     "Our solutions",
		Lead:        "Three products, one goal: decisions you understand.",
	}
	for _, s := range nav.Solutions() {
		overview.Cards = append(overview.Cards, Card{Title: s.Title, Description: s.Description, Href: s.Href})
		pages = append(pages, Page{
			Path:        s.Href,
			Title:       s.Title,
			Description: s.Description,
			Heading:     s.Title,
			Lead:        s.Description,
			Sections: []Section{
				{Heading: "Overview", Paragraphs: []string{solutionLeads[s.Href]}},
			},
		})
	}
	pages = append(pages, overview)

	for i := range pages {
		if pages[i].Path == "/" {
			pages[i].Cards = overview.Cards
		}
	}

	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })
	return pages
}

// Lookup finds the page routed at path.
func Lookup(path string) (Page, bool) {
	for _, p := range Pages() {
		if p.Path == path {
			return p, true
		}
	}
	return Page{}, false
}
