// Package nav implements the site navigation bar: the link tables, the
// active-route matcher, the mobile menu state machine and the live component
// that renders them.
package nav

// Solution is a leaf entry of the Solutions dropdown.
type Solution struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Href        string `yaml:"href"`
}

// Entry is a top-level navigation entry. It is implemented only by Link and
// Dropdown.
type Entry interface {
	Label() string
	Target() string
	isEntry()
}

// Link is a plain navigation link.
type Link struct {
	Name string
	Href string
}

func (l Link) Label() string  { return l.Name }
func (l Link) Target() string { return l.Href }
func (Link) isEntry()         {}

// Dropdown is an entry that reveals a panel of solutions.
type Dropdown struct {
	Name      string
	Href      string
	Solutions []Solution
}

func (d Dropdown) Label() string  { return d.Name }
func (d Dropdown) Target() string { return d.Href }
func (Dropdown) isEntry()         {}

// HasDropdown reports whether e reveals a solutions panel.
func HasDropdown(e Entry) bool {
	_, ok := e.(Dropdown)
	return ok
}

var solutions = []Solution{
	{
		Title:       "PriXplainer",
		Description: "Understand before you consent.",
		Href:        "/solutions/prixplainer",
	},
	{
		Title:       "FoundrFATE",
		Description: "Founder success shouldn't feel like luck.",
		Href:        "/solutions/foundrfate",
	},
	{
		// The destination keeps the spelling the live site was published with.
		Title:       "TrustEarthy",
		Description: "Small swaps. Real impact.",
		Href:        "/solutions/trusteartthy",
	},
}

var entries = []Entry{
	Link{Name: "Home", Href: "/"},
	Link{Name: "About Us", Href: "/about"},
	Dropdown{Name: "Solutions", Href: "/solutions", Solutions: solutions},
	Link{Name: "Privacy Policy", Href: "/privacy"},
	Link{Name: "Career", Href: "/career"},
	Link{Name: "Contact", Href: "/contact"},
}

// Solutions returns a copy of the solutions table.
func Solutions() []Solution {
	return cloneSolutions(solutions)
}

// Entries returns a copy of the navigation table, in display order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		if d, ok := e.(Dropdown); ok {
			d.Solutions = cloneSolutions(d.Solutions)
			e = d
		}
		out[i] = e
	}
	return out
}

func cloneSolutions(in []Solution) []Solution {
	out := make([]Solution, len(in))
	copy(out, in)
	return out
}
