package nav

import "fmt"

// Item is one rendered navigation entry.
type Item struct {
	Name   string `yaml:"name"`
	Href   string `yaml:"href"`
	Active bool   `yaml:"active"`

	// Dropdown is set for entries revealing a solutions panel.
	Dropdown  bool       `yaml:"dropdown,omitempty"`
	Solutions []Solution `yaml:"solutions,omitempty"`
}

// MobilePanel is the content of the open mobile menu.
type MobilePanel struct {
	Items []Item

	// SolutionsOpen expands the solutions disclosure.
	SolutionsOpen bool
}

// View is everything the renderers need for one frame.
type View struct {
	Current    string
	MobileOpen bool
	Desktop    []Item

	// Mobile is nil while the mobile menu is closed.
	Mobile *MobilePanel
}

// BuildView derives the rendered view from the navigation table, the current
// path and the menu state. Desktop and mobile items come from the same table.
func BuildView(current string, state MenuState) View {
	v := View{
		Current:    current,
		MobileOpen: state.MobileOpen,
		Desktop:    buildItems(current),
	}
	if state.MobileOpen {
		v.Mobile = &MobilePanel{
			Items:         buildItems(current),
			SolutionsOpen: state.SolutionsOpen,
		}
	}
	return v
}

func buildItems(current string) []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, itemFor(e, current))
	}
	return items
}

func itemFor(e Entry, current string) Item {
	switch e := e.(type) {
	case Link:
		return Item{
			Name:   e.Name,
			Href:   e.Href,
			Active: IsActive(e.Href, current),
		}
	case Dropdown:
		return Item{
			Name:      e.Name,
			Href:      e.Href,
			Active:    IsActive(e.Href, current),
			Dropdown:  true,
			Solutions: cloneSolutions(e.Solutions),
		}
	default:
		panic(fmt.Sprintf("nav: unknown entry type %T", e))
	}
}
