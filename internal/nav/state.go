package nav

// MenuState holds the two interaction flags of a navbar instance. The zero
// value is the initial state: mobile menu closed, solutions collapsed.
//
// SolutionsOpen only matters while MobileOpen is set. Closing the mobile menu
// does not reset it, so re-opening the menu shows the disclosure as it was
// left.
type MenuState struct {
	MobileOpen    bool
	SolutionsOpen bool
}

// ToggleMobile opens a closed mobile menu and closes an open one.
func (s *MenuState) ToggleMobile() {
	s.MobileOpen = !s.MobileOpen
}

// ToggleSolutions flips the mobile solutions disclosure.
func (s *MenuState) ToggleSolutions() {
	s.SolutionsOpen = !s.SolutionsOpen
}

// Navigated closes the mobile menu after a link was followed.
func (s *MenuState) Navigated() {
	s.MobileOpen = false
}
