package nav

import "strings"

// IsActive reports whether the entry pointing at target should be styled
// active while current is the page path. The root only matches itself; any
// other target matches as a path prefix. An empty current path never matches.
func IsActive(target, current string) bool {
	if current == "" {
		return false
	}
	if target == "/" {
		return current == "/"
	}
	return strings.HasPrefix(current, target)
}
