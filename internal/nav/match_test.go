package nav

import "testing"

func TestIsActive(t *testing.T) {
	tests := []struct {
		target  string
		current string
		want    bool
	}{
		{"/", "/", true},
		{"/", "/about", false},
		{"/", "", false},
		{"/", "//", false},
		{"/about", "/about", true},
		{"/about", "/about/team", true},
		{"/about", "/", false},
		{"/solutions", "/solutions/foundrfate", true},
		{"/solutions", "/solutions", true},
		{"/solutions", "/sol", false},
		{"/solutions", "", false},
		{"/career", "/careers", true},
		{"/contact", "/privacy", false},
	}

	for _, tt := range tests {
		if got := IsActive(tt.target, tt.current); got != tt.want {
			t.Errorf("IsActive(%q, %q) = %v, want %v", tt.target, tt.current, got, tt.want)
		}
	}
}

func TestIsActive_RootOnlyMatchesItself(t *testing.T) {
	for _, e := range Entries() {
		path := e.Target()
		if got := IsActive("/", path); got != (path == "/") {
			t.Errorf("IsActive(\"/\", %q) = %v", path, got)
		}
	}
}
