package nav

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntries_Table(t *testing.T) {
	type row struct {
		Name     string
		Href     string
		Dropdown bool
	}
	var got []row
	for _, e := range Entries() {
		got = append(got, row{e.Label(), e.Target(), HasDropdown(e)})
	}

	want := []row{
		{"Home", "/", false},
		{"About Us", "/about", false},
		{"Solutions", "/solutions", true},
		{"Privacy Policy", "/privacy", false},
		{"Career", "/career", false},
		{"Contact", "/contact", false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("navigation table mismatch (-want +got):\n%s", diff)
	}
}

func TestSolutions_Table(t *testing.T) {
	want := []Solution{
		{Title: "PriXplainer", Description: "Understand before you consent.", Href: "/solutions/prixplainer"},
		{Title: "FoundrFATE", Description: "Founder success shouldn't feel like luck.", Href: "/solutions/foundrfate"},
		{Title: "TrustEarthy", Description: "Small swaps. Real impact.", Href: "/solutions/trusteartthy"},
	}
	if diff := cmp.Diff(want, Solutions()); diff != "" {
		t.Errorf("solutions mismatch (-want +got):\n%s", diff)
	}
}

func TestTables_AccessorsReturnCopies(t *testing.T) {
	s := Solutions()
	s[0].Title = "changed"

	es := Entries()
	es[0] = Link{Name: "Elsewhere", Href: "/x"}
	d := es[2].(Dropdown)
	d.Solutions[0].Href = "/changed"

	assert.Equal(t, "PriXplainer", Solutions()[0].Title)
	assert.Equal(t, "Home", Entries()[0].Label())
	assert.Equal(t, "/solutions/prixplainer", Entries()[2].(Dropdown).Solutions[0].Href)
}

func activeNames(items []Item) []string {
	var names []string
	for _, it := range items {
		if it.Active {
			names = append(names, it.Name)
		}
	}
	return names
}

func TestBuildView_ActiveEntries(t *testing.T) {
	tests := []struct {
		current string
		want    []string
	}{
		{"/", []string{"Home"}},
		{"/about", []string{"About Us"}},
		{"/solutions/prixplainer", []string{"Solutions"}},
		{"/solutions", []string{"Solutions"}},
		{"/privacy", []string{"Privacy Policy"}},
		{"/unknown", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			v := BuildView(tt.current, MenuState{MobileOpen: true})
			assert.Equal(t, tt.want, activeNames(v.Desktop))
			require.NotNil(t, v.Mobile)
			assert.Equal(t, tt.want, activeNames(v.Mobile.Items))
		})
	}
}

func TestBuildView_MobilePanel(t *testing.T) {
	closed := BuildView("/", MenuState{SolutionsOpen: true})
	assert.Nil(t, closed.Mobile, "closed menu has no panel even with the disclosure expanded")
	assert.False(t, closed.MobileOpen)

	open := BuildView("/", MenuState{MobileOpen: true, SolutionsOpen: true})
	require.NotNil(t, open.Mobile)
	assert.True(t, open.Mobile.SolutionsOpen)
	assert.True(t, open.MobileOpen)
}

func TestBuildView_DesktopAndMobileShareContent(t *testing.T) {
	for _, state := range []MenuState{
		{MobileOpen: true},
		{MobileOpen: true, SolutionsOpen: true},
	} {
		v := BuildView("/solutions/foundrfate", state)
		require.NotNil(t, v.Mobile)
		if diff := cmp.Diff(v.Desktop, v.Mobile.Items); diff != "" {
			t.Errorf("desktop and mobile diverge (-desktop +mobile):\n%s", diff)
		}
	}
}

func TestItemFor_PanicsOnUnknownEntry(t *testing.T) {
	assert.Panics(t, func() { itemFor(nil, "/") })
}
