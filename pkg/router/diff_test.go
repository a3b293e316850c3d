package router

import (
	"testing"

	"github.com/rohanthewiz/element"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consenterra/website/pkg/core"
)

func newDiffSession() *LiveViewSession {
	return NewLiveViewSession("test", nil, core.NewSocket("diff-test", nil), core.Params{}, core.Session{})
}

func TestExtractSlots(t *testing.T) {
	markup := `<nav>
<div data-slot="toggle"><button aria-expanded="false" aria-label="Toggle menu"><svg viewBox="0 0 24 24"><path d="M4 6h16"></path></svg></button></div>
<ul data-slot="desktop"><li><a href="/about" class="active">About</a></li><li data-slot="inner">ignored</li></ul>
<div data-slot="empty"></div>
</nav>`

	slots, err := extractSlots(markup)
	require.NoError(t, err)

	want := map[string]string{
		"toggle":  `<button aria-expanded="false" aria-label="Toggle menu"><svg viewBox="0 0 24 24"><path d="M4 6h16"></path></svg></button>`,
		"desktop": `<li><a class="active" href="/about">About</a></li><li data-slot="inner">ignored</li>`,
		"empty":   ``,
	}
	if diff := cmp.Diff(want, slots); diff != "" {
		t.Errorf("extractSlots mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDiffPayload_SendsOnlyChangedSlots(t *testing.T) {
	session := newDiffSession()

	first := `<div data-slot="a">one</div><div data-slot="b">two</div>`
	session.SetSlotHashes(slotHashes(first))

	assert.Nil(t, buildDiffPayload(session, first), "identical render produces no diff")
	assert.Equal(t, uint64(0), session.Version())

	second := `<div data-slot="a">one</div><div data-slot="b">three</div>`
	payload := buildDiffPayload(session, second)
	require.NotNil(t, payload)
	assert.Equal(t, uint64(1), payload.Version)
	assert.Equal(t, map[string]string{"b": "three"}, payload.HTMLSlots)
	assert.Empty(t, payload.Full)

	// The baseline moves with each diff.
	assert.Nil(t, buildDiffPayload(session, second))

	third := `<div data-slot="a">uno</div><div data-slot="b">two</div><div data-slot="c">new</div>`
	payload = buildDiffPayload(session, third)
	require.NotNil(t, payload)
	assert.Equal(t, uint64(2), payload.Version)
	assert.Equal(t, map[string]string{"a": "uno", "b": "two", "c": "new"}, payload.HTMLSlots)
}

func TestBuildDiffPayload_SlotlessFallsBackToFull(t *testing.T) {
	session := newDiffSession()
	session.SetSlotHashes(slotHashes(`<p>hello</p>`))

	assert.Nil(t, buildDiffPayload(session, `<p>hello</p>`))

	payload := buildDiffPayload(session, `<p>bye</p>`)
	require.NotNil(t, payload)
	assert.Equal(t, `<p>bye</p>`, payload.Full)
	assert.Empty(t, payload.HTMLSlots)
}

func TestSlotHashes_DistinguishContent(t *testing.T) {
	a := slotHashes(`<div data-slot="x">1</div>`)
	b := slotHashes(`<div data-slot="x">2</div>`)
	assert.NotEqual(t, a["x"], b["x"])
	assert.Equal(t, a, slotHashes(`<div data-slot="x">1</div>`))
}

func TestSlotHashes_IgnoreAttributeOrder(t *testing.T) {
	a := slotHashes(`<div data-slot="x"><a href="/about" class="nav-link" data-nav="link">About</a></div>`)
	b := slotHashes(`<div data-slot="x"><a data-nav="link" class="nav-link" href="/about">About</a></div>`)
	assert.Equal(t, a, b)

	slots, err := extractSlots(`<div data-slot="x"><a href="/about" class="nav-link">About</a></div>`)
	require.NoError(t, err)
	assert.Equal(t, `<a class="nav-link" href="/about">About</a>`, slots["x"])
}

func TestSlotHashes_StableAcrossElementRenders(t *testing.T) {
	render := func() string {
		b := element.NewBuilder()
		b.Div("class", "nav-desktop", "data-slot", "desktop", "id", "d").R(
			b.A("href", "/about", "class", "nav-link active", "data-nav", "link", "aria-current", "page").T("About"),
			b.Button("type", "button", "aria-expanded", "false", "aria-haspopup", "true", "data-nav", "dropdown").T("Solutions"),
		)
		return b.String()
	}

	want := slotHashes(render())
	for range 50 {
		require.Equal(t, want, slotHashes(render()))
	}

	session := newDiffSession()
	session.SetSlotHashes(want)
	for range 20 {
		assert.Nil(t, buildDiffPayload(session, render()))
	}
}
