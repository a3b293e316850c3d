package router

import (
	"cmp"
	"hash/fnv"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/consenterra/website/pkg/core"
	"github.com/consenterra/website/pkg/pool"
)

// slotAttr marks an element whose inner HTML is diffed as one unit.
const slotAttr = "data-slot"

// parseCanonical parses a markup fragment and sorts every element's
// attributes by key, so renders that differ only in attribute order
// serialize to the same bytes.
func parseCanonical(markup string) ([]*html.Node, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		sortAttrs(n)
	}
	return nodes, nil
}

func sortAttrs(n *html.Node) {
	if n.Type == html.ElementNode && len(n.Attr) > 1 {
		slices.SortStableFunc(n.Attr, func(a, b html.Attribute) int {
			return cmp.Compare(a.Key, b.Key)
		})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sortAttrs(c)
	}
}

// canonicalHTML re-serializes markup with sorted attributes. Unparseable
// markup is returned as is.
func canonicalHTML(markup string) string {
	nodes, err := parseCanonical(markup)
	if err != nil {
		return markup
	}
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)
	for _, n := range nodes {
		if err := html.Render(buf, n); err != nil {
			return markup
		}
	}
	return buf.String()
}

// extractSlots parses markup and returns the canonical inner HTML of every
// element carrying data-slot, keyed by the attribute value. Slots nested
// inside another slot are part of the outer slot's content.
func extractSlots(markup string) (map[string]string, error) {
	nodes, err := parseCanonical(markup)
	if err != nil {
		return nil, err
	}

	slots := make(map[string]string)
	var walk func(n *html.Node) error
	walk = func(n *html.Node) error {
		if n.Type == html.ElementNode {
			if id, ok := attr(n, slotAttr); ok {
				inner, err := innerHTML(n)
				if err != nil {
					return err
				}
				slots[id] = inner
				return nil
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}

	for _, n := range nodes {
		if err := walk(n); err != nil {
			return nil, err
		}
	}
	return slots, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func innerHTML(n *html.Node) (string, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// hashSlotContent computes the FNV-64a hash of content.
func hashSlotContent(content string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(content))
	return h.Sum64()
}

// slotHashes hashes a render: every slot, or the whole markup under the ""
// key when it has no slots.
func slotHashes(markup string) map[string]uint64 {
	slots, err := extractSlots(markup)
	if err != nil || len(slots) == 0 {
		return map[string]uint64{"": hashSlotContent(canonicalHTML(markup))}
	}
	hashes := make(map[string]uint64, len(slots))
	for id, content := range slots {
		hashes[id] = hashSlotContent(content)
	}
	return hashes
}

// buildDiffPayload compares a render against the previous one and returns
// only what changed. A nil result means nothing changed.
func buildDiffPayload(session *LiveViewSession, markup string) *core.DiffPayload {
	prev := session.SlotHashes()

	slots, err := extractSlots(markup)
	if err != nil || len(slots) == 0 {
		h := hashSlotContent(canonicalHTML(markup))
		session.SetSlotHashes(map[string]uint64{"": h})
		if old, ok := prev[""]; ok && old == h {
			return nil
		}
		return &core.DiffPayload{Version: session.NextVersion(), Full: markup}
	}

	next := make(map[string]uint64, len(slots))
	changed := make(map[string]string)
	for id, content := range slots {
		h := hashSlotContent(content)
		next[id] = h
		if old, ok := prev[id]; !ok || old != h {
			changed[id] = content
		}
	}
	session.SetSlotHashes(next)

	if len(changed) == 0 {
		return nil
	}
	return &core.DiffPayload{Version: session.NextVersion(), HTMLSlots: changed}
}
