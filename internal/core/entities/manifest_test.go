package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(id PageID, children ...PageID) Page {
	p, err := NewPage().
		ID(id).
		Name(string(id)).
		ContentType("text/markdown").
		Build()
	if err != nil {
		panic(err)
	}
	for _, child := range children {
		p.AddChild(child)
	}
	return p
}

func TestNewManifest(t *testing.T) {
	m := NewManifest(page("root"))
	assert.Equal(t, PageID("root"), m.Root)
	assert.Len(t, m.Pages, 1)
	require.NoError(t, m.Validate())
}

func TestManifest_Merge_LinksOtherRoot(t *testing.T) {
	m := NewManifest(page("root"))
	other := NewManifest(page("root/sub"))

	m.Merge(other)

	assert.Len(t, m.Pages, 2)
	assert.True(t, m.Pages["root"].HasChild("root/sub"))
	require.NoError(t, m.Validate())
}

func TestManifest_Merge_EmptySymbolsIsIdentityOnPages(t *testing.T) {
	m := NewManifest(page("root", "root/a"))
	m.Pages["root/a"] = page("root/a")
	pagesBefore := len(m.Pages)

	empty := Manifest{Root: "root", Pages: map[PageID]Page{}, Symbols: map[string][]PageID{}}
	m.Merge(empty)

	// Merging an empty manifest only links its (absent) root; no pages or
	// symbols change.
	assert.Len(t, m.Pages, pagesBefore)
	assert.Empty(t, m.Symbols)
}

func TestManifest_Merge_LeftBiasedOnPageIDConflict(t *testing.T) {
	left := NewManifest(page("root"))
	conflicting := page("root")
	conflicting.Name = "imposter"
	right := Manifest{
		Root:    "root",
		Pages:   map[PageID]Page{"root": conflicting},
		Symbols: map[string][]PageID{},
	}

	left.Merge(right)

	assert.Equal(t, "root", left.Pages["root"].Name)
}

func TestManifest_Merge_AppendsSymbols(t *testing.T) {
	left := NewManifest(page("root"))
	left.Symbols["Foo"] = []PageID{"root"}

	right := NewManifest(page("root/sub"))
	right.Symbols["Foo"] = []PageID{"root/sub"}
	right.Symbols["Bar"] = []PageID{"root/sub"}

	left.Merge(right)

	assert.Equal(t, []PageID{"root", "root/sub"}, left.Symbols["Foo"])
	assert.Equal(t, []PageID{"root/sub"}, left.Symbols["Bar"])
}

func TestManifest_Merge_AssociativeOnDisjointIDs(t *testing.T) {
	build := func() (Manifest, Manifest, Manifest) {
		return NewManifest(page("root")), NewManifest(page("root/a")), NewManifest(page("root/a/b"))
	}

	// m1 + (m2 + m3)
	m1, m2, m3 := build()
	m2.Merge(m3)
	m1.Merge(m2)

	// (m1 + m2) + m3
	n1, n2, n3 := build()
	n1.Merge(n2)
	n1.Merge(n3)

	// With disjoint page ids both groupings carry the same pages and
	// symbols; only the root-link edges differ by construction.
	assert.Equal(t, len(m1.Pages), len(n1.Pages))
	for id := range m1.Pages {
		assert.Contains(t, n1.Pages, id)
	}
}

func TestManifest_Validate_MissingChild(t *testing.T) {
	m := NewManifest(page("root", "root/ghost"))
	assert.Error(t, m.Validate())
}

func TestManifest_Validate_Orphan(t *testing.T) {
	m := NewManifest(page("root"))
	m.Pages["stray"] = page("stray")
	assert.Error(t, m.Validate())
}

func TestPageBuilder_RequiresFields(t *testing.T) {
	_, err := NewPage().Name("x").ContentType("text/plain").Build()
	assert.ErrorIs(t, err, ErrPageMissingID)

	_, err = NewPage().ID("x").ContentType("text/plain").Build()
	assert.ErrorIs(t, err, ErrPageMissingName)

	_, err = NewPage().ID("x").Name("x").Build()
	assert.ErrorIs(t, err, ErrPageMissingContentType)
}

func TestPage_AddChildDeduplicates(t *testing.T) {
	p := page("root")
	p.AddChild("root/a")
	p.AddChild("root/a")
	assert.Equal(t, []PageID{"root/a"}, p.Children)
}
