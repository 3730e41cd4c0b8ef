package query

import (
	"strconv"
	"strings"
	"testing"

	"github.com/librisapp/libris-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMetadata backs the ebook and bio facets in tests.
type fakeMetadata struct {
	ebooks map[string]bool
	bios   map[string]bool
}

func (m fakeMetadata) HasEbook(key string) bool       { return m.ebooks[key] }
func (m fakeMetadata) HasBiography(author string) bool { return m.bios[author] }

func testBooks() []domain.Book {
	return []domain.Book{
		{ID: "bk-1", Title: "The Hobbit", Author: "J.R.R. Tolkien", CallNumber: "PR6039", Year: 1937},
		{ID: "bk-2", Title: "Institutes of the Christian Religion", Author: "John Calvin", CallNumber: "BX123", Year: 1559},
		{ID: "bk-3", Title: "Commentary on Galatians", Author: "John Calvin", CallNumber: "BX456"},
		{ID: "bk-4", Title: "Systematic Theology", Author: "Louis Berkhof", CallNumber: "BT75", Year: 1950},
		{ID: "bk-5", Title: "Church Dogmatics", Author: "Karl Barth", CallNumber: "BT75.5", Year: 1932},
		{ID: "bk-6", Title: "Paradise Lost", Author: "John Milton", Year: 1667},
	}
}

func TestComputeViewFullStoreIdentity(t *testing.T) {
	books := testBooks()

	view := ComputeView(books, "", Selection{}, nil)
	assert.Equal(t, books, view, "inactive filters and empty query must return the full store")

	// Whitespace-only queries are the same as empty ones.
	view = ComputeView(books, "   ", Selection{}, nil)
	assert.Equal(t, books, view)
}

func TestComputeViewTextMatch(t *testing.T) {
	books := testBooks()

	view := ComputeView(books, "calvin", Selection{}, nil)
	require.Len(t, view, 2)
	assert.Equal(t, "bk-2", view[0].ID)
	assert.Equal(t, "bk-3", view[1].ID)

	// Every result must contain the query in at least one searchable field.
	for _, b := range view {
		q := "calvin"
		matched := strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.CallNumber), q) ||
			(b.HasYear() && strings.Contains(strconv.Itoa(b.Year), q))
		assert.True(t, matched)
	}
}

func TestComputeViewMatchesCallNumberAndYear(t *testing.T) {
	books := testBooks()

	view := ComputeView(books, "bx4", Selection{}, nil)
	require.Len(t, view, 1)
	assert.Equal(t, "bk-3", view[0].ID)

	view = ComputeView(books, "1937", Selection{}, nil)
	require.Len(t, view, 1)
	assert.Equal(t, "bk-1", view[0].ID)
}

func TestComputeViewZeroMatchesIsEmptyNotFull(t *testing.T) {
	books := testBooks()
	view := ComputeView(books, "zzzznothing", Selection{}, nil)
	assert.Empty(t, view)
}

func TestComputeViewFacetAND(t *testing.T) {
	books := testBooks()

	sel := Selection{Authors: []string{"John Calvin"}}
	withAuthor := ComputeView(books, "", sel, nil)
	assert.Len(t, withAuthor, 2)

	// Adding a stricter facet never increases the result count.
	sel.Categories = []string{"BX"}
	withBoth := ComputeView(books, "", sel, nil)
	assert.LessOrEqual(t, len(withBoth), len(withAuthor))
	assert.Len(t, withBoth, 2)

	sel.YearMin, sel.YearMax = 1500, 1600
	narrowed := ComputeView(books, "", sel, nil)
	assert.LessOrEqual(t, len(narrowed), len(withBoth))
	// bk-3 has no year so it passes the range; bk-2's 1559 is in range.
	assert.Len(t, narrowed, 2)

	for _, b := range narrowed {
		assert.Equal(t, "John Calvin", b.Author)
		assert.Equal(t, "BX", b.Category())
	}
}

func TestComputeViewCategoryFacetRequiresCallNumber(t *testing.T) {
	books := testBooks()

	// Paradise Lost has no call number; any category filter excludes it.
	sel := Selection{Categories: []string{"BT", "BX", "PR"}}
	view := ComputeView(books, "", sel, nil)
	for _, b := range view {
		assert.NotEqual(t, "bk-6", b.ID)
	}
	assert.Len(t, view, 5)
}

func TestComputeViewYearRange(t *testing.T) {
	books := testBooks()

	sel := Selection{YearMin: 1940, YearMax: 1960}
	view := ComputeView(books, "", sel, nil)

	ids := make([]string, 0, len(view))
	for _, b := range view {
		ids = append(ids, b.ID)
	}
	// bk-4 (1950) is in range; bk-3 has no year and passes regardless.
	assert.Equal(t, []string{"bk-3", "bk-4"}, ids)

	// Inclusive bounds.
	sel = Selection{YearMin: 1950, YearMax: 1950}
	view = ComputeView(books, "", sel, nil)
	assert.Equal(t, 2, len(view)) // bk-3 (no year) and bk-4
}

func TestComputeViewEbookAndBioFacets(t *testing.T) {
	books := testBooks()
	meta := fakeMetadata{
		ebooks: map[string]bool{"John Calvin - Institutes of the Christian Religion": true},
		bios:   map[string]bool{"John Calvin": true, "Karl Barth": true},
	}

	view := ComputeView(books, "", Selection{HasEbook: true}, meta)
	require.Len(t, view, 1)
	assert.Equal(t, "bk-2", view[0].ID)

	view = ComputeView(books, "", Selection{HasBio: true}, meta)
	assert.Len(t, view, 3)

	// Both facets together: AND.
	view = ComputeView(books, "", Selection{HasEbook: true, HasBio: true}, meta)
	require.Len(t, view, 1)
	assert.Equal(t, "bk-2", view[0].ID)

	// Without metadata maps the presence facets match nothing.
	view = ComputeView(books, "", Selection{HasEbook: true}, nil)
	assert.Empty(t, view)
}

func TestComputeViewPartition(t *testing.T) {
	books := []domain.Book{
		{ID: "a", Title: "Alpha", Author: "A", Partition: "main"},
		{ID: "b", Title: "Alpha Two", Author: "B", Partition: "reference"},
	}

	view := ComputeView(books, "alpha", Selection{Partition: "main"}, nil)
	require.Len(t, view, 1)
	assert.Equal(t, "a", view[0].ID)
}

func TestComputeViewIdempotent(t *testing.T) {
	books := testBooks()
	sel := Selection{Categories: []string{"BT"}, YearMax: 1940}

	first := ComputeView(books, "the", sel, nil)
	second := ComputeView(books, "the", sel, nil)
	assert.Equal(t, first, second)
}

func TestComputeViewPreservesInputOrder(t *testing.T) {
	books := testBooks()
	view := ComputeView(books, "john", Selection{}, nil)

	var prev int = -1
	for _, b := range view {
		idx := -1
		for i, src := range books {
			if src.ID == b.ID {
				idx = i
				break
			}
		}
		assert.Greater(t, idx, prev, "results must keep store order")
		prev = idx
	}
}

func TestSavedSearchRoundTrip(t *testing.T) {
	books := testBooks()
	sel := Selection{Categories: []string{"BX"}}

	saved := domain.SavedSearch{
		ID:        "1700000000000-1",
		Name:      "Calvin in BX",
		Query:     "calvin",
		Selection: sel.Snapshot(),
	}

	replayed := ComputeView(books, saved.Query, FromSnapshot(saved.Selection), nil)
	direct := ComputeView(books, "calvin", Selection{Categories: []string{"BX"}}, nil)
	assert.Equal(t, direct, replayed)
}

func TestSelectionActive(t *testing.T) {
	assert.False(t, Selection{}.Active())
	assert.True(t, Selection{Authors: []string{"x"}}.Active())
	assert.True(t, Selection{Categories: []string{"BT"}}.Active())
	assert.True(t, Selection{YearMin: 1900}.Active())
	assert.True(t, Selection{YearMax: 2000}.Active())
	assert.True(t, Selection{HasEbook: true}.Active())
	assert.True(t, Selection{HasBio: true}.Active())
	assert.True(t, Selection{Partition: "main"}.Active())
}
