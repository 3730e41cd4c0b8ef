package query

import (
	"testing"

	"github.com/librisapp/libris-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestRelevanceScoring(t *testing.T) {
	books := []domain.Book{
		{ID: "bk-1", Title: "The Hobbit", Author: "J.R.R. Tolkien"},
	}

	got := Suggest(books, "hobbit", 0)
	require.Len(t, got, 1)
	assert.Equal(t, scoreTitle, got[0].Relevance)
	assert.Equal(t, "The <mark>Hobbit</mark>", got[0].HighlightedTitle)
	assert.Equal(t, "J.R.R. Tolkien", got[0].HighlightedAuthor)

	got = Suggest(books, "tolkien", 0)
	require.Len(t, got, 1)
	assert.Equal(t, scoreAuthor, got[0].Relevance, "author-only match scores 1")
	assert.Equal(t, "J.R.R. <mark>Tolkien</mark>", got[0].HighlightedAuthor)
}

func TestSuggestTitleTakesPrecedenceNotAdditive(t *testing.T) {
	books := []domain.Book{
		{ID: "bk-1", Title: "Calvin's Institutes", Author: "John Calvin"},
	}

	got := Suggest(books, "calvin", 0)
	require.Len(t, got, 1)
	assert.Equal(t, scoreTitle, got[0].Relevance, "a book matching both fields still scores 2")
}

func TestSuggestOrderingAndTieBreak(t *testing.T) {
	books := []domain.Book{
		{ID: "a", Title: "History of Rome", Author: "Edward Gibbon"},
		{ID: "b", Title: "Gibbon Studies", Author: "Someone Else"},
		{ID: "c", Title: "Another Book", Author: "G. Gibbon"},
	}

	got := Suggest(books, "gibbon", 0)
	require.Len(t, got, 3)
	// Title match first, then author matches in store order.
	assert.Equal(t, "b", got[0].Book.ID)
	assert.Equal(t, "a", got[1].Book.ID)
	assert.Equal(t, "c", got[2].Book.ID)
}

func TestSuggestMinimumLengthAndLimit(t *testing.T) {
	books := make([]domain.Book, 0, 20)
	for i := 0; i < 20; i++ {
		books = append(books, domain.Book{ID: string(rune('a' + i)), Title: "Common Title", Author: "Author"})
	}

	assert.Nil(t, Suggest(books, "c", 0), "single-character queries return nothing")
	assert.Nil(t, Suggest(books, " t ", 0), "trimmed length under 2 returns nothing")

	got := Suggest(books, "common", 0)
	assert.Len(t, got, DefaultSuggestLimit)

	got = Suggest(books, "common", 3)
	assert.Len(t, got, 3)
}

func TestSuggestEscapesRegexMetacharacters(t *testing.T) {
	books := []domain.Book{
		{ID: "bk-1", Title: "C++ Primer (4th ed.)", Author: "Stanley Lippman"},
	}

	got := Suggest(books, "c++", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "<mark>C++</mark> Primer (4th ed.)", got[0].HighlightedTitle)

	got = Suggest(books, "(4th ed.)", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "C++ Primer <mark>(4th ed.)</mark>", got[0].HighlightedTitle)
}

func TestSuggestHighlightsFirstOccurrenceOnly(t *testing.T) {
	books := []domain.Book{
		{ID: "bk-1", Title: "War and War", Author: "Somebody"},
	}

	got := Suggest(books, "war", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "<mark>War</mark> and War", got[0].HighlightedTitle)
}

func TestExtractCategories(t *testing.T) {
	books := []domain.Book{
		{ID: "1", CallNumber: "BT123"},
		{ID: "2", CallNumber: "BT456"},
		{ID: "3", CallNumber: "QA10"},
	}

	got := ExtractCategories(books)
	require.Len(t, got, 2)
	assert.Equal(t, CategoryCount{Code: "BT", Count: 2}, got[0])
	assert.Equal(t, CategoryCount{Code: "QA", Count: 1}, got[1])
}

func TestExtractCategoriesExclusionsAndTies(t *testing.T) {
	books := []domain.Book{
		{ID: "1", CallNumber: "QA10"},
		{ID: "2", CallNumber: "BT123"},
		{ID: "3"},                      // no call number
		{ID: "4", CallNumber: "123BT"}, // no leading uppercase run
	}

	got := ExtractCategories(books)
	require.Len(t, got, 2)
	// Equal counts keep first-seen order.
	assert.Equal(t, "QA", got[0].Code)
	assert.Equal(t, "BT", got[1].Code)
}
