package covers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/librisapp/libris-server/internal/domain"
)

func TestResolver_URL(t *testing.T) {
	r := NewResolver("")

	url := r.URL("978-0-618-00222-1", SizeMedium)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780618002221-M.jpg", url)
}

func TestResolver_URL_StripsHyphensAndSpaces(t *testing.T) {
	r := NewResolver("")

	assert.Equal(t,
		r.URL("9780618002221", SizeSmall),
		r.URL("978-0-618-00222-1", SizeSmall))
	assert.Equal(t,
		r.URL("9780618002221", SizeSmall),
		r.URL("978 0 618 00222 1", SizeSmall))
}

func TestResolver_URL_EmptyISBN(t *testing.T) {
	r := NewResolver("")

	assert.Empty(t, r.URL("", SizeLarge))
	assert.Empty(t, r.URL("   - ", SizeLarge))
}

func TestResolver_URL_InvalidSizeFallsBackToMedium(t *testing.T) {
	r := NewResolver("")

	url := r.URL("9780618002221", Size("XXL"))
	assert.Contains(t, url, "-M.jpg")
}

func TestResolver_CustomBaseURL(t *testing.T) {
	r := NewResolver("http://localhost:9999/covers/")

	url := r.URL("9780618002221", SizeLarge)
	assert.Equal(t, "http://localhost:9999/covers/isbn/9780618002221-L.jpg", url)
}

func TestResolver_URLForBook(t *testing.T) {
	r := NewResolver("")

	book := domain.Book{ID: "b1", Title: "The Hobbit", ISBN: "9780618002221"}
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780618002221-S.jpg",
		r.URLForBook(book, SizeSmall))

	noISBN := domain.Book{ID: "b2", Title: "Untraced"}
	assert.Empty(t, r.URLForBook(noISBN, SizeSmall))
}

func TestValidSize(t *testing.T) {
	assert.True(t, ValidSize(SizeSmall))
	assert.True(t, ValidSize(SizeMedium))
	assert.True(t, ValidSize(SizeLarge))
	assert.False(t, ValidSize(Size("")))
	assert.False(t, ValidSize(Size("XL")))
}
