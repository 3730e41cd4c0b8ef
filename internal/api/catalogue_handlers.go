package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/librisapp/libris-server/internal/catalog"
	"github.com/librisapp/libris-server/internal/domain"
	"github.com/librisapp/libris-server/internal/normalize"
	"github.com/librisapp/libris-server/internal/query"
)

func (s *Server) registerCatalogueRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-catalogue",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalogue",
		Summary:     "Browse the catalogue",
		Description: "Filter the catalogue by free-text query and facets. With no parameters the full catalogue is returned.",
		Tags:        []string{"Catalogue"},
	}, s.handleGetCatalogue)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-book",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get one book",
		Tags:        []string{"Catalogue"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-suggestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions",
		Summary:     "Autocomplete suggestions",
		Description: "Title and author suggestions for a partial query. Title matches rank above author matches.",
		Tags:        []string{"Catalogue"},
	}, s.handleGetSuggestions)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-categories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List classification codes",
		Tags:        []string{"Catalogue"},
	}, s.handleGetCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-authors",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors",
		Summary:     "List authors",
		Tags:        []string{"Catalogue"},
	}, s.handleGetAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-partitions",
		Method:      http.MethodGet,
		Path:        "/api/v1/partitions",
		Summary:     "List catalogue partitions",
		Tags:        []string{"Catalogue"},
	}, s.handleGetPartitions)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-year-range",
		Method:      http.MethodGet,
		Path:        "/api/v1/years",
		Summary:     "Publication year bounds",
		Tags:        []string{"Catalogue"},
	}, s.handleGetYearRange)
}

// === DTOs ===

// BookResult is one catalogue record as served by the API.
type BookResult struct {
	ID         string             `json:"id" doc:"Record ID"`
	Title      string             `json:"title" doc:"Book title"`
	Author     string             `json:"author" doc:"Author as catalogued"`
	CallNumber string             `json:"call_number,omitempty" doc:"Shelf call number"`
	Category   string             `json:"category,omitempty" doc:"Classification code derived from the call number"`
	Year       int                `json:"year,omitempty" doc:"Publication year, 0 when unknown"`
	ISBN       string             `json:"isbn,omitempty" doc:"ISBN digits"`
	Publisher  string             `json:"publisher,omitempty" doc:"Publisher"`
	Copy       string             `json:"copy,omitempty" doc:"Copy designation"`
	Partition  string             `json:"partition,omitempty" doc:"Source table"`
	HasEbook   bool               `json:"has_ebook" doc:"Whether an electronic edition is linked"`
	HasBio     bool               `json:"has_bio" doc:"Whether an author biography exists"`
	EbookLinks []domain.EbookLink `json:"ebook_links,omitempty" doc:"Linked electronic editions"`
}

// CatalogueInput contains filter parameters for browsing the catalogue.
type CatalogueInput struct {
	Query      string `query:"q" validate:"omitempty,max=500" doc:"Free-text query matched against title, author, call number and year"`
	Authors    string `query:"authors" validate:"omitempty,max=2000" doc:"Comma-separated author filter, OR within"`
	Categories string `query:"categories" validate:"omitempty,max=500" doc:"Comma-separated classification code filter, OR within"`
	YearMin    int    `query:"year_min" validate:"omitempty,gte=0" doc:"Inclusive lower year bound"`
	YearMax    int    `query:"year_max" validate:"omitempty,gte=0" doc:"Inclusive upper year bound"`
	HasEbook   bool   `query:"has_ebook" doc:"Only books with a linked electronic edition"`
	HasBio     bool   `query:"has_bio" doc:"Only books whose author has a biography"`
	Partition  string `query:"partition" validate:"omitempty,max=100" doc:"Restrict to one source table"`
	Sort       string `query:"sort" validate:"omitempty,oneof=title author year" doc:"Display sort, omit to keep catalogue order"`
	Limit      int    `query:"limit" validate:"omitempty,gte=1,lte=500" doc:"Page size, omit for the full result"`
	Offset     int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset"`
}

// CatalogueResponse is a filtered catalogue page.
type CatalogueResponse struct {
	Total int          `json:"total" doc:"Matches before pagination"`
	Books []BookResult `json:"books" doc:"Matching records"`
}

// CatalogueOutput wraps the catalogue response for Huma.
type CatalogueOutput struct {
	Body CatalogueResponse
}

// BookDetail is the full single-record view: the catalogue record plus
// the user's state for it and any author biography.
type BookDetail struct {
	BookResult
	Favorite  bool                    `json:"favorite" doc:"Whether the book is in the user's favorites"`
	Note      string                  `json:"note,omitempty" doc:"The user's note, if any"`
	AuthorBio *domain.AuthorBiography `json:"author_bio,omitempty" doc:"Author biography, if one exists"`
}

// BookOutput wraps a single record.
type BookOutput struct {
	Body BookDetail
}

// SuggestionsInput contains parameters for autocomplete.
type SuggestionsInput struct {
	Query string `query:"q" validate:"required,max=200" doc:"Partial query, at least 2 characters after trimming"`
	Limit int    `query:"limit" validate:"omitempty,gte=1,lte=50" doc:"Max suggestions (default 8)"`
}

// SuggestionResult is one autocomplete candidate.
type SuggestionResult struct {
	Book              BookResult `json:"book"`
	Relevance         int        `json:"relevance" doc:"2 for title matches, 1 for author-only matches"`
	HighlightedTitle  string     `json:"highlighted_title" doc:"Title with the first match wrapped in <mark>"`
	HighlightedAuthor string     `json:"highlighted_author" doc:"Author with the first match wrapped in <mark>"`
}

// SuggestionsOutput wraps suggestions for Huma.
type SuggestionsOutput struct {
	Body struct {
		Suggestions []SuggestionResult `json:"suggestions"`
	}
}

// CategoriesOutput wraps category counts.
type CategoriesOutput struct {
	Body struct {
		Categories []query.CategoryCount `json:"categories" doc:"Classification codes, most frequent first"`
	}
}

// AuthorsOutput wraps the author list.
type AuthorsOutput struct {
	Body struct {
		Authors []string `json:"authors" doc:"Distinct authors in first-seen order"`
	}
}

// PartitionsOutput wraps the partition list.
type PartitionsOutput struct {
	Body struct {
		Partitions []string `json:"partitions" doc:"Source tables in load order"`
	}
}

// YearRangeOutput wraps the year bounds.
type YearRangeOutput struct {
	Body struct {
		Min   int  `json:"min" doc:"Earliest known publication year"`
		Max   int  `json:"max" doc:"Latest known publication year"`
		Known bool `json:"known" doc:"False when no record carries a year"`
	}
}

// === Handlers ===

func (s *Server) handleGetCatalogue(ctx context.Context, input *CatalogueInput) (*CatalogueOutput, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	sel := query.Selection{
		Authors:    splitCSV(input.Authors),
		Categories: splitCSV(input.Categories),
		YearMin:    input.YearMin,
		YearMax:    input.YearMax,
		HasEbook:   input.HasEbook,
		HasBio:     input.HasBio,
		Partition:  input.Partition,
	}

	books, err := s.services.Catalogue.View(ctx, input.Query, sel)
	if err != nil {
		return nil, err
	}

	if input.Sort != "" {
		// Sorting copies: the view may alias the store's backing array.
		sorted := make([]domain.Book, len(books))
		copy(sorted, books)
		normalize.SortBooks(sorted, input.Sort)
		books = sorted
	}

	total := len(books)
	books = paginate(books, input.Offset, input.Limit)

	meta, err := s.services.Catalogue.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	resp := CatalogueResponse{
		Total: total,
		Books: make([]BookResult, 0, len(books)),
	}
	for _, b := range books {
		resp.Books = append(resp.Books, toBookResult(b, meta))
	}
	return &CatalogueOutput{Body: resp}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *struct {
	ID string `path:"id" validate:"required,max=100" doc:"Record ID"`
}) (*BookOutput, error) {
	book, err := s.services.Catalogue.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	meta, err := s.services.Catalogue.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	detail := BookDetail{BookResult: toBookResult(book, meta)}
	detail.EbookLinks = meta.Links(book.EbookKey())
	if bio, ok := meta.Biography(book.Author); ok {
		detail.AuthorBio = &bio
	}

	if fav, err := s.services.Favorites.IsFavorite(ctx, book.ID); err == nil {
		detail.Favorite = fav
	}
	if note, err := s.services.Notes.Get(ctx, book.ID); err == nil {
		detail.Note = note.Text
	}

	return &BookOutput{Body: detail}, nil
}

func (s *Server) handleGetSuggestions(ctx context.Context, input *SuggestionsInput) (*SuggestionsOutput, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	suggestions, err := s.services.Catalogue.Suggest(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}

	meta, err := s.services.Catalogue.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	out := &SuggestionsOutput{}
	out.Body.Suggestions = make([]SuggestionResult, 0, len(suggestions))
	for _, sug := range suggestions {
		out.Body.Suggestions = append(out.Body.Suggestions, SuggestionResult{
			Book:              toBookResult(sug.Book, meta),
			Relevance:         sug.Relevance,
			HighlightedTitle:  sug.HighlightedTitle,
			HighlightedAuthor: sug.HighlightedAuthor,
		})
	}
	return out, nil
}

func (s *Server) handleGetCategories(ctx context.Context, _ *struct{}) (*CategoriesOutput, error) {
	cats, err := s.services.Catalogue.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := &CategoriesOutput{}
	out.Body.Categories = cats
	return out, nil
}

func (s *Server) handleGetAuthors(ctx context.Context, _ *struct{}) (*AuthorsOutput, error) {
	authors, err := s.services.Catalogue.Authors(ctx)
	if err != nil {
		return nil, err
	}
	out := &AuthorsOutput{}
	out.Body.Authors = authors
	return out, nil
}

func (s *Server) handleGetPartitions(ctx context.Context, _ *struct{}) (*PartitionsOutput, error) {
	partitions, err := s.services.Catalogue.Partitions(ctx)
	if err != nil {
		return nil, err
	}
	out := &PartitionsOutput{}
	out.Body.Partitions = partitions
	return out, nil
}

func (s *Server) handleGetYearRange(ctx context.Context, _ *struct{}) (*YearRangeOutput, error) {
	min, max, ok, err := s.services.Catalogue.YearRange(ctx)
	if err != nil {
		return nil, err
	}
	out := &YearRangeOutput{}
	out.Body.Min = min
	out.Body.Max = max
	out.Body.Known = ok
	return out, nil
}

// === Helpers ===

func toBookResult(b domain.Book, meta *catalog.MetadataSet) BookResult {
	result := BookResult{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		CallNumber: b.CallNumber,
		Category:   b.Category(),
		Year:       b.Year,
		ISBN:       b.ISBN,
		Publisher:  b.Publisher,
		Copy:       b.Copy,
		Partition:  b.Partition,
	}
	if meta != nil {
		result.HasEbook = meta.HasEbook(b.EbookKey())
		result.HasBio = meta.HasBiography(b.Author)
	}
	return result
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func paginate(books []domain.Book, offset, limit int) []domain.Book {
	if offset > 0 {
		if offset >= len(books) {
			return nil
		}
		books = books[offset:]
	}
	if limit > 0 && limit < len(books) {
		books = books[:limit]
	}
	return books
}
