package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/librisapp/libris-server/internal/domain"
	"github.com/librisapp/libris-server/internal/query"
)

func (s *Server) registerSavedSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-saved-searches",
		Method:      http.MethodGet,
		Path:        "/api/v1/saved-searches",
		Summary:     "List saved searches",
		Description: "Ordered by creation time, oldest first.",
		Tags:        []string{"Saved Searches"},
	}, s.handleListSavedSearches)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-saved-search",
		Method:        http.MethodPost,
		Path:          "/api/v1/saved-searches",
		Summary:       "Save a search",
		Description:   "A saved search stores the query and facet selection, not the results. At least one of the two must be present.",
		Tags:          []string{"Saved Searches"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSavedSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-saved-search",
		Method:      http.MethodGet,
		Path:        "/api/v1/saved-searches/{id}",
		Summary:     "Get a saved search",
		Tags:        []string{"Saved Searches"},
	}, s.handleGetSavedSearch)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-saved-search",
		Method:        http.MethodDelete,
		Path:          "/api/v1/saved-searches/{id}",
		Summary:       "Delete a saved search",
		Tags:          []string{"Saved Searches"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteSavedSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "replay-saved-search",
		Method:      http.MethodGet,
		Path:        "/api/v1/saved-searches/{id}/results",
		Summary:     "Replay a saved search",
		Description: "Runs the stored query against the catalogue as it exists now.",
		Tags:        []string{"Saved Searches"},
	}, s.handleReplaySavedSearch)
}

// SavedSearchResult is one stored search.
type SavedSearchResult struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Query     string                   `json:"query,omitempty"`
	Selection domain.SelectionSnapshot `json:"selection"`
	CreatedAt time.Time                `json:"created_at"`
}

// SavedSearchOutput wraps a single saved search.
type SavedSearchOutput struct {
	Body SavedSearchResult
}

// SavedSearchesOutput wraps the saved-search list.
type SavedSearchesOutput struct {
	Body struct {
		SavedSearches []SavedSearchResult `json:"saved_searches"`
	}
}

// CreateSavedSearchInput carries the search to store.
type CreateSavedSearchInput struct {
	Body struct {
		Name       string   `json:"name" validate:"required,max=120" doc:"Display name"`
		Query      string   `json:"query,omitempty" validate:"omitempty,max=500" doc:"Free-text query"`
		Authors    []string `json:"authors,omitempty" validate:"omitempty,max=200" doc:"Author facet selection"`
		Categories []string `json:"categories,omitempty" validate:"omitempty,max=200" doc:"Classification code selection"`
		YearMin    int      `json:"year_min,omitempty" validate:"omitempty,gte=0" doc:"Inclusive lower year bound"`
		YearMax    int      `json:"year_max,omitempty" validate:"omitempty,gte=0" doc:"Inclusive upper year bound"`
		HasEbook   bool     `json:"has_ebook,omitempty" doc:"Only books with a linked electronic edition"`
		HasBio     bool     `json:"has_bio,omitempty" doc:"Only books whose author has a biography"`
		Partition  string   `json:"partition,omitempty" validate:"omitempty,max=100" doc:"Restrict to one source table"`
	}
}

// ReplayOutput is the result of replaying a saved search.
type ReplayOutput struct {
	Body struct {
		Search SavedSearchResult `json:"search"`
		Total  int               `json:"total"`
		Books  []BookResult      `json:"books"`
	}
}

func (s *Server) handleListSavedSearches(ctx context.Context, _ *struct{}) (*SavedSearchesOutput, error) {
	searches, err := s.services.SavedSearches.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &SavedSearchesOutput{}
	out.Body.SavedSearches = make([]SavedSearchResult, 0, len(searches))
	for _, search := range searches {
		out.Body.SavedSearches = append(out.Body.SavedSearches, toSavedSearchResult(search))
	}
	return out, nil
}

func (s *Server) handleCreateSavedSearch(ctx context.Context, input *CreateSavedSearchInput) (*SavedSearchOutput, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	sel := query.Selection{
		Authors:    input.Body.Authors,
		Categories: input.Body.Categories,
		YearMin:    input.Body.YearMin,
		YearMax:    input.Body.YearMax,
		HasEbook:   input.Body.HasEbook,
		HasBio:     input.Body.HasBio,
		Partition:  input.Body.Partition,
	}
	search, err := s.services.SavedSearches.Create(ctx, input.Body.Name, input.Body.Query, sel)
	if err != nil {
		return nil, err
	}
	return &SavedSearchOutput{Body: toSavedSearchResult(search)}, nil
}

func (s *Server) handleGetSavedSearch(ctx context.Context, input *listIDInput) (*SavedSearchOutput, error) {
	search, err := s.services.SavedSearches.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SavedSearchOutput{Body: toSavedSearchResult(search)}, nil
}

func (s *Server) handleDeleteSavedSearch(ctx context.Context, input *listIDInput) (*struct{}, error) {
	if err := s.services.SavedSearches.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleReplaySavedSearch(ctx context.Context, input *listIDInput) (*ReplayOutput, error) {
	search, books, err := s.services.SavedSearches.Replay(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	meta := s.metadataOrNil(ctx)

	out := &ReplayOutput{}
	out.Body.Search = toSavedSearchResult(search)
	out.Body.Total = len(books)
	out.Body.Books = make([]BookResult, 0, len(books))
	for _, b := range books {
		out.Body.Books = append(out.Body.Books, toBookResult(b, meta))
	}
	return out, nil
}

func toSavedSearchResult(search *domain.SavedSearch) SavedSearchResult {
	return SavedSearchResult{
		ID:        search.ID,
		Name:      search.Name,
		Query:     search.Query,
		Selection: search.Selection,
		CreatedAt: search.CreatedAt,
	}
}
