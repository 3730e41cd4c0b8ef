package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/librisapp/libris-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Full-text search",
		Description: "Ranked full-text search over the catalogue with fuzzy matching and facets. For exact filtering use /catalogue.",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for full-text search.
type SearchInput struct {
	Query      string `query:"q" validate:"required,min=1,max=200" doc:"Search query"`
	Categories string `query:"categories" validate:"omitempty,max=500" doc:"Comma-separated classification code filter"`
	Authors    string `query:"authors" validate:"omitempty,max=2000" doc:"Comma-separated author filter"`
	Partition  string `query:"partition" validate:"omitempty,max=100" doc:"Restrict to one source table"`
	YearMin    int    `query:"year_min" validate:"omitempty,gte=0" doc:"Inclusive lower year bound"`
	YearMax    int    `query:"year_max" validate:"omitempty,gte=0" doc:"Inclusive upper year bound"`
	Limit      int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset     int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset"`
	Sort       string `query:"sort" validate:"omitempty,oneof=relevance title author year" doc:"Sort order (default relevance)"`
	Facets     bool   `query:"facets" doc:"Include facet counts in response"`
	Highlight  bool   `query:"highlight" doc:"Include match highlights"`
}

// SearchHitResult is a single ranked search result.
type SearchHitResult struct {
	ID         string              `json:"id" doc:"Record ID"`
	Score      float64             `json:"score" doc:"Relevance score"`
	Title      string              `json:"title"`
	Author     string              `json:"author"`
	CallNumber string              `json:"call_number,omitempty"`
	Category   string              `json:"category,omitempty"`
	Partition  string              `json:"partition,omitempty"`
	Year       int                 `json:"year,omitempty"`
	Highlights map[string]string   `json:"highlights,omitempty" doc:"Highlighted field fragments"`
}

// SearchFacetCount is one facet value and its count.
type SearchFacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SearchFacets contains facet counts for narrowing a search.
type SearchFacets struct {
	Categories []SearchFacetCount `json:"categories,omitempty"`
	Authors    []SearchFacetCount `json:"authors,omitempty"`
	Partitions []SearchFacetCount `json:"partitions,omitempty"`
}

// SearchResponse contains ranked search results.
type SearchResponse struct {
	Query  string            `json:"query" doc:"Original query"`
	Total  uint64            `json:"total" doc:"Total matches"`
	TookMs int64             `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult `json:"hits"`
	Facets *SearchFacets     `json:"facets,omitempty"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	params := search.DefaultParams()
	params.Query = input.Query
	params.Categories = splitCSV(input.Categories)
	params.Authors = splitCSV(input.Authors)
	params.Partition = input.Partition
	params.MinYear = input.YearMin
	params.MaxYear = input.YearMax
	params.IncludeFacets = input.Facets
	params.Highlight = input.Highlight
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset
	if input.Sort != "" {
		params.SortBy = input.Sort
	}

	result, err := s.services.Catalogue.Search(ctx, params)
	if err != nil {
		s.logger.Error("search failed", "error", err, "query", input.Query)
		return nil, err
	}

	resp := SearchResponse{
		Query:  input.Query,
		Total:  result.Total,
		TookMs: result.TookMs,
		Hits:   make([]SearchHitResult, 0, len(result.Hits)),
	}

	for _, hit := range result.Hits {
		resp.Hits = append(resp.Hits, SearchHitResult{
			ID:         hit.ID,
			Score:      hit.Score,
			Title:      hit.Title,
			Author:     hit.Author,
			CallNumber: hit.CallNumber,
			Category:   hit.Category,
			Partition:  hit.Partition,
			Year:       hit.Year,
			Highlights: hit.Highlights,
		})
	}

	if input.Facets {
		resp.Facets = &SearchFacets{
			Categories: toFacetCounts(result.Facets.Categories),
			Authors:    toFacetCounts(result.Facets.Authors),
			Partitions: toFacetCounts(result.Facets.Partitions),
		}
	}

	return &SearchOutput{Body: resp}, nil
}

func toFacetCounts(in []search.FacetCount) []SearchFacetCount {
	out := make([]SearchFacetCount, 0, len(in))
	for _, fc := range in {
		out = append(out, SearchFacetCount{Value: fc.Value, Count: fc.Count})
	}
	return out
}
