package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string // User's search query

	// Filters
	Categories []string // Filter by exact category codes
	Authors    []string // Filter by exact author strings
	Partition  string   // Filter by catalogue partition
	MinYear    int      // Minimum publication year
	MaxYear    int      // Maximum publication year

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "author", "year"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool
	FacetFields   []string
	Highlight     bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		FacetFields:   []string{"category", "author", "partition"},
		Highlight:     true,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitempty"`
}

// Hit represents a single search result.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author,omitempty"`
	CallNumber string            `json:"call_number,omitempty"`
	Category   string            `json:"category,omitempty"`
	Partition  string            `json:"partition,omitempty"`
	Year       int               `json:"year,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Facets contains facet counts.
type Facets struct {
	Categories []FacetCount `json:"categories,omitempty"`
	Authors    []FacetCount `json:"authors,omitempty"`
	Partitions []FacetCount `json:"partitions,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		for _, field := range params.FacetFields {
			searchRequest.AddFacet(field, bleve.NewFacetRequest(field, 20))
		}
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("author")
	}

	searchRequest.Fields = []string{
		"id", "title", "author", "call_number", "category", "partition", "year",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["author"].(string); ok {
			h.Author = v
		}
		if v, ok := hit.Fields["call_number"].(string); ok {
			h.CallNumber = v
		}
		if v, ok := hit.Fields["category"].(string); ok {
			h.Category = v
		}
		if v, ok := hit.Fields["partition"].(string); ok {
			h.Partition = v
		}
		if v, ok := hit.Fields["year"].(float64); ok {
			h.Year = int(v)
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	// Main text query. Title matches are boosted over author matches,
	// mirroring the suggestion ranker's title-over-author weighting.
	if params.Query != "" {
		textQueries := []query.Query{}

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(2.0)
		textQueries = append(textQueries, titleMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		textQueries = append(textQueries, authorMatch)

		// Fuzzy match on title for typo tolerance.
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars).
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Category filter (OR across codes).
	if len(params.Categories) > 0 {
		categoryQueries := make([]query.Query, len(params.Categories))
		for i, code := range params.Categories {
			cq := bleve.NewTermQuery(code)
			cq.SetField("category")
			categoryQueries[i] = cq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(categoryQueries...))
	}

	// Author filter (OR across authors).
	if len(params.Authors) > 0 {
		authorQueries := make([]query.Query, len(params.Authors))
		for i, author := range params.Authors {
			aq := bleve.NewMatchPhraseQuery(author)
			aq.SetField("author")
			authorQueries[i] = aq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(authorQueries...))
	}

	// Partition filter.
	if params.Partition != "" {
		pq := bleve.NewTermQuery(params.Partition)
		pq.SetField("partition")
		queries = append(queries, pq)
	}

	// Year range filter.
	if params.MinYear > 0 || params.MaxYear > 0 {
		min := float64(params.MinYear)
		max := float64(params.MaxYear)
		if params.MaxYear == 0 {
			max = 3000
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("year")
		queries = append(queries, rangeQuery)
	}

	// Combine all queries with AND.
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "author":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-author", "-title"})
		} else {
			req.SortBy([]string{"author", "title"})
		}
	case "year":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"year"})
		} else {
			req.SortBy([]string{"-year"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) Facets {
	facets := Facets{}

	if categoryFacet, ok := result.Facets["category"]; ok {
		for _, term := range categoryFacet.Terms.Terms() {
			facets.Categories = append(facets.Categories, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if authorFacet, ok := result.Facets["author"]; ok {
		for _, term := range authorFacet.Terms.Terms() {
			facets.Authors = append(facets.Authors, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if partitionFacet, ok := result.Facets["partition"]; ok {
		for _, term := range partitionFacet.Terms.Terms() {
			facets.Partitions = append(facets.Partitions, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
