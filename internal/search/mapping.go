package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for book documents.
//
// Priorities:
//  1. Full-text search on titles with English stemming
//  2. Boosted relevance for title over author matches
//  3. Exact keyword matching for category, partition, and call number
//  4. Numeric range queries on publication year
//  5. Term vectors on title and author for highlighting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title is the primary search target.
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Author names should not be stemmed, but word-split matching is
	// still wanted ("calvin" matches "Calvin, John").
	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = simple.Name
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	publisherFieldMapping := bleve.NewTextFieldMapping()
	publisherFieldMapping.Analyzer = simple.Name
	publisherFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("publisher", publisherFieldMapping)

	// Exact-match fields.
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	callNumberFieldMapping := bleve.NewTextFieldMapping()
	callNumberFieldMapping.Analyzer = keyword.Name
	callNumberFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("call_number", callNumberFieldMapping)

	categoryFieldMapping := bleve.NewTextFieldMapping()
	categoryFieldMapping.Analyzer = keyword.Name
	categoryFieldMapping.Store = true
	categoryFieldMapping.IncludeTermVectors = true // for faceting
	docMapping.AddFieldMappingsAt("category", categoryFieldMapping)

	partitionFieldMapping := bleve.NewTextFieldMapping()
	partitionFieldMapping.Analyzer = keyword.Name
	partitionFieldMapping.Store = true
	partitionFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("partition", partitionFieldMapping)

	isbnFieldMapping := bleve.NewTextFieldMapping()
	isbnFieldMapping.Analyzer = keyword.Name
	isbnFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("isbn", isbnFieldMapping)

	// Numeric and boolean fields.
	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("year", yearFieldMapping)

	hasEbookFieldMapping := bleve.NewBooleanFieldMapping()
	hasEbookFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("has_ebook", hasEbookFieldMapping)

	hasBioFieldMapping := bleve.NewBooleanFieldMapping()
	hasBioFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("has_bio", hasBioFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
