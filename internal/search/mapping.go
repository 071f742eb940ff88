package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for rule documents.
//
// Titles and descriptions are analyzed with the standard analyzer; song titles
// are often Japanese or stylized, so no language stemming. The *_key fields
// hold normalized text under the keyword analyzer for substring and prefix
// matching. Difficulty is an exact keyword filter and priority is numeric.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields ---

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = standard.Name
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// --- Keyword fields ---

	for _, field := range []string{"title_key", "song_key", "difficulty"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = field == "difficulty"
		docMapping.AddFieldMappingsAt(field, fm)
	}

	// Stored for building hits.
	for _, field := range []string{"rule_id", "song_id", "url"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}

	// --- Numeric fields ---

	priorityFieldMapping := bleve.NewNumericFieldMapping()
	priorityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("priority", priorityFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
