package bleve

import (
	blevesearch "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevemapping "github.com/blevesearch/bleve/v2/mapping"

	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// sourceField holds the JSON form of the whole document, stored but not indexed.
const sourceField = "_source"

// buildIndexMapping converts a catalog schema into a static bleve mapping.
// Fields outside the schema are ignored at index time.
func buildIndexMapping(schema mapping.Schema) *blevemapping.IndexMappingImpl {
	doc := blevesearch.NewDocumentStaticMapping()
	for _, name := range schema.Names() {
		addField(doc, name, schema[name])
	}

	source := blevesearch.NewTextFieldMapping()
	source.Index = false
	source.Store = true
	source.IncludeInAll = false
	source.IncludeTermVectors = false
	source.DocValues = false
	doc.AddFieldMappingsAt(sourceField, source)

	im := blevesearch.NewIndexMapping()
	im.DefaultMapping = doc
	im.DefaultAnalyzer = standard.Name
	return im
}

func addField(doc *blevemapping.DocumentMapping, name string, f mapping.Field) {
	if f.IsComposite() {
		sub := blevesearch.NewDocumentStaticMapping()
		for _, prop := range f.PropertyNames() {
			addField(sub, prop, f.Properties[prop])
		}
		doc.AddSubDocumentMapping(name, sub)
		return
	}
	doc.AddFieldMappingsAt(name, fieldMapping(f))
}

func fieldMapping(f mapping.Field) *blevemapping.FieldMapping {
	var fm *blevemapping.FieldMapping
	switch f.Type {
	case mapping.Date:
		fm = blevesearch.NewDateTimeFieldMapping()
	case mapping.Boolean:
		fm = blevesearch.NewBooleanFieldMapping()
	case mapping.Integer:
		fm = blevesearch.NewNumericFieldMapping()
	default:
		fm = blevesearch.NewTextFieldMapping()
		fm.Analyzer = analyzerFor(f)
		fm.IncludeTermVectors = f.IsAnalyzed()
	}
	fm.Store = f.IsStored()
	fm.IncludeInAll = f.Type == mapping.String && f.IsAnalyzed() && f.Analyzer == ""
	return fm
}

func analyzerFor(f mapping.Field) string {
	switch {
	case f.Analyzer != "":
		return f.Analyzer
	case f.IsAnalyzed():
		return standard.Name
	default:
		return keyword.Name
	}
}

// isExactField reports whether the field is indexed as a single untokenized term.
func isExactField(f mapping.Field) bool {
	return f.Type == mapping.String && analyzerFor(f) == keyword.Name
}
