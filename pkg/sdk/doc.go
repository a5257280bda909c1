// Package catalogsearch provides a Go client that indexes content catalog records
// into a search engine and answers catalog queries from it.
//
// A catalog is a list of index declarations (FieldIndex, KeywordIndex, DateIndex,
// ZCTextIndex, ExtendedPathIndex, ...). Each declaration is mapped onto the engine
// schema, every record is turned into one engine document, and catalog queries are
// translated into engine filters. Two backends are available:
//   - bleve, embedded, in memory or on disk
//   - Redis 8 with JSON documents and FT indexes
//
// # Usage
//
//	client, _ := catalogsearch.New(ctx,
//	    catalogsearch.WithBleve(""),
//	    catalogsearch.WithCatalog(
//	        catalogsearch.Index{Name: "portal_type", Kind: catalogsearch.KindField},
//	        catalogsearch.Index{Name: "path", Kind: catalogsearch.KindPath},
//	        catalogsearch.Index{Name: "SearchableText", Kind: catalogsearch.KindText,
//	            IndexedAttrs: []string{"Title", "Description"}},
//	    ),
//	)
//	defer client.Close()
//
//	_, _ = client.EnsureIndex(ctx)
//	_ = client.Index(ctx, catalogsearch.Record{ID: "front-page", Path: "/plone/front-page",
//	    Attributes: map[string]any{"portal_type": "Document", "Title": "Welcome"}})
//	res, _ := client.Search(ctx, catalogsearch.Query{
//	    "path":           map[string]any{"query": "/plone", "depth": 1},
//	    "SearchableText": "welcome",
//	}, 20, 0)
package catalogsearch
