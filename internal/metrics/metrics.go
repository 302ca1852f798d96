// Package metrics provides application-level counters using stdlib expvar.
// Counters are exported on the /debug/vars HTTP endpoint served by the API.
package metrics

import "expvar"

// Indexing counters.
var (
	ChaptersParsed   = expvar.NewInt("docmeta_chapters_parsed_total")
	ChaptersSkipped  = expvar.NewInt("docmeta_chapters_skipped_total")
	SectionsIndexed  = expvar.NewInt("docmeta_sections_indexed_total")
	MetadataWarnings = expvar.NewInt("docmeta_metadata_warnings_total")
)

// Query counters.
var (
	LookupTotal  = expvar.NewInt("docmeta_lookup_total")
	LookupMisses = expvar.NewInt("docmeta_lookup_misses_total")
	SummaryTotal = expvar.NewInt("docmeta_summary_total")
	GraphExports = expvar.NewInt("docmeta_graph_exports_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }

// Add increments the given counter by n.
func Add(counter *expvar.Int, n int) { counter.Add(int64(n)) }
