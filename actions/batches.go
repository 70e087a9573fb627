// Package actions wires the pipeline components into complete runs. Each
// action validates its config struct, builds the components it needs and
// drives them synchronously in one goroutine.
package actions

import (
	"sort"
	"strings"

	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/stream"
	tabledefinition "github.com/seoreports/gscsync/table-definition"
)

// BatchDefinition describes one fetch pass: which dimension set to request,
// which table to land in, how the fetched rows are decorated and whether
// missing days get placeholder coverage afterwards.
type BatchDefinition struct {
	Name        string
	Dims        []string // request dimensions, in the order their values come back
	SearchType  string   // empty requests the source default (web)
	TableName   func(cfg *SyncConfig) string
	TableDef    *tabledefinition.TableDefinition
	KeyDims     []string                     // identity dimension set; defaults to Dims plus searchType discriminator columns
	Overrides   map[string]string            // fixed tokens stamped on every row after extraction
	KeepRow     func(map[string]string) bool // optional raw-row predicate
	GapFill     bool                         // fill missing days with zero placeholders
	GapEntity   string                       // entity token qualifying gap partitions
	CaptureRows bool                         // retain written rows in memory for the allocation pass
}

// noIndexPages keeps rows the source returned with no page value at all:
// impressions it could not attribute to any indexed URL. The no-index batches
// stamp both query and page with the no-index token before writing.
func noIndexPages(dims map[string]string) bool {
	return strings.TrimSpace(dims["page"]) == ""
}

// StandardBatches returns the full batch plan for one sync run, in execution
// order. The plan walks from the widest dimension set down to per-day site
// totals so the shared dedup index sees the most specific rows first.
func StandardBatches() []BatchDefinition {
	rawTable := func(cfg *SyncConfig) string { return cfg.RawTableName }
	saTable := func(cfg *SyncConfig) string { return cfg.SearchAppearanceTableName }

	batches := []BatchDefinition{
		{
			Name:      "web-full",
			Dims:      []string{c.DimDate, c.DimQuery, c.DimPage, c.DimCountry, c.DimDevice},
			TableName: rawTable,
			TableDef:  tabledefinition.RawTable(),
		},
		{
			Name:      "web-query-page",
			Dims:      []string{c.DimDate, c.DimQuery, c.DimPage},
			TableName: rawTable,
			TableDef:  tabledefinition.RawTable(),
		},
		{
			Name:      "web-query-country",
			Dims:      []string{c.DimDate, c.DimQuery, c.DimCountry},
			TableName: rawTable,
			TableDef:  tabledefinition.RawTable(),
		},
		{
			Name:      "web-query-device",
			Dims:      []string{c.DimDate, c.DimQuery, c.DimDevice},
			TableName: rawTable,
			TableDef:  tabledefinition.RawTable(),
		},
		{
			Name:      "web-query",
			Dims:      []string{c.DimDate, c.DimQuery},
			TableName: rawTable,
			TableDef:  tabledefinition.RawTable(),
		},
		{
			Name:      "web-noindex",
			Dims:      []string{c.DimDate, c.DimPage},
			TableName: rawTable,
			TableDef:  tabledefinition.RawTable(),
			KeepRow:   noIndexPages,
			Overrides: map[string]string{c.ColQuery: c.TokenNoIndex, c.ColPage: c.TokenNoIndex},
		},
		{
			Name:      "web-page-totals",
			Dims:      []string{c.DimDate, c.DimPage},
			TableName: rawTable,
			TableDef:  tabledefinition.RawTable(),
			Overrides: map[string]string{c.ColQuery: c.TokenPageTotal},
		},
		{
			Name:      "web-sitewide",
			Dims:      []string{c.DimDate},
			TableName: rawTable,
			TableDef:  tabledefinition.RawTable(),
			Overrides: map[string]string{c.ColQuery: c.TokenSiteTotal},
			GapFill:   true,
		},
	}

	// The non-web search types walk the same ladder as web: each type gets
	// its own dimension batches plus a no-index pass.
	for _, st := range c.SearchTypesOther {
		batches = append(batches,
			BatchDefinition{
				Name:       st + "-query-page",
				Dims:       []string{c.DimDate, c.DimQuery, c.DimPage},
				SearchType: st,
				TableName:  rawTable,
				TableDef:   tabledefinition.RawTable(),
			},
			BatchDefinition{
				Name:       st + "-query-country",
				Dims:       []string{c.DimDate, c.DimQuery, c.DimCountry},
				SearchType: st,
				TableName:  rawTable,
				TableDef:   tabledefinition.RawTable(),
			},
			BatchDefinition{
				Name:       st + "-query-device",
				Dims:       []string{c.DimDate, c.DimQuery, c.DimDevice},
				SearchType: st,
				TableName:  rawTable,
				TableDef:   tabledefinition.RawTable(),
			},
			BatchDefinition{
				Name:       st + "-query",
				Dims:       []string{c.DimDate, c.DimQuery},
				SearchType: st,
				TableName:  rawTable,
				TableDef:   tabledefinition.RawTable(),
			},
			BatchDefinition{
				Name:       st + "-noindex",
				Dims:       []string{c.DimDate, c.DimPage},
				SearchType: st,
				TableName:  rawTable,
				TableDef:   tabledefinition.RawTable(),
				KeepRow:    noIndexPages,
				Overrides:  map[string]string{c.ColQuery: c.TokenNoIndex, c.ColPage: c.TokenNoIndex},
			},
		)
	}
	for _, st := range c.SearchTypesOther {
		batches = append(batches, BatchDefinition{
			Name:       st + "-sitewide",
			Dims:       []string{c.DimDate},
			SearchType: st,
			TableName:  rawTable,
			TableDef:   tabledefinition.RawTable(),
			Overrides:  map[string]string{c.ColQuery: c.TokenSiteTotal},
			GapFill:    true,
			GapEntity:  st,
		})
	}

	batches = append(batches, BatchDefinition{
		Name:        "search-appearance",
		Dims:        []string{c.DimSearchAppearance},
		TableName:   saTable,
		TableDef:    tabledefinition.SearchAppearanceTable(),
		KeyDims:     []string{c.DimSearchAppearance},
		CaptureRows: true,
	})
	return batches
}

// keyDims returns the identity dimension set for the batch. Non-web batches
// fold the search type into the identity so an image row and a web row over
// the same dimensions never collide.
func (b *BatchDefinition) keyDims() []string {
	if len(b.KeyDims) > 0 {
		return b.KeyDims
	}
	dims := make([]string, 0, len(b.Dims)+3)
	dims = append(dims, b.Dims...)
	// Overridden columns are part of identity too: a page-totals row and a
	// plain date/page row must hash differently. Sorted so the declared
	// order, and therefore the hash, is stable.
	overrideCols := make([]string, 0, len(b.Overrides))
	for col := range b.Overrides {
		overrideCols = append(overrideCols, col)
	}
	sort.Strings(overrideCols)
	dims = append(dims, overrideCols...)
	if b.SearchType != "" {
		dims = append(dims, "searchtype")
	}
	return dims
}

// placeholderTemplate builds the zero-metric record written for a day with no
// source activity.
func (b *BatchDefinition) placeholderTemplate(fetchDate, fetchID string) func(date string) stream.Record {
	return func(date string) stream.Record {
		rec := stream.NewRecord()
		rec.SetData(c.ColDate, date)
		rec.SetData(c.ColQuery, c.TokenSiteTotal)
		rec.SetData(c.ColPage, c.TokenNoPage)
		rec.SetData(c.ColCountry, c.TokenNoCountry)
		rec.SetData(c.ColDevice, c.TokenNoDevice)
		rec.SetData(c.ColSearchAppearance, c.TokenNoAppearance)
		rec.SetData(c.ColClicks, int64(0))
		rec.SetData(c.ColImpressions, int64(0))
		rec.SetData(c.ColCtr, float64(0))
		rec.SetData(c.ColPosition, float64(0))
		rec.SetData(c.ColSearchType, b.searchTypeOrDefault())
		rec.SetData(c.ColFetchDate, fetchDate)
		rec.SetData(c.ColFetchID, fetchID)
		for col, token := range b.Overrides {
			rec.SetData(col, token)
		}
		return rec
	}
}

func (b *BatchDefinition) searchTypeOrDefault() string {
	if b.SearchType == "" {
		return c.SearchTypeWeb
	}
	return b.SearchType
}
