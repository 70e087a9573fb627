// Package components holds the pipeline steps the sync orchestrator drives:
// building records from source pages, dedup filtering, gap filling and the
// append-only sink writer. Components run synchronously; the orchestrator is
// the only caller, one blocking call after another.
package components

import (
	"strings"

	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
	searchconsole "google.golang.org/api/searchconsole/v1"
)

// RowBuilderConfig configures a RowBuilder for one batch.
type RowBuilderConfig struct {
	Log        logger.Logger
	Name       string
	Dims       []string // lowercase dimension names requested from the source, in request order
	StartDate  string   // fallback for the date column when date is not a requested dimension
	SearchType string   // stored in the SearchType column
	FetchDate  string
	FetchID    string
	Overrides  map[string]string            // column name -> fixed token, applied after extraction
	KeepRow    func(map[string]string) bool // optional predicate on the raw dimension values; nil keeps everything
}

// RowBuilder converts source API rows into logical records. Absent dimensions
// are filled with their sentinel tokens so the key deriver always hashes over
// a defined value.
type RowBuilder struct {
	cfg *RowBuilderConfig
}

func NewRowBuilder(cfg *RowBuilderConfig) *RowBuilder {
	if len(cfg.Dims) == 0 {
		cfg.Log.Panic("Error, missing dimension list in call to NewRowBuilder.")
	}
	return &RowBuilder{cfg: cfg}
}

// Build returns the record for one API row and whether the row passed the
// batch's KeepRow predicate. Source keys align left with the requested
// dimension list.
func (b *RowBuilder) Build(apiRow *searchconsole.ApiDataRow) (stream.Record, bool) {
	dimVals := make(map[string]string, len(b.cfg.Dims))
	for i, dim := range b.cfg.Dims {
		if i < len(apiRow.Keys) {
			dimVals[strings.ToLower(dim)] = apiRow.Keys[i]
		}
	}
	if b.cfg.KeepRow != nil && !b.cfg.KeepRow(dimVals) {
		return stream.NewNilRecord(), false
	}

	rec := stream.NewRecord()
	rec.SetData(c.ColDate, valueOr(dimVals, c.DimDate, b.cfg.StartDate))
	rec.SetData(c.ColQuery, valueOr(dimVals, c.DimQuery, ""))
	rec.SetData(c.ColPage, valueOr(dimVals, c.DimPage, c.TokenNoPage))
	rec.SetData(c.ColCountry, valueOr(dimVals, c.DimCountry, c.TokenNoCountry))
	rec.SetData(c.ColDevice, valueOr(dimVals, c.DimDevice, c.TokenNoDevice))
	rec.SetData(c.ColSearchAppearance, valueOr(dimVals, strings.ToLower(c.DimSearchAppearance), c.TokenNoAppearance))
	rec.SetData(c.ColClicks, int64(apiRow.Clicks))
	rec.SetData(c.ColImpressions, int64(apiRow.Impressions))
	rec.SetData(c.ColCtr, apiRow.Ctr)
	rec.SetData(c.ColPosition, apiRow.Position)
	rec.SetData(c.ColSearchType, b.cfg.SearchType)
	rec.SetData(c.ColFetchDate, b.cfg.FetchDate)
	rec.SetData(c.ColFetchID, b.cfg.FetchID)
	for col, token := range b.cfg.Overrides {
		rec.SetData(col, token)
	}
	return rec, true
}

// BuildAll maps a full page of API rows, dropping rows the predicate rejects.
func (b *RowBuilder) BuildAll(apiRows []*searchconsole.ApiDataRow) []stream.Record {
	recs := make([]stream.Record, 0, len(apiRows))
	for _, apiRow := range apiRows {
		if rec, ok := b.Build(apiRow); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

// valueOr fetches a dimension value, treating absence and whitespace-only
// values as missing.
func valueOr(dimVals map[string]string, dim string, fallback string) string {
	v, ok := dimVals[dim]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
