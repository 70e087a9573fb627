package actions

import (
	"github.com/seoreports/gscsync/components"
	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/keys"
	"github.com/seoreports/gscsync/stats"
	"github.com/seoreports/gscsync/stream"
	tabledefinition "github.com/seoreports/gscsync/table-definition"
)

func tabledefAllocated() *tabledefinition.TableDefinition {
	return tabledefinition.AllocatedTable()
}

func rawHeaderColumns() []string {
	return tabledefinition.RawTable().ColumnNames()
}

// allocateAppearances derives the allocation table from the search appearance
// rows written this run. When the run captured nothing new, the stored
// appearance rows for the window are allocated instead so the allocated table
// keeps advancing. Allocation is direct: each appearance's metrics are
// attributed in full (weight 1.0) to the configured site as the target
// entity. The allocation key hashes over appearance, target and fetch id, so
// re-running the same fetch id adds nothing.
func allocateAppearances(cfg *SyncConfig, idx *keys.Index, appearanceRows []stream.Record, runStats *stats.RunStats) {
	bs := runStats.StartBatch("allocation")
	log := cfg.Log
	rows := appearanceRows
	if len(rows) == 0 {
		log.Info("no new appearance rows this run, allocating from stored rows")
		stored, err := cfg.OutputDb.ReadRows(
			cfg.SearchAppearanceTableName,
			tabledefinition.SearchAppearanceTable(),
			keys.Scope{StartDate: cfg.StartDate, EndDate: cfg.EndDate})
		if err != nil {
			log.Error("unable to read stored appearance rows for allocation: ", err)
			bs.Errors++
			return
		}
		rows = stored
	}
	if len(rows) == 0 {
		return
	}

	recs := make([]stream.Record, 0, len(rows))
	for _, src := range rows {
		sa := src.GetDataAsString(log, c.ColSearchAppearance)
		clicks := float64(asInt64(src.GetData(c.ColClicks)))
		impressions := float64(asInt64(src.GetData(c.ColImpressions)))

		rec := stream.NewRecord()
		rec.SetData(c.ColSearchAppearance, sa)
		rec.SetData(c.ColTargetEntity, cfg.SiteURL)
		rec.SetData(c.ColAllocMethod, c.AllocationMethodDirect)
		rec.SetData(c.ColAllocWeight, float64(c.AllocationWeightDefault))
		rec.SetData(c.ColClicksAlloc, clicks*c.AllocationWeightDefault)
		rec.SetData(c.ColImpressionsAlloc, impressions*c.AllocationWeightDefault)
		rec.SetData(c.ColCtrAlloc, safeCtr(clicks*c.AllocationWeightDefault, impressions*c.AllocationWeightDefault))
		rec.SetData(c.ColPositionAlloc, asFloat64(src.GetData(c.ColPosition)))
		rec.SetData(c.ColFetchID, cfg.FetchID)
		rec.SetData(c.ColUniqueKey, keys.HashFields([]string{sa, cfg.SiteURL, cfg.FetchID}))
		recs = append(recs, rec)
	}

	appender := components.NewTableAppend(&components.TableAppendConfig{
		Log:       log,
		Name:      "allocation",
		OutputDb:  cfg.OutputDb,
		TableName: cfg.AllocTableName,
		TableDef:  tabledefAllocated(),
		Index:     idx,
		Debug:     cfg.Debug,
	})
	res, err := appender.Write(dedupAllocations(recs, idx))
	if err != nil {
		log.Error("allocation write to ", cfg.AllocTableName, " failed: ", err)
		bs.Errors++
		return
	}
	bs.Fetched = len(rows)
	bs.New = res.Written
	bs.Duplicates += res.Skipped
}

// dedupAllocations drops allocation rows whose key the run has already seen.
// Distinct appearance types share nothing, so this only fires when an
// appearance row was captured twice.
func dedupAllocations(recs []stream.Record, idx *keys.Index) []stream.Record {
	out := make([]stream.Record, 0, len(recs))
	for _, rec := range recs {
		key := rec.GetData(c.ColUniqueKey).(string)
		if idx.Contains(key) {
			continue
		}
		idx.Add(key)
		out = append(out, rec)
	}
	return out
}

func safeCtr(clicks, impressions float64) float64 {
	if impressions < 1 {
		impressions = 1
	}
	return clicks / impressions
}

func asInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asFloat64(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	default:
		return 0
	}
}
