package actions

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/seoreports/gscsync/components"
	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/file"
	"github.com/seoreports/gscsync/gsc"
	h "github.com/seoreports/gscsync/helper"
	"github.com/seoreports/gscsync/keys"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stats"
	"github.com/seoreports/gscsync/stream"
	"github.com/seoreports/gscsync/warehouse"
)

// SyncConfig carries everything one sync run needs. All collaborators are
// injected so the whole run is drivable from tests with mocks.
type SyncConfig struct {
	Log logger.Logger
	// Run window, inclusive YYYY-MM-DD.
	StartDate string `errorTxt:"start date" mandatory:"yes"`
	EndDate   string `errorTxt:"end date" mandatory:"yes"`
	// Source.
	SiteURL  string `errorTxt:"site URL" mandatory:"yes"`
	Executor gsc.QueryExecutor
	// Sink.
	OutputDb                  warehouse.Connector
	RawTableName              string `errorTxt:"raw table name" mandatory:"yes"`
	SearchAppearanceTableName string `errorTxt:"search appearance table name" mandatory:"yes"`
	AllocTableName            string `errorTxt:"allocation table name" mandatory:"yes"`
	CountryDimSQL             string
	// Behaviour.
	RowLimit      int64
	RetryInterval time.Duration
	Debug         bool
	CsvTestFile   string
	// Run identity, defaulted when empty.
	FetchID   string
	FetchDate string
	// The batch plan; defaults to StandardBatches().
	Batches []BatchDefinition
	// Injectable sleep for tests.
	SleepFn func(time.Duration)
}

func (cfg *SyncConfig) applyDefaults() {
	if cfg.RowLimit == 0 {
		cfg.RowLimit = c.RowLimitDefault
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = c.RetryIntervalSecondsDefault * time.Second
	}
	if cfg.FetchDate == "" {
		cfg.FetchDate = time.Now().UTC().Format(c.TimeFormatDate)
	}
	if cfg.FetchID == "" {
		// Timestamp prefix keeps fetch ids sortable; the xid suffix keeps
		// concurrent runs distinct.
		cfg.FetchID = time.Now().UTC().Format(c.TimeFormatFetchID) + "-" + xid.New().String()
	}
	if cfg.Batches == nil {
		cfg.Batches = StandardBatches()
	}
}

func (cfg *SyncConfig) validate() error {
	if err := h.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if cfg.Executor == nil {
		return errors.New("please supply a source query executor")
	}
	if cfg.OutputDb == nil {
		return errors.New("please supply an output database connection")
	}
	start, err := h.ParseDate(cfg.StartDate)
	if err != nil {
		return errors.Wrap(err, "bad start date")
	}
	end, err := h.ParseDate(cfg.EndDate)
	if err != nil {
		return errors.Wrap(err, "bad end date")
	}
	if end.Before(start) {
		return errors.Errorf("end date %v is before start date %v", cfg.EndDate, cfg.StartDate)
	}
	return nil
}

// RunSync executes the full batch plan against the configured site and sink
// and returns the per-batch tallies. Per-batch failures are tallied and
// reported but do not abort the run; the only fatal conditions are bad
// config, missing tables that cannot be created and an access denial from
// the source.
func RunSync(ctx context.Context, cfg *SyncConfig) (*stats.RunStats, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := cfg.Log
	log.Info("starting sync of ", cfg.SiteURL, " for ", cfg.StartDate, " to ", cfg.EndDate, " (fetch id ", cfg.FetchID, ")")

	if err := ensureTables(cfg); err != nil {
		return nil, err
	}
	if err := probeAccess(ctx, cfg); err != nil {
		return nil, err
	}

	countryMapper := components.NewCountryMapper(&components.CountryMapperConfig{
		Log:      log,
		OutputDb: cfg.OutputDb,
		DimSQL:   cfg.CountryDimSQL,
	})

	var csvOutput *file.CSVFileOutput
	if cfg.CsvTestFile != "" {
		csvOutput = file.NewCSVFileOutput(log, cfg.CsvTestFile, rawHeaderColumns())
		defer csvOutput.Close()
	}

	runStats := stats.NewRunStats(log)
	rawScope := keys.Scope{StartDate: cfg.StartDate, EndDate: cfg.EndDate}
	idx := keys.LoadIndex(log, cfg.OutputDb, cfg.RawTableName, rawScope)
	loadedScopes := map[string]bool{scopeKey(cfg.RawTableName, rawScope): true}
	var captured []stream.Record

	for i := range cfg.Batches {
		b := &cfg.Batches[i]
		rows, err := runBatch(ctx, cfg, b, idx, loadedScopes, countryMapper, csvOutput, runStats)
		if err != nil {
			return runStats, err
		}
		if b.CaptureRows {
			captured = append(captured, rows...)
		}
	}

	allocateAppearances(cfg, idx, captured, runStats)

	runStats.LogSummary()
	return runStats, nil
}

func ensureTables(cfg *SyncConfig) error {
	for _, b := range cfg.Batches {
		name := b.TableName(cfg)
		exists, err := cfg.OutputDb.TableExists(name)
		if err != nil {
			return errors.Wrapf(err, "unable to check table %v", name)
		}
		if exists {
			continue
		}
		cfg.Log.Info("creating table ", name)
		if err := cfg.OutputDb.CreateTable(name, b.TableDef); err != nil {
			return errors.Wrapf(err, "unable to create table %v", name)
		}
	}
	exists, err := cfg.OutputDb.TableExists(cfg.AllocTableName)
	if err != nil {
		return errors.Wrapf(err, "unable to check table %v", cfg.AllocTableName)
	}
	if !exists {
		cfg.Log.Info("creating table ", cfg.AllocTableName)
		if err := cfg.OutputDb.CreateTable(cfg.AllocTableName, tabledefAllocated()); err != nil {
			return errors.Wrapf(err, "unable to create table %v", cfg.AllocTableName)
		}
	}
	return nil
}

// probeAccess issues one cheap query so a misconfigured or unauthorized site
// fails the run up front instead of after a long retry loop mid-batch.
func probeAccess(ctx context.Context, cfg *SyncConfig) error {
	probe := gsc.NewPagedReader(&gsc.PagedReaderConfig{
		Log:      cfg.Log,
		Name:     "access-probe",
		Executor: cfg.Executor,
		SiteURL:  cfg.SiteURL,
		Shape: gsc.QueryShape{
			StartDate:  cfg.StartDate,
			EndDate:    cfg.EndDate,
			Dimensions: []string{c.DimDate},
			RowLimit:   1,
		},
		RetryInterval: cfg.RetryInterval,
		SleepFn:       cfg.SleepFn,
	})
	if _, err := probe.Next(ctx); err != nil {
		return errors.Wrapf(err, "access check failed for %v", cfg.SiteURL)
	}
	return nil
}

// runBatch drives one batch end to end: page loop, dedup, write, gap fill.
// It returns the rows written when the batch captures them. The only error it
// surfaces is an access denial; everything else is tallied and absorbed.
func runBatch(
	ctx context.Context,
	cfg *SyncConfig,
	b *BatchDefinition,
	idx *keys.Index,
	loadedScopes map[string]bool,
	countryMapper *components.CountryMapper,
	csvOutput *file.CSVFileOutput,
	runStats *stats.RunStats,
) ([]stream.Record, error) {
	log := cfg.Log
	bs := runStats.StartBatch(b.Name)
	tableName := b.TableName(cfg)

	scope := keys.Scope{}
	if b.TableDef.HasColumn(c.ColDate) {
		scope.StartDate = cfg.StartDate
		scope.EndDate = cfg.EndDate
	}
	sk := scopeKey(tableName, scope)
	if !loadedScopes[sk] {
		idx.Merge(log, cfg.OutputDb, tableName, scope)
		loadedScopes[sk] = true
	}

	builder := components.NewRowBuilder(&components.RowBuilderConfig{
		Log:        log,
		Name:       b.Name,
		Dims:       b.Dims,
		StartDate:  cfg.StartDate,
		SearchType: b.searchTypeOrDefault(),
		FetchDate:  cfg.FetchDate,
		FetchID:    cfg.FetchID,
		Overrides:  b.Overrides,
		KeepRow:    b.KeepRow,
	})
	filter := components.NewDedupFilter(&components.DedupFilterConfig{
		Log:     log,
		Name:    b.Name,
		KeySpec: keys.NewKeySpec(b.keyDims()),
		Index:   idx,
	})
	appender := components.NewTableAppend(&components.TableAppendConfig{
		Log:       log,
		Name:      b.Name,
		OutputDb:  cfg.OutputDb,
		TableName: tableName,
		TableDef:  b.TableDef,
		Index:     idx,
		Scope:     scope,
		Debug:     cfg.Debug,
		CsvOutput: csvOutput,
	})
	reader := gsc.NewPagedReader(&gsc.PagedReaderConfig{
		Log:      log,
		Name:     b.Name,
		Executor: cfg.Executor,
		SiteURL:  cfg.SiteURL,
		Shape: gsc.QueryShape{
			StartDate:  cfg.StartDate,
			EndDate:    cfg.EndDate,
			Dimensions: b.Dims,
			SearchType: b.SearchType,
			RowLimit:   cfg.RowLimit,
		},
		RetryInterval: cfg.RetryInterval,
		SleepFn:       cfg.SleepFn,
	})

	seen := map[string]bool{}
	failed := map[string]bool{}
	var written []stream.Record

	for !reader.Done() {
		apiRows, err := reader.Next(ctx)
		if err != nil {
			// Only access denial escapes the reader's retry loop, and a
			// denied property cannot recover mid-run.
			bs.Errors++
			return nil, errors.Wrapf(err, "%v aborted", b.Name)
		}
		recs := builder.BuildAll(apiRows)
		bs.Fetched += len(apiRows)
		survivors, dupes := filter.Filter(recs)
		bs.Duplicates += dupes
		// Country expansion happens after key derivation: the identity hashes
		// over the source code, never the display name, so a missing
		// dimension table cannot change which rows count as already stored.
		countryMapper.Apply(survivors)
		res, werr := appender.Write(survivors)
		if werr != nil {
			log.Error(b.Name, " write to ", tableName, " failed: ", werr)
			bs.Errors++
			markPartitions(failed, survivors, b.GapEntity)
			break
		}
		bs.New += res.Written
		bs.Duplicates += res.Skipped
		markPartitions(seen, recs, b.GapEntity)
		if b.CaptureRows {
			written = append(written, survivors...)
		}
	}

	if b.GapFill {
		gapFill(cfg, b, bs, filter, appender, seen, failed)
	}
	return written, nil
}

func gapFill(
	cfg *SyncConfig,
	b *BatchDefinition,
	bs *stats.BatchStats,
	filter *components.DedupFilter,
	appender *components.TableAppend,
	seen map[string]bool,
	failed map[string]bool,
) {
	gf := components.NewGapFiller(&components.GapFillerConfig{
		Log:       cfg.Log,
		Name:      b.Name,
		StartDate: cfg.StartDate,
		EndDate:   cfg.EndDate,
		Entity:    b.GapEntity,
		Seen:      seen,
		Failed:    failed,
		Template:  b.placeholderTemplate(cfg.FetchDate, cfg.FetchID),
	})
	rows, failedParts, err := gf.MissingRows()
	if err != nil {
		cfg.Log.Error(b.Name, " gap fill failed: ", err)
		bs.Errors++
		return
	}
	bs.FailedPartitions = failedParts
	survivors, dupes := filter.Filter(rows)
	bs.Duplicates += dupes
	res, err := appender.Write(survivors)
	if err != nil {
		cfg.Log.Error(b.Name, " gap fill write failed: ", err)
		bs.Errors++
		return
	}
	bs.Placeholders += res.Written
	bs.Duplicates += res.Skipped
}

// scopeKey renders the (table, scope) identity used to load the dedup index
// at most once per pair.
func scopeKey(tableName string, scope keys.Scope) string {
	return tableName + "|" + scope.StartDate + "|" + scope.EndDate + "|" + scope.Where
}

// markPartitions records day coverage for the gap filler.
func markPartitions(m map[string]bool, recs []stream.Record, entity string) {
	for _, rec := range recs {
		date := h.CanonicalDate(rec.GetData(c.ColDate))
		m[components.PartitionKey(date, entity)] = true
	}
}
