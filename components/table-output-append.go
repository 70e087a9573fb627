package components

import (
	"strconv"

	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/file"
	"github.com/seoreports/gscsync/keys"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
	tabledefinition "github.com/seoreports/gscsync/table-definition"
	"github.com/seoreports/gscsync/warehouse"
)

// TableAppendConfig configures one append pass to a warehouse table.
type TableAppendConfig struct {
	Log       logger.Logger
	Name      string
	OutputDb  warehouse.Connector
	TableName string
	TableDef  *tabledefinition.TableDefinition
	Index     *keys.Index
	Scope     keys.Scope
	Debug     bool                // when set, rows are previewed instead of written
	CsvOutput *file.CSVFileOutput // receives every row that passes the sink filter; may be nil
}

// TableAppend writes deduplicated records to an append-only warehouse table.
// Just before writing it re-reads the sink's existing keys for the run scope
// and drops any record whose key already landed, so an interrupted previous
// run cannot cause double inserts. The re-read degrades to the in-memory
// index only if the sink query fails.
type TableAppend struct {
	cfg *TableAppendConfig
}

// AppendResult summarizes one append pass.
type AppendResult struct {
	Offered int
	Written int
	Skipped int
}

func NewTableAppend(cfg *TableAppendConfig) *TableAppend {
	if cfg.OutputDb == nil || cfg.Index == nil {
		cfg.Log.Panic("Error, missing connector or index in call to NewTableAppend.")
	}
	return &TableAppend{cfg: cfg}
}

// Write coerces metric fields, drops rows the sink already holds and appends
// the remainder. In debug mode nothing reaches the warehouse; the rows still
// land in the CSV file when one is configured.
func (t *TableAppend) Write(recs []stream.Record) (AppendResult, error) {
	res := AppendResult{Offered: len(recs)}
	if len(recs) == 0 {
		return res, nil
	}
	for _, rec := range recs {
		t.coerceMetrics(rec)
	}
	sinkKeys, err := t.cfg.OutputDb.ExistingKeys(t.cfg.TableName, t.cfg.Scope)
	if err != nil {
		t.cfg.Log.Warn(t.cfg.Name, " unable to re-read existing keys from ", t.cfg.TableName, ", relying on in-memory index: ", err)
		sinkKeys = nil
	}
	toWrite := make([]stream.Record, 0, len(recs))
	for _, rec := range recs {
		key := rec.GetDataAsString(t.cfg.Log, c.ColUniqueKey)
		if _, exists := sinkKeys[key]; exists {
			res.Skipped++
			continue
		}
		toWrite = append(toWrite, rec)
	}
	if len(toWrite) == 0 {
		t.cfg.Log.Info(t.cfg.Name, " nothing new to write to ", t.cfg.TableName)
		return res, nil
	}
	// The CSV file, when configured, receives the rows regardless of debug
	// mode so an inspection run can be compared against a writing run.
	if t.cfg.CsvOutput != nil {
		t.cfg.CsvOutput.MustWriteToCSV(toWrite)
	}
	if t.cfg.Debug {
		t.cfg.Log.Info(t.cfg.Name, " debug mode, previewing ", len(toWrite), " rows instead of writing to ", t.cfg.TableName)
		res.Written = len(toWrite)
		return res, nil
	}
	if err := t.cfg.OutputDb.Append(t.cfg.TableName, t.cfg.TableDef, toWrite); err != nil {
		return res, err
	}
	for _, rec := range toWrite {
		t.cfg.Index.Add(rec.GetDataAsString(t.cfg.Log, c.ColUniqueKey))
	}
	res.Written = len(toWrite)
	t.cfg.Log.Info(t.cfg.Name, " wrote ", res.Written, " rows to ", t.cfg.TableName, " (", res.Skipped, " already present)")
	return res, nil
}

// coerceMetrics forces numeric columns onto numeric types so a junk value
// from an upstream edge case lands as zero instead of failing the insert.
func (t *TableAppend) coerceMetrics(rec stream.Record) {
	for _, col := range t.cfg.TableDef.Columns {
		v, ok := rec.GetDataOk(col.Name)
		if !ok {
			continue
		}
		switch col.Type {
		case tabledefinition.TypeInteger:
			rec.SetData(col.Name, toInt64(v))
		case tabledefinition.TypeFloat:
			rec.SetData(col.Name, toFloat64(v))
		}
	}
}

func toInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
