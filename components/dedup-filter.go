package components

import (
	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/keys"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
)

// DedupFilterConfig configures a DedupFilter for one batch.
type DedupFilterConfig struct {
	Log     logger.Logger
	Name    string
	KeySpec *keys.KeySpec
	Index   *keys.Index // the run-wide shared index; mutated synchronously
}

// DedupFilter derives each record's identity hash, stamps it into the
// unique_key field and drops records the shared index has already seen.
// Surviving keys are added to the index immediately so later pages and later
// batches of the same run cannot re-offer them.
type DedupFilter struct {
	cfg *DedupFilterConfig
}

func NewDedupFilter(cfg *DedupFilterConfig) *DedupFilter {
	if cfg.KeySpec == nil || cfg.Index == nil {
		cfg.Log.Panic("Error, missing key spec or index in call to NewDedupFilter.")
	}
	return &DedupFilter{cfg: cfg}
}

// Filter returns the records that survived plus the duplicate count.
func (f *DedupFilter) Filter(recs []stream.Record) ([]stream.Record, int) {
	survivors := make([]stream.Record, 0, len(recs))
	duplicates := 0
	for _, rec := range recs {
		key := keys.DeriveKey(rec, f.cfg.KeySpec)
		if f.cfg.Index.Contains(key) {
			duplicates++
			continue
		}
		f.cfg.Index.Add(key)
		rec.SetData(c.ColUniqueKey, key)
		survivors = append(survivors, rec)
	}
	f.cfg.Log.Debug(f.cfg.Name, " filtered ", len(recs), " rows: ", len(survivors), " new, ", duplicates, " duplicates")
	return survivors, duplicates
}
