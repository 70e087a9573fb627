package keys

import (
	"github.com/seoreports/gscsync/logger"
)

// Scope bounds the cost of loading existing keys from the sink.
// Empty fields widen the scope; an empty Scope loads every key in the table.
type Scope struct {
	StartDate string // inclusive YYYY-MM-DD lower bound on the Date column
	EndDate   string // inclusive YYYY-MM-DD upper bound on the Date column
	Where     string // optional extra predicate, e.g. a sentinel-token filter
}

// KeyReader is the narrow view of the sink the index needs at load time.
type KeyReader interface {
	ExistingKeys(tableName string, scope Scope) (map[string]struct{}, error)
}

// Index is the in-memory set of identity hashes already persisted, shared by
// every batch of one run. It has no persistence of its own: cross-run safety
// comes from reloading it from the sink at the start of each run, intra-run
// safety from synchronous Add calls as rows are written.
type Index struct {
	seen map[string]struct{}
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{seen: make(map[string]struct{})}
}

// LoadIndex seeds an index from the sink. If the load fails the index starts
// empty and the run proceeds: this trades a risk of offering already-stored
// rows (caught again by the sink writer's own pre-write filter) for
// availability.
func LoadIndex(log logger.Logger, rd KeyReader, tableName string, scope Scope) *Index {
	x := NewIndex()
	existing, err := rd.ExistingKeys(tableName, scope)
	if err != nil {
		log.Warn("failed to fetch existing keys from ", tableName, ": ", err, " - continuing with an empty index")
		return x
	}
	x.seen = existing
	log.Info("retrieved ", len(existing), " existing keys from ", tableName)
	return x
}

func (x *Index) Contains(key string) bool {
	_, ok := x.seen[key]
	return ok
}

func (x *Index) Add(key string) {
	x.seen[key] = struct{}{}
}

// Merge loads more keys from the sink into an existing index, with the same
// degrade-to-empty behavior as LoadIndex. The orchestrator calls this once
// per (table, scope) pair as batches target new tables.
func (x *Index) Merge(log logger.Logger, rd KeyReader, tableName string, scope Scope) {
	existing, err := rd.ExistingKeys(tableName, scope)
	if err != nil {
		log.Warn("failed to fetch existing keys from ", tableName, ": ", err, " - continuing without them")
		return
	}
	for k := range existing {
		x.seen[k] = struct{}{}
	}
	log.Info("retrieved ", len(existing), " existing keys from ", tableName)
}

func (x *Index) Len() int {
	return len(x.seen)
}
