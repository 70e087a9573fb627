package components

import (
	"testing"

	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/keys"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
)

func makeRec(fields map[string]interface{}) stream.Record {
	rec := stream.NewRecord()
	for k, v := range fields {
		rec.SetData(k, v)
	}
	return rec
}

func TestDedupFilterDropsRepeats(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	f := NewDedupFilter(&DedupFilterConfig{
		Log:     log,
		Name:    "test",
		KeySpec: keys.NewKeySpec([]string{"date", "query"}),
		Index:   keys.NewIndex(),
	})
	r1 := makeRec(map[string]interface{}{c.ColDate: "2026-08-01", c.ColQuery: "buy shoes"})
	r2 := makeRec(map[string]interface{}{c.ColDate: "2026-08-01", c.ColQuery: "Buy Shoes "}) // same after normalization
	r3 := makeRec(map[string]interface{}{c.ColDate: "2026-08-01", c.ColQuery: "buy socks"})
	out, dupes := f.Filter([]stream.Record{r1, r2, r3})
	if len(out) != 2 || dupes != 1 {
		t.Fatalf("expected 2 survivors 1 dupe, got %v survivors %v dupes", len(out), dupes)
	}
	if _, ok := out[0].GetDataOk(c.ColUniqueKey); !ok {
		t.Fatal("expected unique_key to be stamped on survivors")
	}
}

func TestDedupFilterSharesIndexAcrossBatches(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	idx := keys.NewIndex()
	spec := keys.NewKeySpec([]string{"date", "query"})
	f1 := NewDedupFilter(&DedupFilterConfig{Log: log, Name: "b1", KeySpec: spec, Index: idx})
	f2 := NewDedupFilter(&DedupFilterConfig{Log: log, Name: "b2", KeySpec: spec, Index: idx})
	rec := map[string]interface{}{c.ColDate: "2026-08-01", c.ColQuery: "buy shoes"}
	out1, _ := f1.Filter([]stream.Record{makeRec(rec)})
	out2, dupes := f2.Filter([]stream.Record{makeRec(rec)})
	if len(out1) != 1 {
		t.Fatalf("expected first batch to keep the row, got %v", len(out1))
	}
	if len(out2) != 0 || dupes != 1 {
		t.Fatalf("expected second batch to drop the row, got %v survivors %v dupes", len(out2), dupes)
	}
}

func TestDedupFilterSkipsPreloadedKeys(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	idx := keys.NewIndex()
	spec := keys.NewKeySpec([]string{"date", "query"})
	rec := makeRec(map[string]interface{}{c.ColDate: "2026-08-01", c.ColQuery: "buy shoes"})
	idx.Add(keys.DeriveKey(rec, spec))
	f := NewDedupFilter(&DedupFilterConfig{Log: log, Name: "test", KeySpec: spec, Index: idx})
	out, dupes := f.Filter([]stream.Record{rec})
	if len(out) != 0 || dupes != 1 {
		t.Fatalf("expected preloaded key to be dropped, got %v survivors %v dupes", len(out), dupes)
	}
}
