package stream

import (
	"testing"

	"github.com/seoreports/gscsync/logger"
)

func TestRecordIsNil(t *testing.T) {
	r := NewNilRecord()
	if !r.RecordIsNil() {
		t.Fatal("expected nil record")
	}
	r = NewRecord()
	if r.RecordIsNil() {
		t.Fatal("expected non-nil record")
	}
}

func TestRecordSetGet(t *testing.T) {
	log := logger.NewLogger("gscsync", "info", true)
	r := NewRecord()
	r.SetData("Query", "buy shoes")
	r.SetData("Clicks", int64(3))
	if r.GetData("Query") != "buy shoes" {
		t.Fatal("unexpected Query value")
	}
	if got := r.GetDataAsString(log, "Clicks"); got != "3" {
		t.Fatalf("expected %q; got %q", "3", got)
	}
	if _, ok := r.GetDataOk("Page"); ok {
		t.Fatal("expected missing field to report !ok")
	}
	vals := r.GetDataKeysAsSlice(log, []string{"Query", "Clicks"})
	if vals[0] != "buy shoes" || vals[1] != "3" {
		t.Fatalf("unexpected slice values: %v", vals)
	}
}

func TestRecordGetDataPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown field")
		}
	}()
	r := NewRecord()
	_ = r.GetData("nope")
}
