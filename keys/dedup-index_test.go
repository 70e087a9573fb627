package keys

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/seoreports/gscsync/logger"
)

type mockKeyReader struct {
	keys      map[string]struct{}
	err       error
	lastScope Scope
	lastTable string
}

func (m *mockKeyReader) ExistingKeys(tableName string, scope Scope) (map[string]struct{}, error) {
	m.lastTable = tableName
	m.lastScope = scope
	if m.err != nil {
		return nil, m.err
	}
	return m.keys, nil
}

func TestLoadIndex(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	rd := &mockKeyReader{keys: map[string]struct{}{"abc": {}, "def": {}}}
	x := LoadIndex(log, rd, "raw_table", Scope{StartDate: "2025-09-26", EndDate: "2025-09-28"})
	if x.Len() != 2 || !x.Contains("abc") {
		t.Fatal("index did not load keys from the reader")
	}
	if rd.lastTable != "raw_table" || rd.lastScope.StartDate != "2025-09-26" {
		t.Fatal("scope was not passed through to the reader")
	}
}

func TestLoadIndexDegradesToEmptyOnError(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	rd := &mockKeyReader{err: errors.New("boom")}
	x := LoadIndex(log, rd, "raw_table", Scope{})
	if x.Len() != 0 {
		t.Fatal("index should start empty when the load fails")
	}
	// The run proceeds; the index is still usable.
	x.Add("abc")
	if !x.Contains("abc") {
		t.Fatal("index mutation failed after degraded load")
	}
}

func TestIndexAddContains(t *testing.T) {
	x := NewIndex()
	if x.Contains("abc") {
		t.Fatal("empty index should not contain keys")
	}
	x.Add("abc")
	if !x.Contains("abc") {
		t.Fatal("added key not found")
	}
}
