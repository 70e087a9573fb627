package keys

import (
	"regexp"
	"testing"

	"github.com/seoreports/gscsync/stream"
)

func newRec(fields map[string]interface{}) stream.Record {
	r := stream.NewRecord()
	for k, v := range fields {
		r.SetData(k, v)
	}
	return r
}

func TestDeriveKeyIsDeterministic(t *testing.T) {
	spec := NewKeySpec([]string{"date", "query", "page"})
	rec := newRec(map[string]interface{}{
		"Date":  "2025-09-26",
		"Query": "buy shoes",
		"Page":  "https://x.com/a",
	})
	k1 := DeriveKey(rec, spec)
	k2 := DeriveKey(rec, spec)
	if k1 != k2 {
		t.Fatal("same record produced two different keys")
	}
	if !regexp.MustCompile("^[0-9a-f]{64}$").MatchString(k1) {
		t.Fatalf("key is not a lowercase 64-char hex digest: %q", k1)
	}
}

func TestDeriveKeyNormalizes(t *testing.T) {
	spec := NewKeySpec([]string{"date", "query", "page"})
	a := newRec(map[string]interface{}{
		"Date":  "2025-09-26",
		"Query": "Buy Shoes ",
		"Page":  "https://x.com/a/",
	})
	b := newRec(map[string]interface{}{
		"Date":  "2025-09-26",
		"Query": "buy shoes",
		"Page":  "https://x.com/a",
	})
	if DeriveKey(a, spec) != DeriveKey(b, spec) {
		t.Fatal("normalized-equivalent records hashed differently")
	}
}

func TestDeriveKeyUsesDeclaredOrderNotResponseOrder(t *testing.T) {
	rec := newRec(map[string]interface{}{
		"Date":  "2025-09-26",
		"Query": "buy shoes",
	})
	k1 := DeriveKey(rec, NewKeySpec([]string{"date", "query"}))
	k2 := DeriveKey(rec, NewKeySpec([]string{"query", "date"}))
	if k1 == k2 {
		t.Fatal("dimension order must change the key")
	}
}

func TestDeriveKeyDistinctDimensionSetsDiffer(t *testing.T) {
	// The same data point under two dimension sets is two logical rows.
	rec := newRec(map[string]interface{}{
		"Date":  "2025-09-26",
		"Query": "buy shoes",
		"Page":  "https://x.com/a",
	})
	k1 := DeriveKey(rec, NewKeySpec([]string{"date", "query"}))
	k2 := DeriveKey(rec, NewKeySpec([]string{"date", "query", "page"}))
	if k1 == k2 {
		t.Fatal("distinct dimension sets must produce distinct keys")
	}
}

func TestDeriveKeyAbsentFieldsUsePlaceholder(t *testing.T) {
	spec := NewKeySpec([]string{"date", "query", "country"})
	withEmpty := newRec(map[string]interface{}{
		"Date":    "2025-09-26",
		"Query":   "buy shoes",
		"Country": "",
	})
	missing := newRec(map[string]interface{}{
		"Date":  "2025-09-26",
		"Query": "buy shoes",
	})
	if DeriveKey(withEmpty, spec) != DeriveKey(missing, spec) {
		t.Fatal("absent and empty dimension values must hash identically")
	}
}

func TestDeriveKeyAliasFallback(t *testing.T) {
	spec := NewKeySpec([]string{"date", "page"})
	canonical := newRec(map[string]interface{}{
		"Date": "2025-09-26",
		"Page": "https://x.com/a",
	})
	aliased := newRec(map[string]interface{}{
		"Date": "2025-09-26",
		"page": "https://x.com/a",
	})
	if DeriveKey(canonical, spec) != DeriveKey(aliased, spec) {
		t.Fatal("alias field names must resolve to the same value")
	}
}

func TestDeriveKeyDateTruncation(t *testing.T) {
	spec := NewKeySpec([]string{"date"})
	a := newRec(map[string]interface{}{"Date": "2025-09-26 00:00:00"})
	b := newRec(map[string]interface{}{"Date": "2025-09-26"})
	if DeriveKey(a, spec) != DeriveKey(b, spec) {
		t.Fatal("date values with a time component must truncate to YYYY-MM-DD")
	}
}

func TestKeySpecColumns(t *testing.T) {
	spec := NewKeySpec([]string{"date", "searchAppearance"})
	cols := spec.Columns()
	if cols[0] != "Date" || cols[1] != "SearchAppearance" {
		t.Fatalf("unexpected canonical columns: %v", cols)
	}
}
