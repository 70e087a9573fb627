package components

import (
	"testing"

	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
	"github.com/seoreports/gscsync/warehouse"
)

func TestCountryMapperRewritesKnownCodes(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	db := warehouse.NewMockConnector()
	db.StringPairs = map[string]string{"usa": "United States", "gbr": "United Kingdom"}
	m := NewCountryMapper(&CountryMapperConfig{Log: log, OutputDb: db, DimSQL: "select code, name from dim"})
	r1 := makeRec(map[string]interface{}{c.ColCountry: "usa"})
	r2 := makeRec(map[string]interface{}{c.ColCountry: "zzz"})
	r3 := makeRec(map[string]interface{}{c.ColCountry: c.TokenNoCountry})
	m.Apply([]stream.Record{r1, r2, r3})
	if v := r1.GetData(c.ColCountry); v != "United States" {
		t.Fatalf("expected mapped name, got %v", v)
	}
	if v := r2.GetData(c.ColCountry); v != "zzz" {
		t.Fatalf("expected unmapped code untouched, got %v", v)
	}
	if v := r3.GetData(c.ColCountry); v != c.TokenNoCountry {
		t.Fatalf("expected sentinel untouched, got %v", v)
	}
}

func TestCountryMapperMatchesCodesCaseInsensitively(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	db := warehouse.NewMockConnector()
	// Dimension tables commonly hold uppercase ISO codes while the source
	// reports lowercase ones; both directions must match.
	db.StringPairs = map[string]string{"IR": "Iran", "us": "United States"}
	m := NewCountryMapper(&CountryMapperConfig{Log: log, OutputDb: db, DimSQL: "select code, name from dim"})
	r1 := makeRec(map[string]interface{}{c.ColCountry: "ir"})
	r2 := makeRec(map[string]interface{}{c.ColCountry: "US"})
	m.Apply([]stream.Record{r1, r2})
	if v := r1.GetData(c.ColCountry); v != "Iran" {
		t.Fatalf("expected lowercase code matched, got %v", v)
	}
	if v := r2.GetData(c.ColCountry); v != "United States" {
		t.Fatalf("expected uppercase code matched, got %v", v)
	}
}

func TestCountryMapperDegradesOnQueryError(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	db := warehouse.NewMockConnector()
	db.FailStringPairs = true
	m := NewCountryMapper(&CountryMapperConfig{Log: log, OutputDb: db, DimSQL: "select code, name from dim"})
	rec := makeRec(map[string]interface{}{c.ColCountry: "usa"})
	m.Apply([]stream.Record{rec})
	if v := rec.GetData(c.ColCountry); v != "usa" {
		t.Fatalf("expected pass-through after load failure, got %v", v)
	}
}

func TestCountryMapperDisabledWithoutSQL(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	m := NewCountryMapper(&CountryMapperConfig{Log: log, OutputDb: warehouse.NewMockConnector()})
	rec := makeRec(map[string]interface{}{c.ColCountry: "usa"})
	m.Apply([]stream.Record{rec})
	if v := rec.GetData(c.ColCountry); v != "usa" {
		t.Fatalf("expected pass-through when disabled, got %v", v)
	}
}
