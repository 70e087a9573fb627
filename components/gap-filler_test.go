package components

import (
	"testing"

	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
)

func sitewideTemplate(date string) stream.Record {
	rec := stream.NewRecord()
	rec.SetData(c.ColDate, date)
	rec.SetData(c.ColQuery, c.TokenSiteTotal)
	rec.SetData(c.ColClicks, int64(0))
	rec.SetData(c.ColImpressions, int64(0))
	return rec
}

func TestGapFillerFillsUncoveredDays(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	g := NewGapFiller(&GapFillerConfig{
		Log:       log,
		Name:      "test",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-03",
		Seen:      map[string]bool{"2026-08-02": true},
		Template:  sitewideTemplate,
	})
	rows, failed, err := g.MissingRows()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 placeholders, got %v", len(rows))
	}
	if len(failed) != 0 {
		t.Fatalf("expected no failed partitions, got %v", failed)
	}
	if d := rows[0].GetData(c.ColDate); d != "2026-08-01" {
		t.Fatalf("expected first gap on 2026-08-01, got %v", d)
	}
	if d := rows[1].GetData(c.ColDate); d != "2026-08-03" {
		t.Fatalf("expected second gap on 2026-08-03, got %v", d)
	}
	if q := rows[0].GetData(c.ColQuery); q != c.TokenSiteTotal {
		t.Fatalf("expected site-total token, got %v", q)
	}
}

func TestGapFillerFullCoverageAddsNothing(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	g := NewGapFiller(&GapFillerConfig{
		Log:       log,
		Name:      "test",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-02",
		Seen:      map[string]bool{"2026-08-01": true, "2026-08-02": true},
		Template:  sitewideTemplate,
	})
	rows, _, err := g.MissingRows()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no placeholders, got %v", len(rows))
	}
}

func TestGapFillerEntityPartitions(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	g := NewGapFiller(&GapFillerConfig{
		Log:       log,
		Name:      "test",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-02",
		Entity:    "image",
		Seen:      map[string]bool{"2026-08-01/image": true, "2026-08-02": true},
		Template:  sitewideTemplate,
	})
	rows, _, err := g.MissingRows()
	if err != nil {
		t.Fatal(err)
	}
	// 2026-08-02 was seen without the entity qualifier, so it still counts
	// as uncovered for the image partition.
	if len(rows) != 1 {
		t.Fatalf("expected 1 placeholder, got %v", len(rows))
	}
	if d := rows[0].GetData(c.ColDate); d != "2026-08-02" {
		t.Fatalf("expected gap on 2026-08-02, got %v", d)
	}
}

func TestGapFillerReportsFailedPartitions(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	g := NewGapFiller(&GapFillerConfig{
		Log:       log,
		Name:      "test",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-02",
		Seen:      map[string]bool{},
		Failed:    map[string]bool{"2026-08-01": true},
		Template:  sitewideTemplate,
	})
	rows, failed, err := g.MissingRows()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected failed day to still receive a placeholder, got %v rows", len(rows))
	}
	if len(failed) != 1 || failed[0] != "2026-08-01" {
		t.Fatalf("expected failed partition 2026-08-01 reported, got %v", failed)
	}
}

func TestGapFillerBadDateRange(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	g := NewGapFiller(&GapFillerConfig{
		Log:       log,
		Name:      "test",
		StartDate: "not-a-date",
		EndDate:   "2026-08-02",
		Template:  sitewideTemplate,
	})
	if _, _, err := g.MissingRows(); err == nil {
		t.Fatal("expected error for bad start date")
	}
}
