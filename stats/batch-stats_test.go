package stats

import (
	"strings"
	"testing"

	"github.com/seoreports/gscsync/logger"
)

func TestRunStatsTotals(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	r := NewRunStats(log)
	b1 := r.StartBatch("web date,query")
	b1.Fetched = 10
	b1.New = 7
	b1.Duplicates = 3
	b2 := r.StartBatch("sitewide date")
	b2.Fetched = 2
	b2.New = 2
	b2.Placeholders = 1
	b2.Errors = 1
	b2.FailedPartitions = append(b2.FailedPartitions, "2025-09-27")

	totals := r.Totals()
	if totals.Fetched != 12 || totals.New != 9 || totals.Duplicates != 3 || totals.Placeholders != 1 || totals.Errors != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if len(totals.FailedPartitions) != 1 {
		t.Fatalf("expected 1 failed partition; got %v", totals.FailedPartitions)
	}
}

func TestRunStatsSummaryFormat(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	r := NewRunStats(log)
	b := r.StartBatch("noindex date,page")
	b.Fetched = 5
	b.Duplicates = 5
	s := r.Summary()
	if !strings.Contains(s, "noindex date,page: fetched=5 new=0 duplicates=5") {
		t.Fatalf("summary missing batch line:\n%v", s)
	}
	if !strings.Contains(s, "total: fetched=5") {
		t.Fatalf("summary missing totals line:\n%v", s)
	}
}
