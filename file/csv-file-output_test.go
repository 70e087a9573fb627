package file

import (
	"encoding/csv"
	"os"
	"path"
	"testing"

	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
)

func TestCSVFileOutput(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	fileName := path.Join(t.TempDir(), "preview.csv")
	w := NewCSVFileOutput(log, fileName, []string{"Date", "Query", "Clicks"})

	rec := stream.NewRecord()
	rec.SetData("Date", "2025-09-26")
	rec.SetData("Query", "buy shoes")
	rec.SetData("Clicks", int64(3))
	w.MustWriteToCSV([]stream.Record{rec})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if w.RowCount() != 1 {
		t.Fatalf("expected 1 row; got %v", w.RowCount())
	}

	f, err := os.Open(fileName)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row; got %v", len(records))
	}
	if records[1][0] != "2025-09-26" || records[1][1] != "buy shoes" || records[1][2] != "3" {
		t.Fatalf("unexpected CSV row: %v", records[1])
	}
}

func TestCSVFileOutputLazyCreate(t *testing.T) {
	log := logger.NewLogger("gscsync", "error", true)
	fileName := path.Join(t.TempDir(), "empty.csv")
	w := NewCSVFileOutput(log, fileName, []string{"Date"})
	w.MustWriteToCSV(nil)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(fileName); !os.IsNotExist(err) {
		t.Fatal("no file should exist when nothing was written")
	}
}
