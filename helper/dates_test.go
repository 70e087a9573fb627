package helper

import "testing"

func TestDatesInRange(t *testing.T) {
	dates, err := DatesInRange("2025-09-26", "2025-09-28")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2025-09-26", "2025-09-27", "2025-09-28"}
	if len(dates) != len(want) {
		t.Fatalf("expected %v dates; got %v", len(want), len(dates))
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("expected %q; got %q", want[i], dates[i])
		}
	}
}

func TestDatesInRangeSingleDay(t *testing.T) {
	dates, err := DatesInRange("2025-09-26", "2025-09-26")
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 1 || dates[0] != "2025-09-26" {
		t.Fatalf("expected single day; got %v", dates)
	}
}

func TestDatesInRangeEndBeforeStart(t *testing.T) {
	if _, err := DatesInRange("2025-09-28", "2025-09-26"); err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestDatesInRangeBadFormat(t *testing.T) {
	if _, err := DatesInRange("26-09-2025", "2025-09-28"); err == nil {
		t.Fatal("expected error for bad date format")
	}
}
