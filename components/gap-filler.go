package components

import (
	h "github.com/seoreports/gscsync/helper"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
)

// PartitionKey renders the partition identity used by the gap filler: one
// calendar day, optionally qualified by an entity token such as a search type.
func PartitionKey(date string, entity string) string {
	if entity == "" {
		return date
	}
	return date + "/" + entity
}

// GapFillerConfig configures one gap-fill pass over a batch's date range.
type GapFillerConfig struct {
	Log       logger.Logger
	Name      string
	StartDate string
	EndDate   string
	Entity    string                          // optional entity token qualifying every partition
	Seen      map[string]bool                 // partitions that received at least one real row
	Failed    map[string]bool                 // partitions whose write failed; still filled, but reported
	Template  func(date string) stream.Record // builds the placeholder record for one day
}

// GapFiller synthesizes placeholder rows for expected partitions that
// received no real data. It runs only after the batch's real pass completes,
// and its output goes through the same dedup/append path as real rows, so a
// re-run over a fully covered range inserts nothing.
type GapFiller struct {
	cfg *GapFillerConfig
}

func NewGapFiller(cfg *GapFillerConfig) *GapFiller {
	if cfg.Template == nil {
		cfg.Log.Panic("Error, missing placeholder template in call to NewGapFiller.")
	}
	return &GapFiller{cfg: cfg}
}

// MissingRows returns one placeholder record per uncovered partition, plus
// the list of covered-but-failed partitions for the batch summary.
func (g *GapFiller) MissingRows() ([]stream.Record, []string, error) {
	dates, err := h.DatesInRange(g.cfg.StartDate, g.cfg.EndDate)
	if err != nil {
		return nil, nil, err
	}
	placeholders := make([]stream.Record, 0)
	failed := make([]string, 0)
	for _, date := range dates {
		part := PartitionKey(date, g.cfg.Entity)
		if g.cfg.Failed[part] {
			// A failed write is not "no activity", but without rows in the
			// sink the day would be a silent gap; fill it and report it.
			failed = append(failed, part)
		}
		if g.cfg.Seen[part] {
			continue
		}
		g.cfg.Log.Info(g.cfg.Name, " adding placeholder for missing partition ", part)
		placeholders = append(placeholders, g.cfg.Template(date))
	}
	return placeholders, failed, nil
}
