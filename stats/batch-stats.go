// Package stats accumulates per-batch and whole-run counters and renders the
// textual summary printed at the end of a sync.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/seoreports/gscsync/logger"
)

// BatchStats tallies one batch. The orchestrator increments these
// synchronously; there is no concurrent access.
type BatchStats struct {
	Name             string
	Fetched          int      // rows returned by the source
	New              int      // rows that survived dedup and were written
	Duplicates       int      // rows dropped as already present
	Placeholders     int      // synthetic rows written by the gap filler
	Errors           int      // write failures
	FailedPartitions []string // partitions whose fetch errored; placeholders still cover them
}

// RunStats owns the BatchStats for one execution.
type RunStats struct {
	log       logger.Logger
	startTime time.Time
	batches   []*BatchStats
}

func NewRunStats(log logger.Logger) *RunStats {
	return &RunStats{log: log, startTime: time.Now()}
}

// StartBatch registers and returns the tally for a new batch.
func (r *RunStats) StartBatch(name string) *BatchStats {
	b := &BatchStats{Name: name}
	r.batches = append(r.batches, b)
	return b
}

func (r *RunStats) Batches() []*BatchStats {
	return r.batches
}

// Totals aggregates all batches into one BatchStats named "total".
func (r *RunStats) Totals() BatchStats {
	t := BatchStats{Name: "total"}
	for _, b := range r.batches {
		t.Fetched += b.Fetched
		t.New += b.New
		t.Duplicates += b.Duplicates
		t.Placeholders += b.Placeholders
		t.Errors += b.Errors
		t.FailedPartitions = append(t.FailedPartitions, b.FailedPartitions...)
	}
	return t
}

// Summary renders the per-batch counts and the aggregate as text.
func (r *RunStats) Summary() string {
	b := strings.Builder{}
	for _, batch := range r.batches {
		b.WriteString(formatLine(batch))
		b.WriteString("\n")
	}
	t := r.Totals()
	b.WriteString(formatLine(&t))
	b.WriteString(fmt.Sprintf("\nelapsed: %v", time.Since(r.startTime).Round(time.Second)))
	return b.String()
}

// LogSummary emits the summary one line at a time via the logger.
func (r *RunStats) LogSummary() {
	for _, line := range strings.Split(r.Summary(), "\n") {
		r.log.Info(line)
	}
}

func formatLine(b *BatchStats) string {
	line := fmt.Sprintf("%v: fetched=%v new=%v duplicates=%v placeholders=%v errors=%v",
		b.Name, b.Fetched, b.New, b.Duplicates, b.Placeholders, b.Errors)
	if len(b.FailedPartitions) > 0 {
		line = line + fmt.Sprintf(" failedPartitions=%v", strings.Join(b.FailedPartitions, ","))
	}
	return line
}
