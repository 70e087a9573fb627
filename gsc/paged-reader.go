package gsc

import (
	"context"
	"time"

	"github.com/seoreports/gscsync/logger"
	searchconsole "google.golang.org/api/searchconsole/v1"
)

// QueryShape fixes one logical query: date range, dimension set, search type
// and the row-count ceiling per page.
type QueryShape struct {
	StartDate  string
	EndDate    string
	Dimensions []string
	SearchType string // empty means the API default (web)
	RowLimit   int64
}

// PagedReaderConfig configures a PagedReader.
type PagedReaderConfig struct {
	Log           logger.Logger
	Name          string
	Executor      QueryExecutor
	SiteURL       string
	Shape         QueryShape
	RetryInterval time.Duration       // fixed backoff between retries of the same page
	SleepFn       func(time.Duration) // defaults to time.Sleep; injectable for tests
}

// PagedReader wraps one logical query as a retryable, cursor-advancing
// sequence of row pages. Rows carry no ordering or dedup guarantees here.
type PagedReader struct {
	log      logger.Logger
	name     string
	executor QueryExecutor
	siteURL  string
	shape    QueryShape
	retry    time.Duration
	sleepFn  func(time.Duration)
	startRow int64
	done     bool
	requests int
}

// NewPagedReader starts a reader with its cursor at row 0.
func NewPagedReader(cfg *PagedReaderConfig) *PagedReader {
	if cfg.Executor == nil {
		cfg.Log.Panic("Error, missing query executor in call to NewPagedReader.")
	}
	sleepFn := cfg.SleepFn
	if sleepFn == nil {
		sleepFn = time.Sleep
	}
	return &PagedReader{
		log:      cfg.Log,
		name:     cfg.Name,
		executor: cfg.Executor,
		siteURL:  cfg.SiteURL,
		shape:    cfg.Shape,
		retry:    cfg.RetryInterval,
		sleepFn:  sleepFn,
	}
}

// Done reports whether the terminal page has been seen.
func (r *PagedReader) Done() bool {
	return r.done
}

// Requests returns the number of successful page requests issued so far.
func (r *PagedReader) Requests() int {
	return r.requests
}

// Next fetches the next page at the current cursor and advances the cursor by
// the number of rows returned. A page with fewer rows than the ceiling (or no
// rows) is terminal.
//
// Transient source failures never advance the cursor: the reader sleeps the
// fixed retry interval and reissues the same request until it succeeds. Only
// an access denial escapes this loop so the caller can abort the run.
func (r *PagedReader) Next(ctx context.Context) ([]*searchconsole.ApiDataRow, error) {
	if r.done {
		return nil, nil
	}
	req := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:       r.shape.StartDate,
		EndDate:         r.shape.EndDate,
		Dimensions:      r.shape.Dimensions,
		SearchType:      r.shape.SearchType,
		RowLimit:        r.shape.RowLimit,
		StartRow:        r.startRow,
		ForceSendFields: []string{"StartRow"},
	}
	for {
		r.log.Debug(r.name, " fetching page (startRow=", r.startRow, ")...")
		resp, err := r.executor.Query(ctx, r.siteURL, req)
		if err != nil {
			if IsAccessDenied(err) { // if the property refused us there is no point retrying...
				return nil, err
			}
			r.log.Error(r.name, " fetch error: ", err, " - retrying in ", r.retry)
			r.sleepFn(r.retry)
			continue // reissue the same request; the cursor has not moved.
		}
		r.requests++
		rows := resp.Rows
		if int64(len(rows)) < r.shape.RowLimit { // if the source returned fewer rows than the ceiling...
			r.done = true // this is the terminal page.
		}
		r.startRow += int64(len(rows))
		r.log.Debug(r.name, " fetched ", len(rows), " rows (next startRow=", r.startRow, ", done=", r.done, ")")
		return rows, nil
	}
}
