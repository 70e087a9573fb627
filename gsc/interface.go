package gsc

import (
	"context"

	searchconsole "google.golang.org/api/searchconsole/v1"
)

// QueryExecutor abstracts the Search Analytics query endpoint so the paged
// reader can be driven by the real service or a mock.
type QueryExecutor interface {
	Query(ctx context.Context, siteURL string, req *searchconsole.SearchAnalyticsQueryRequest) (*searchconsole.SearchAnalyticsQueryResponse, error)
}
