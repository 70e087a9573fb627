package gsc

import (
	"context"

	searchconsole "google.golang.org/api/searchconsole/v1"
)

// MockResponse is one scripted result for the MockExecutor.
type MockResponse struct {
	Rows []*searchconsole.ApiDataRow
	Err  error
}

// MockExecutor replays scripted responses and records the requests it saw.
// Use it to exercise pagination and retry behaviour without the network.
type MockExecutor struct {
	Responses []MockResponse
	Requests  []*searchconsole.SearchAnalyticsQueryRequest
}

func (m *MockExecutor) Query(ctx context.Context, siteURL string, req *searchconsole.SearchAnalyticsQueryRequest) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	// Copy the request so later cursor mutations don't rewrite history.
	reqCopy := *req
	m.Requests = append(m.Requests, &reqCopy)
	if len(m.Responses) == 0 {
		return &searchconsole.SearchAnalyticsQueryResponse{}, nil
	}
	next := m.Responses[0]
	m.Responses = m.Responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &searchconsole.SearchAnalyticsQueryResponse{Rows: next.Rows}, nil
}

// MakeRows builds n data rows that share the supplied first key. Handy for
// pagination tests.
func MakeRows(n int, keyPrefix string) []*searchconsole.ApiDataRow {
	rows := make([]*searchconsole.ApiDataRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &searchconsole.ApiDataRow{
			Keys:        []string{keyPrefix},
			Clicks:      1,
			Impressions: 2,
			Ctr:         0.5,
			Position:    1.5,
		})
	}
	return rows
}
