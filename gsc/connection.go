package gsc

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	searchconsole "google.golang.org/api/searchconsole/v1"
)

// ConnectionDetails holds what we need to reach one Search Console property.
type ConnectionDetails struct {
	SiteURL            string // e.g. "sc-domain:example.com"
	ServiceAccountFile string // path to the service account JSON key
}

// serviceExecutor implements QueryExecutor against the real Search Console API.
type serviceExecutor struct {
	svc *searchconsole.Service
}

// NewQueryExecutor builds a QueryExecutor backed by the Search Console
// service, authenticated with the supplied service account file.
func NewQueryExecutor(ctx context.Context, details *ConnectionDetails) (QueryExecutor, error) {
	svc, err := searchconsole.NewService(ctx,
		option.WithCredentialsFile(details.ServiceAccountFile),
		option.WithScopes(searchconsole.WebmastersReadonlyScope))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create Search Console service")
	}
	return &serviceExecutor{svc: svc}, nil
}

func (s *serviceExecutor) Query(ctx context.Context, siteURL string, req *searchconsole.SearchAnalyticsQueryRequest) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	return s.svc.Searchanalytics.Query(siteURL, req).Context(ctx).Do()
}

// IsAccessDenied reports whether err is the API refusing access to the
// requested property. This is the one source error that must not be retried.
func IsAccessDenied(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 403
	}
	return false
}
