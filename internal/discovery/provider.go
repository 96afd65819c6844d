package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/torkay/prospect-command-center/internal/domain"
)

// ErrorKind classifies a discovery failure for callers that decide whether to
// retry or surface the job as failed.
type ErrorKind string

const (
	KindRateLimited         ErrorKind = "rate_limited"
	KindUnauthenticated     ErrorKind = "unauthenticated"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
)

// Error is a classified provider failure. A query that simply matches nothing
// is not an error; it returns empty ChannelResults.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("discovery: %s: %s", e.Kind, e.Msg)
}

// Kind extracts the classification from any error, or "" for unclassified.
func Kind(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Provider searches one query/location pair across the ads, maps and organic
// channels.
type Provider interface {
	Search(ctx context.Context, businessType, location string, limit int) (domain.ChannelResults, error)
}
