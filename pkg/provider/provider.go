// Package provider defines the capability boundary to external fare search
// services.
//
// A [Searcher] executes exactly one search query and returns the provider's
// raw, schema-unspecified payload; everything after that (normalization,
// filtering, ranking) is provider-independent. Failures are classified into
// the four kinds the pipeline cares about: auth (fatal for the run),
// transient/rate-limited (retryable), not-found (zero offers) and malformed
// (zero offers, logged).
package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rmcnabb/farewatch/pkg/errors"
	"github.com/rmcnabb/farewatch/pkg/fare"
	"github.com/rmcnabb/farewatch/pkg/httputil"
)

// Query is the unit of work sent to a Searcher: one concrete
// (origin, destination, departure, return, cabin) tuple. Queries are
// independent and stateless; no query depends on the result of another.
type Query struct {
	Origin      string
	Destination string
	DepartDate  time.Time
	ReturnDate  time.Time
	Cabin       fare.Cabin
	FlexDays    int // provider may substitute dates within this tolerance
}

// Nights returns the stay length the query asks for.
func (q Query) Nights() int {
	return int(q.ReturnDate.Sub(q.DepartDate) / (24 * time.Hour))
}

// RawPayload is the opaque structured response for one query. Its schema is
// provider-specific and may omit fields; only the normalizer looks inside.
type RawPayload = json.RawMessage

// Searcher executes one search query against an external fare service.
//
// Implementations own their retry policy and politeness pacing. Search must
// be safe for concurrent use: the scan runner fans queries out across
// workers sharing one Searcher.
type Searcher interface {
	Search(ctx context.Context, q Query) (RawPayload, error)
}

// Error constructors for the provider failure taxonomy. Transient and
// rate-limited errors are additionally marked retryable so the adapter's
// retry policy re-attempts them; the others fail fast.

// AuthError reports invalid or missing credentials. Fatal for the run.
func AuthError(cause error) error {
	return errors.Wrap(errors.ErrCodeUnauthorized, cause, "provider authentication failed")
}

// NotFoundError reports a query for which the provider has no fares.
func NotFoundError(q Query) error {
	return errors.New(errors.ErrCodeNotFound, "no fares for %s->%s %s",
		q.Origin, q.Destination, q.DepartDate.Format(fare.DateLayout))
}

// MalformedError reports a response that could not be parsed as structured data.
func MalformedError(cause error) error {
	return errors.Wrap(errors.ErrCodeMalformed, cause, "provider response is not valid JSON")
}

// RateLimitError reports upstream throttling. Retryable.
func RateLimitError() error {
	return httputil.Retryable(errors.New(errors.ErrCodeRateLimited, "provider rate limit hit"))
}

// TransientError reports a network-level or 5xx failure. Retryable.
func TransientError(cause error) error {
	return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, cause, "provider request failed"))
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return errors.Is(err, errors.ErrCodeUnauthorized) }

// IsNotFound reports whether err means "zero offers", not a real failure.
func IsNotFound(err error) bool { return errors.Is(err, errors.ErrCodeNotFound) }

// IsMalformed reports whether err is an unparseable-response failure.
func IsMalformed(err error) bool { return errors.Is(err, errors.ErrCodeMalformed) }
