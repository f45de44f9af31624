package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrRateLimited is returned when the provider kept refusing the call for
// rate-limit reasons even after the adapter's in-call backoff budget was
// exhausted. The worker treats it as transient and requeues the job.
var ErrRateLimited = errors.New("rate provider: rate limit exceeded")

// PermanentProviderError marks a provider response the worker must not
// retry: a malformed or unexpected shape, or a request the provider
// definitively rejected. The offending pair and detail are kept for
// operator follow-up.
type PermanentProviderError struct {
	Pair   string
	Detail string
}

func (e *PermanentProviderError) Error() string {
	if e.Pair == "" {
		return fmt.Sprintf("rate provider: %s", e.Detail)
	}
	return fmt.Sprintf("rate provider: %s (pair %s)", e.Detail, e.Pair)
}

// RateQuote is one normalized provider quote: the raw rate for a pair on a
// date, already resolved out of the provider's cardinality-dependent response
// shapes at the parse boundary.
type RateQuote struct {
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	Date         time.Time
}

// RateProvider is the outbound port to the external rate provider. A pair
// requested but absent from the provider's response (no data) is simply
// missing from the returned quotes, not an error. Implementations handle
// provider rate limiting with in-call backoff and honour ctx cancellation
// while waiting.
type RateProvider interface {
	FetchRates(ctx context.Context, pairs []string, date time.Time) ([]RateQuote, error)
}
