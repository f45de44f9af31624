package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// Config carries the provider settings the client needs.
type Config struct {
	BaseURL string // e.g. "https://api.twelvedata.com"
	APIKey  string
	// BaseDelay is the backoff unit after a rate-limit response; the wait
	// before attempt n is BaseDelay * n (the provider enforces a per-minute
	// budget, so the observed useful base is just over a minute).
	BaseDelay time.Duration
	// MaxAttempts bounds in-call retries after rate-limit responses. This is
	// distinct from the job-level retry count, which spans invocations.
	MaxAttempts int
}

// Client queries the Twelve Data exchange_rate endpoint. It is constructed
// explicitly and injected into the worker, never a package global, so tests
// can point it at a local server.
type Client struct {
	baseURL     string
	apiKey      string
	baseDelay   time.Duration
	maxAttempts int
	httpClient  *http.Client
}

// NewClient creates a provider client. A nil httpClient gets a default with
// a request timeout; zero backoff settings get operational defaults.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 61 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		baseDelay:   cfg.BaseDelay,
		maxAttempts: cfg.MaxAttempts,
		httpClient:  httpClient,
	}
}

// FetchRates queries the provider for the given pairs on one date and
// normalizes the cardinality-dependent response into a flat quote list. A
// pair the provider has no data for is absent from the result, not an error.
// Rate-limit responses are retried with linear backoff up to the configured
// attempt budget; the sleeps honour ctx cancellation.
func (c *Client) FetchRates(ctx context.Context, pairs []string, date time.Time) ([]portssvc.RateQuote, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		quotes, err := c.fetchOnce(ctx, pairs, date)
		if err == nil {
			return quotes, nil
		}
		lastErr = err

		if !isRateLimit(err) || attempt == c.maxAttempts {
			return nil, err
		}

		delay := time.Duration(attempt) * c.baseDelay
		logger.Warn("Provider rate limit hit, backing off",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("date", date.Format("2006-01-02")))
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, pairs []string, date time.Time) ([]portssvc.RateQuote, error) {
	endpoint := fmt.Sprintf("%s/exchange_rate?symbol=%s&date=%s&apikey=%s",
		c.baseURL,
		url.QueryEscape(strings.Join(pairs, ",")),
		date.Format("2006-01-02"),
		url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	return parseResponse(body, pairs, date)
}

// apiEnvelope probes the error shape the provider embeds in an otherwise
// 200-status body. A non-zero code means the call failed.
type apiEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// singleRateResponse is the shape of a single-pair query result.
type singleRateResponse struct {
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

// multiRateEntry is one value of the pair-keyed map a multi-pair query returns.
type multiRateEntry struct {
	Rate decimal.Decimal `json:"rate"`
}

// parseResponse resolves the provider's two response shapes exactly once, at
// this boundary: a single-pair query returns one rate object, a multi-pair
// query returns a map keyed by pair symbol. Downstream code only ever sees
// the uniform quote list.
func parseResponse(body []byte, pairs []string, date time.Time) ([]portssvc.RateQuote, error) {
	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &portssvc.PermanentProviderError{Detail: "response is not valid JSON"}
	}
	if envelope.Code != 0 {
		if envelope.Code == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %s", portssvc.ErrRateLimited, envelope.Message)
		}
		if envelope.Code >= 500 {
			return nil, fmt.Errorf("provider error %d: %s", envelope.Code, envelope.Message)
		}
		return nil, &portssvc.PermanentProviderError{
			Detail: fmt.Sprintf("provider rejected request with code %d: %s", envelope.Code, envelope.Message),
		}
	}

	if len(pairs) == 1 {
		var single singleRateResponse
		if err := json.Unmarshal(body, &single); err != nil || single.Symbol == "" {
			return nil, &portssvc.PermanentProviderError{Pair: pairs[0], Detail: "unexpected single-pair response shape"}
		}
		quote, err := quoteFromSymbol(single.Symbol, single.Rate, date)
		if err != nil {
			return nil, err
		}
		return []portssvc.RateQuote{quote}, nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(body, &keyed); err != nil {
		return nil, &portssvc.PermanentProviderError{Detail: "unexpected multi-pair response shape"}
	}

	quotes := make([]portssvc.RateQuote, 0, len(pairs))
	for _, pair := range pairs {
		raw, ok := keyed[pair]
		if !ok {
			// Provider has no data for this pair on this date; drop it.
			continue
		}
		var entry multiRateEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, &portssvc.PermanentProviderError{Pair: pair, Detail: "unexpected rate entry shape"}
		}
		quote, err := quoteFromSymbol(pair, entry.Rate, date)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

func quoteFromSymbol(symbol string, rate decimal.Decimal, date time.Time) (portssvc.RateQuote, error) {
	from, to, ok := strings.Cut(symbol, "/")
	if !ok || from == "" || to == "" {
		return portssvc.RateQuote{}, &portssvc.PermanentProviderError{Pair: symbol, Detail: "symbol is not a currency pair"}
	}
	return portssvc.RateQuote{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Date:         date,
	}, nil
}

func isRateLimit(err error) bool {
	return errors.Is(err, portssvc.ErrRateLimited)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
