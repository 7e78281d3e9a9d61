package shipping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/courierdash/backend/internal/domain/shipping"
	"github.com/courierdash/backend/internal/infrastructure/logger"
	"github.com/courierdash/backend/internal/infrastructure/telemetry"
)

// DefaultProviderTimeout bounds a single provider call
const DefaultProviderTimeout = 5 * time.Second

// RateAggregator queries every configured provider concurrently and merges
// their quotes into one list sorted cheapest first. A provider that fails,
// times out or panics contributes zero rates and never affects the others.
type RateAggregator struct {
	providers         []shipping.RateProvider
	detailedProviders []shipping.DetailedRateProvider
	timeout           time.Duration
	logger            *zap.Logger
	metrics           *telemetry.RateMetrics
}

// AggregatorOption configures a RateAggregator
type AggregatorOption func(*RateAggregator)

// WithProviderTimeout sets the per-provider deadline. Non-positive values keep the default.
func WithProviderTimeout(d time.Duration) AggregatorOption {
	return func(a *RateAggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithAggregatorLogger sets the fallback logger used when the request context carries none
func WithAggregatorLogger(l *zap.Logger) AggregatorOption {
	return func(a *RateAggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRateMetrics enables provider call metrics
func WithRateMetrics(m *telemetry.RateMetrics) AggregatorOption {
	return func(a *RateAggregator) {
		a.metrics = m
	}
}

// NewRateAggregator creates a RateAggregator over the given providers.
// Provider order is the tie-break order of the merged result.
func NewRateAggregator(
	providers []shipping.RateProvider,
	detailedProviders []shipping.DetailedRateProvider,
	opts ...AggregatorOption,
) *RateAggregator {
	a := &RateAggregator{
		providers:         providers,
		detailedProviders: detailedProviders,
		timeout:           DefaultProviderTimeout,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetAllRates returns the summary quotes of every provider sorted by rate.
// The result is never nil; it is empty when no provider produced a quote.
func (a *RateAggregator) GetAllRates(ctx context.Context, req shipping.RateRequest) []shipping.CourierRate {
	ctx, span := telemetry.StartServiceSpan(ctx, "rates", "get_all_rates")
	defer span.End()

	jobs := make([]providerJob[shipping.CourierRate], len(a.providers))
	for i, p := range a.providers {
		jobs[i] = providerJob[shipping.CourierRate]{
			code: p.Code(),
			call: func(ctx context.Context) ([]shipping.CourierRate, error) {
				return p.GetRates(ctx, req)
			},
		}
	}

	rates := collect(ctx, a, shipping.QuoteModeSummary, jobs)
	shipping.SortCourierRates(rates)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrigin, req.OriginPincode,
		telemetry.SpanAttrDestination, req.DestinationPincode,
		telemetry.SpanAttrRateCount, len(rates),
	)
	a.metrics.RecordQuote(ctx, string(shipping.QuoteModeSummary), len(rates) > 0)
	return rates
}

// GetDetailedRates returns the itemized quotes of every detailed provider sorted by total amount.
// Each rate carries the code of the provider that produced it.
func (a *RateAggregator) GetDetailedRates(ctx context.Context, req shipping.DetailedRateRequest) []shipping.ShippingRate {
	ctx, span := telemetry.StartServiceSpan(ctx, "rates", "get_detailed_rates")
	defer span.End()

	req = req.WithDefaults()
	jobs := make([]providerJob[shipping.ShippingRate], len(a.detailedProviders))
	for i, p := range a.detailedProviders {
		code := p.Code()
		jobs[i] = providerJob[shipping.ShippingRate]{
			code: code,
			call: func(ctx context.Context) ([]shipping.ShippingRate, error) {
				rates, err := p.GetDetailedRates(ctx, req)
				for j := range rates {
					rates[j].Provider = code
				}
				return rates, err
			},
		}
	}

	rates := collect(ctx, a, shipping.QuoteModeDetailed, jobs)
	shipping.SortShippingRates(rates)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrigin, req.OriginPincode,
		telemetry.SpanAttrDestination, req.DestinationPincode,
		telemetry.SpanAttrRateCount, len(rates),
	)
	a.metrics.RecordQuote(ctx, string(shipping.QuoteModeDetailed), len(rates) > 0)
	return rates
}

// ProviderCodes lists the configured summary and detailed providers
func (a *RateAggregator) ProviderCodes() (summary, detailed []shipping.ProviderCode) {
	summary = make([]shipping.ProviderCode, len(a.providers))
	for i, p := range a.providers {
		summary[i] = p.Code()
	}
	detailed = make([]shipping.ProviderCode, len(a.detailedProviders))
	for i, p := range a.detailedProviders {
		detailed[i] = p.Code()
	}
	return summary, detailed
}

// ---------------------------------------------------------------------------
// Fan-out
// ---------------------------------------------------------------------------

type providerJob[T any] struct {
	code shipping.ProviderCode
	call func(ctx context.Context) ([]T, error)
}

// collect runs every job concurrently and concatenates the results in job order.
func collect[T any](ctx context.Context, a *RateAggregator, mode shipping.QuoteMode, jobs []providerJob[T]) []T {
	results := make([][]T, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run(ctx, a, mode, job)
		}()
	}
	wg.Wait()

	merged := make([]T, 0)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

func run[T any](ctx context.Context, a *RateAggregator, mode shipping.QuoteMode, job providerJob[T]) []T {
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	callCtx, span := telemetry.StartProviderSpan(callCtx, job.code.String(), string(mode))
	defer span.End()

	rates, err := await(callCtx, mode, job)
	elapsed := time.Since(start)

	log := logger.WithLogger(callCtx, a.logger).With(
		zap.String("provider", job.code.String()),
		zap.String("mode", string(mode)),
		zap.Duration("elapsed", elapsed),
	)

	if err != nil {
		outcome := outcomeOf(callCtx, err)
		telemetry.RecordError(span, err)
		a.metrics.RecordProviderCall(ctx, job.code.String(), string(mode), outcome, elapsed, 0)
		log.Warn("Courier provider failed", zap.String("outcome", outcome), zap.Error(err))
		return nil
	}

	outcome := telemetry.OutcomeSuccess
	if rates == nil {
		outcome = telemetry.OutcomeSkipped
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRateCount, len(rates))
	a.metrics.RecordProviderCall(ctx, job.code.String(), string(mode), outcome, elapsed, len(rates))
	log.Debug("Courier provider answered", zap.String("outcome", outcome), zap.Int("rates", len(rates)))
	return rates
}

type callResult[T any] struct {
	rates []T
	err   error
}

// await returns when the job does or when ctx ends, whichever comes first.
// A provider that ignores ctx keeps running in the background and its late
// answer is dropped.
func await[T any](ctx context.Context, mode shipping.QuoteMode, job providerJob[T]) ([]T, error) {
	done := make(chan callResult[T], 1)
	go telemetry.WithProviderLabels(ctx, job.code.String(), string(mode), func(ctx context.Context) {
		rates, err := safeCall(ctx, job)
		done <- callResult[T]{rates: rates, err: err}
	})

	select {
	case r := <-done:
		return r.rates, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", shipping.ErrProviderUnavailable, ctx.Err())
	}
}

// safeCall invokes the job and converts a panic into ErrProviderPanicked.
func safeCall[T any](ctx context.Context, job providerJob[T]) (rates []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			rates = nil
			err = fmt.Errorf("%w: %v", shipping.ErrProviderPanicked, r)
		}
	}()
	return job.call(ctx)
}

func outcomeOf(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, shipping.ErrProviderPanicked):
		return telemetry.OutcomePanic
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return telemetry.OutcomeTimeout
	default:
		return telemetry.OutcomeFailed
	}
}
