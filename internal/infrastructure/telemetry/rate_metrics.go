package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when RateMetrics is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Provider call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

// RateMetrics records upstream courier activity.
type RateMetrics struct {
	providerCalls    *Counter
	providerDuration *Histogram
	ratesReturned    *Counter
	quotes           *Counter
}

// NewRateMetrics registers the rate metrics on meter.
func NewRateMetrics(meter metric.Meter) (*RateMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &RateMetrics{}
	var err error

	m.providerCalls, err = NewCounter(meter,
		"courier_provider_calls_total",
		"Total number of upstream courier rate calls",
		"{calls}",
	)
	if err != nil {
		return nil, err
	}

	m.providerDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "courier_provider_call_duration_seconds",
		Description: "Latency of upstream courier rate calls",
		Unit:        "s",
		Boundaries:  ProviderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	m.ratesReturned, err = NewCounter(meter,
		"courier_rates_returned_total",
		"Total number of rates returned by upstream couriers",
		"{rates}",
	)
	if err != nil {
		return nil, err
	}

	m.quotes, err = NewCounter(meter,
		"courier_quotes_total",
		"Total number of aggregated quote requests",
		"{quotes}",
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordProviderCall records one provider invocation. Safe on a nil receiver.
func (m *RateMetrics) RecordProviderCall(ctx context.Context, provider, mode, outcome string, d time.Duration, rates int) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrProvider.String(provider),
		AttrQuoteMode.String(mode),
		AttrOutcome.String(outcome),
	}
	m.providerCalls.Inc(ctx, attrs...)
	m.providerDuration.RecordDuration(ctx, d, attrs...)
	if rates > 0 {
		m.ratesReturned.Add(ctx, int64(rates), AttrProvider.String(provider), AttrQuoteMode.String(mode))
	}
}

// RecordQuote records one aggregated request. Safe on a nil receiver.
func (m *RateMetrics) RecordQuote(ctx context.Context, mode string, found bool) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !found {
		outcome = OutcomeFailed
	}
	m.quotes.Inc(ctx, AttrQuoteMode.String(mode), AttrOutcome.String(outcome))
}
