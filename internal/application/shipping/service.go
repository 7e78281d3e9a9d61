package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/courierdash/backend/internal/domain/shipping"
	"github.com/courierdash/backend/internal/infrastructure/logger"
)

var (
	// ErrInvalidRequest wraps every request validation failure
	ErrInvalidRequest = errors.New("shipping: invalid rate request")
	// ErrNoRatesFound is returned when no provider produced a quote
	ErrNoRatesFound = errors.New("shipping: no rates found")
	// ErrHistoryDisabled is returned when quote history is not configured
	ErrHistoryDisabled = errors.New("shipping: quote history is disabled")
)

// RateCalculationService turns API requests into aggregated quotes
// and records each outcome when a recorder is configured.
type RateCalculationService struct {
	aggregator *RateAggregator
	recorder   shipping.QuoteRecorder
	history    shipping.QuoteHistory
	logger     *zap.Logger
	now        func() time.Time
}

// ServiceOption configures a RateCalculationService
type ServiceOption func(*RateCalculationService)

// WithQuoteRecorder records a snapshot of every aggregated quote
func WithQuoteRecorder(r shipping.QuoteRecorder) ServiceOption {
	return func(s *RateCalculationService) {
		s.recorder = r
	}
}

// WithQuoteHistory enables RecentQuotes
func WithQuoteHistory(h shipping.QuoteHistory) ServiceOption {
	return func(s *RateCalculationService) {
		s.history = h
	}
}

// WithServiceLogger sets the fallback logger
func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *RateCalculationService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewRateCalculationService creates a new RateCalculationService
func NewRateCalculationService(aggregator *RateAggregator, opts ...ServiceOption) *RateCalculationService {
	s := &RateCalculationService{
		aggregator: aggregator,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CalculateRates validates the request, queries every provider and returns
// the quotes cheapest first. ErrNoRatesFound is returned when nothing came back.
func (s *RateCalculationService) CalculateRates(ctx context.Context, body CalculateRatesRequest) (*RatesResponse, error) {
	req := body.ToDomain()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	rates := s.aggregator.GetAllRates(ctx, req)
	s.record(ctx, shipping.NewSummarySnapshot(req, rates, s.now()))

	if len(rates) == 0 {
		return nil, ErrNoRatesFound
	}

	resp := &RatesResponse{Rates: make([]CourierRateResponse, len(rates))}
	for i, r := range rates {
		resp.Rates[i] = ToCourierRateResponse(r)
	}
	if best, ok := shipping.CheapestCourierRate(rates); ok {
		cheapest := ToCourierRateResponse(best)
		resp.Cheapest = &cheapest
	}
	return resp, nil
}

// CalculateDetailedRates is CalculateRates for itemized quotes
func (s *RateCalculationService) CalculateDetailedRates(ctx context.Context, body DetailedRatesRequest) (*DetailedRatesResponse, error) {
	req := body.ToDomain()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	rates := s.aggregator.GetDetailedRates(ctx, req)
	s.record(ctx, shipping.NewDetailedSnapshot(req, rates, s.now()))

	if len(rates) == 0 {
		return nil, ErrNoRatesFound
	}

	resp := &DetailedRatesResponse{Rates: make([]ShippingRateResponse, len(rates))}
	for i, r := range rates {
		resp.Rates[i] = ToShippingRateResponse(r)
	}
	if best, ok := shipping.CheapestShippingRate(rates); ok {
		cheapest := ToShippingRateResponse(best)
		resp.Cheapest = &cheapest
	}
	return resp, nil
}

// RecentQuotes lists recorded quotes, newest first. Empty pincodes match any lane.
func (s *RateCalculationService) RecentQuotes(ctx context.Context, origin, destination string, limit int) ([]QuoteHistoryResponse, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}

	snapshots, err := s.history.ListRecent(ctx, origin, destination, limit)
	if err != nil {
		return nil, err
	}

	items := make([]QuoteHistoryResponse, len(snapshots))
	for i, snap := range snapshots {
		items[i] = ToQuoteHistoryResponse(snap)
	}
	return items, nil
}

// HistoryEnabled reports whether RecentQuotes can serve requests
func (s *RateCalculationService) HistoryEnabled() bool {
	return s.history != nil
}

// record never fails the quote; errors are only logged.
func (s *RateCalculationService) record(ctx context.Context, snapshot *shipping.QuoteSnapshot) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, snapshot); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to record quote",
			zap.String("quote_id", snapshot.ID.String()),
			zap.String("mode", string(snapshot.Mode)),
			zap.Error(err),
		)
	}
}
