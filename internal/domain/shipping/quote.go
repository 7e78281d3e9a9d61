package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteMode distinguishes summary from itemized quotes
type QuoteMode string

const (
	QuoteModeSummary  QuoteMode = "summary"
	QuoteModeDetailed QuoteMode = "detailed"
)

// QuoteSnapshot is the persisted outcome of one aggregated quote
type QuoteSnapshot struct {
	ID                 uuid.UUID
	Mode               QuoteMode
	OriginPincode      string
	DestinationPincode string
	Weight             decimal.Decimal
	PaymentType        PaymentType
	RateCount          int
	CheapestCourier    string
	CheapestAmount     decimal.NullDecimal
	// CheapestProvider is only known for itemized quotes.
	CheapestProvider ProviderCode
	CreatedAt        time.Time
}

func newSnapshot(mode QuoteMode, req RateRequest, count int, now time.Time) *QuoteSnapshot {
	return &QuoteSnapshot{
		ID:                 uuid.New(),
		Mode:               mode,
		OriginPincode:      req.OriginPincode,
		DestinationPincode: req.DestinationPincode,
		Weight:             req.Weight,
		PaymentType:        req.PaymentType,
		RateCount:          count,
		CreatedAt:          now.UTC(),
	}
}

// NewSummarySnapshot builds a snapshot of a summary quote
func NewSummarySnapshot(req RateRequest, rates []CourierRate, now time.Time) *QuoteSnapshot {
	s := newSnapshot(QuoteModeSummary, req, len(rates), now)
	if best, ok := CheapestCourierRate(rates); ok {
		s.CheapestCourier = best.CourierName
		s.CheapestAmount = decimal.NewNullDecimal(best.Rate)
	}
	return s
}

// NewDetailedSnapshot builds a snapshot of an itemized quote
func NewDetailedSnapshot(req DetailedRateRequest, rates []ShippingRate, now time.Time) *QuoteSnapshot {
	s := newSnapshot(QuoteModeDetailed, req.RateRequest, len(rates), now)
	if best, ok := CheapestShippingRate(rates); ok {
		s.CheapestCourier = best.CourierName
		s.CheapestAmount = decimal.NewNullDecimal(best.TotalAmount)
		s.CheapestProvider = best.Provider
	}
	return s
}
