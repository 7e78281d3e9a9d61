package shipping

import (
	"context"
	"errors"
)

// ---------------------------------------------------------------------------
// Provider Errors
// ---------------------------------------------------------------------------

var (
	ErrProviderNotConfigured   = errors.New("shipping: provider not configured")
	ErrProviderUnavailable     = errors.New("shipping: provider temporarily unavailable")
	ErrProviderRequestFailed   = errors.New("shipping: provider request failed")
	ErrProviderInvalidResponse = errors.New("shipping: invalid provider response")
	ErrProviderAuthFailed      = errors.New("shipping: provider authentication failed")
	ErrProviderRejected        = errors.New("shipping: provider rejected the shipment")
	ErrProviderPanicked        = errors.New("shipping: provider panicked")
)

// ---------------------------------------------------------------------------
// ProviderCode identifies a courier rate provider
// ---------------------------------------------------------------------------

// ProviderCode identifies a courier rate provider
type ProviderCode string

const (
	// ProviderFedEx is the FedEx rate-quote API (OAuth2 client credentials)
	ProviderFedEx ProviderCode = "fedex"
	// ProviderDelhivery is the Delhivery domestic carrier API (static token)
	ProviderDelhivery ProviderCode = "delhivery"
	// ProviderShiprocket is the Shiprocket marketplace aggregator (login token)
	ProviderShiprocket ProviderCode = "shiprocket"
)

// IsValid returns true if the provider code is known
func (c ProviderCode) IsValid() bool {
	switch c {
	case ProviderFedEx, ProviderDelhivery, ProviderShiprocket:
		return true
	default:
		return false
	}
}

func (c ProviderCode) String() string {
	return string(c)
}

// DisplayName returns the courier name shown to users
func (c ProviderCode) DisplayName() string {
	switch c {
	case ProviderFedEx:
		return "FedEx"
	case ProviderDelhivery:
		return "Delhivery"
	case ProviderShiprocket:
		return "Shiprocket"
	default:
		return string(c)
	}
}

// WeightUnit returns the unit the provider reports charged weight in.
// Delhivery bills in grams, the others in kilograms.
func (c ProviderCode) WeightUnit() string {
	if c == ProviderDelhivery {
		return "g"
	}
	return "kg"
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// RateProvider quotes summary rates for a shipment.
//
// Implementations return (nil, nil) when they intentionally contribute nothing
// and a non-nil error for any failure. Callers treat both as zero rates.
type RateProvider interface {
	Code() ProviderCode
	GetRates(ctx context.Context, req RateRequest) ([]CourierRate, error)
}

// DetailedRateProvider quotes itemized rates for a shipment.
// The same (nil, nil) skip contract as RateProvider applies.
type DetailedRateProvider interface {
	Code() ProviderCode
	GetDetailedRates(ctx context.Context, req DetailedRateRequest) ([]ShippingRate, error)
}

// QuoteRecorder persists a snapshot of an aggregated quote
type QuoteRecorder interface {
	Record(ctx context.Context, snapshot *QuoteSnapshot) error
}

// QuoteHistory reads recorded snapshots, newest first
type QuoteHistory interface {
	ListRecent(ctx context.Context, origin, destination string, limit int) ([]*QuoteSnapshot, error)
}
