package shipping

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingOriginPincode      = errors.New("shipping: origin pincode is required")
	ErrMissingDestinationPincode = errors.New("shipping: destination pincode is required")
	ErrInvalidWeight             = errors.New("shipping: weight must be positive")
	ErrInvalidDimension          = errors.New("shipping: dimensions must be positive when set")
	ErrInvalidDeclaredValue      = errors.New("shipping: declared value cannot be negative")
	ErrInvalidPaymentType        = errors.New("shipping: invalid payment type")
	ErrInvalidBillingMode        = errors.New("shipping: invalid billing mode")
	ErrInvalidPieces             = errors.New("shipping: pieces cannot be negative")
)

// DefaultDimensionCM is used for any package dimension a provider requires but the caller left unset
var DefaultDimensionCM = decimal.NewFromInt(10)

var gramsPerKilogram = decimal.NewFromInt(1000)

// PaymentType is how the consignee pays for the shipment
type PaymentType string

const (
	PaymentTypePrepaid PaymentType = "Prepaid"
	PaymentTypeCOD     PaymentType = "COD"
)

// IsValid returns true if the payment type is known
func (p PaymentType) IsValid() bool {
	return p == PaymentTypePrepaid || p == PaymentTypeCOD
}

// IsCOD reports whether the shipment is cash on delivery
func (p PaymentType) IsCOD() bool {
	return p == PaymentTypeCOD
}

// BillingMode is the carrier service speed tier
type BillingMode string

const (
	BillingModeExpress BillingMode = "Express"
	BillingModeSurface BillingMode = "Surface"
)

// IsValid returns true if the billing mode is known
func (m BillingMode) IsValid() bool {
	return m == BillingModeExpress || m == BillingModeSurface
}

// ShortCode returns the single-letter code carriers use for the mode
func (m BillingMode) ShortCode() string {
	if m == BillingModeSurface {
		return "S"
	}
	return "E"
}

// RateRequest describes one shipment to quote. Weight is in kilograms,
// dimensions in centimeters. A zero dimension means unset.
type RateRequest struct {
	OriginPincode      string
	DestinationPincode string
	Weight             decimal.Decimal
	Length             decimal.Decimal
	Width              decimal.Decimal
	Height             decimal.Decimal
	PaymentType        PaymentType
	DeclaredValue      decimal.Decimal
}

// Validate checks the invariants every provider relies on
func (r RateRequest) Validate() error {
	if strings.TrimSpace(r.OriginPincode) == "" {
		return ErrMissingOriginPincode
	}
	if strings.TrimSpace(r.DestinationPincode) == "" {
		return ErrMissingDestinationPincode
	}
	if !r.Weight.IsPositive() {
		return ErrInvalidWeight
	}
	for _, d := range []decimal.Decimal{r.Length, r.Width, r.Height} {
		if d.IsNegative() {
			return ErrInvalidDimension
		}
	}
	if r.DeclaredValue.IsNegative() {
		return ErrInvalidDeclaredValue
	}
	if !r.PaymentType.IsValid() {
		return ErrInvalidPaymentType
	}
	return nil
}

// Dimensions returns length, width and height, substituting DefaultDimensionCM for unset values.
func (r RateRequest) Dimensions() (length, width, height decimal.Decimal) {
	return orDefaultDimension(r.Length), orDefaultDimension(r.Width), orDefaultDimension(r.Height)
}

// WeightGrams returns the weight converted to grams without rounding.
func (r RateRequest) WeightGrams() decimal.Decimal {
	return r.Weight.Mul(gramsPerKilogram)
}

func orDefaultDimension(d decimal.Decimal) decimal.Decimal {
	if d.IsPositive() {
		return d
	}
	return DefaultDimensionCM
}

// DetailedRateRequest is a RateRequest plus the inputs itemized billing needs.
type DetailedRateRequest struct {
	RateRequest
	Pieces      int
	BillingMode BillingMode
	// ShipmentStatus is a courier lifecycle hint such as "Delivered", "RTO" or "DTO".
	// Providers that require it skip the query when it is empty.
	ShipmentStatus string
}

// WithDefaults returns a copy with Pieces defaulted to 1 and BillingMode to Express
func (r DetailedRateRequest) WithDefaults() DetailedRateRequest {
	if r.Pieces == 0 {
		r.Pieces = 1
	}
	if r.BillingMode == "" {
		r.BillingMode = BillingModeExpress
	}
	return r
}

// Validate checks the base request plus the detailed-mode fields
func (r DetailedRateRequest) Validate() error {
	if err := r.RateRequest.Validate(); err != nil {
		return err
	}
	if r.Pieces < 0 {
		return ErrInvalidPieces
	}
	if r.BillingMode != "" && !r.BillingMode.IsValid() {
		return ErrInvalidBillingMode
	}
	return nil
}

// WeightGramsRounded returns the weight in grams rounded to the nearest integer.
func (r DetailedRateRequest) WeightGramsRounded() decimal.Decimal {
	return r.WeightGrams().Round(0)
}
