package shipping

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// LocationRequest identifies a pickup or delivery point
type LocationRequest struct {
	Pincode string `json:"pincode" binding:"required,pincode"`
}

// PackageRequest is one box of the shipment. Weight in kg, dimensions in cm.
type PackageRequest struct {
	Weight decimal.Decimal `json:"weight"`
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// CalculateRatesRequest is the body of a summary quote request
type CalculateRatesRequest struct {
	Origin        LocationRequest  `json:"origin" binding:"required"`
	Destination   LocationRequest  `json:"destination" binding:"required"`
	Packages      []PackageRequest `json:"packages" binding:"required,min=1,dive"`
	PaymentType   string           `json:"paymentType" binding:"required,oneof=Prepaid COD"`
	DeclaredValue decimal.Decimal  `json:"declaredValue"`
}

// DetailedRatesRequest is the body of an itemized quote request
type DetailedRatesRequest struct {
	CalculateRatesRequest
	Pieces      int    `json:"pieces" binding:"omitempty,min=1"`
	BillingMode string `json:"billingMode" binding:"omitempty,oneof=Express Surface"`
	Status      string `json:"status" binding:"omitempty,max=50"`
}

// ToDomain sums package weights and takes the dimensions of the first package.
// Providers quote a single box, so the remaining dimensions are dropped.
func (r CalculateRatesRequest) ToDomain() shipping.RateRequest {
	req := shipping.RateRequest{
		OriginPincode:      r.Origin.Pincode,
		DestinationPincode: r.Destination.Pincode,
		Weight:             decimal.Zero,
		PaymentType:        shipping.PaymentType(r.PaymentType),
		DeclaredValue:      r.DeclaredValue,
	}
	for _, p := range r.Packages {
		req.Weight = req.Weight.Add(p.Weight)
	}
	if len(r.Packages) > 0 {
		first := r.Packages[0]
		req.Length, req.Width, req.Height = first.Length, first.Width, first.Height
	}
	return req
}

// ToDomain converts the body into a detailed request with defaults applied
func (r DetailedRatesRequest) ToDomain() shipping.DetailedRateRequest {
	return shipping.DetailedRateRequest{
		RateRequest:    r.CalculateRatesRequest.ToDomain(),
		Pieces:         r.Pieces,
		BillingMode:    shipping.BillingMode(r.BillingMode),
		ShipmentStatus: r.Status,
	}.WithDefaults()
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CourierRateResponse is a summary quote in API responses
type CourierRateResponse struct {
	CourierName          string      `json:"courierName"`
	ServiceName          string      `json:"serviceName"`
	Rate                 json.Number `json:"rate"`
	Currency             string      `json:"currency"`
	ExpectedDeliveryDate string      `json:"expectedDeliveryDate,omitempty"`
	Error                string      `json:"error,omitempty"`
}

// ToCourierRateResponse converts a domain rate
func ToCourierRateResponse(r shipping.CourierRate) CourierRateResponse {
	return CourierRateResponse{
		CourierName:          r.CourierName,
		ServiceName:          r.ServiceName,
		Rate:                 number(r.Rate),
		Currency:             r.Currency,
		ExpectedDeliveryDate: r.ExpectedDeliveryDate,
		Error:                r.Error,
	}
}

// RatesResponse is the payload of a summary quote
type RatesResponse struct {
	Rates    []CourierRateResponse `json:"rates"`
	Cheapest *CourierRateResponse  `json:"cheapest,omitempty"`
}

// ShippingRateResponse is an itemized quote in API responses.
// Charges are emitted as flat charge_<CODE> fields.
type ShippingRateResponse struct {
	CourierCompanyID      int                                     `json:"courier_company_id"`
	CourierName           string                                  `json:"courier_name"`
	TotalAmount           json.Number                             `json:"total_amount"`
	GrossAmount           *json.Number                            `json:"gross_amount,omitempty"`
	EstimatedDeliveryDays string                                  `json:"estimated_delivery_days"`
	Charges               map[shipping.ChargeCode]decimal.Decimal `json:"-"`
	CODCharges            *json.Number                            `json:"cod_charges,omitempty"`
	FreightCharge         *json.Number                            `json:"freight_charge,omitempty"`
	OtherCharges          *json.Number                            `json:"other_charges,omitempty"`
	ChargedWeight         *json.Number                            `json:"charged_weight,omitempty"`
	WeightUnit            string                                  `json:"weight_unit"`
	Zone                  string                                  `json:"zone,omitempty"`
	Status                string                                  `json:"status,omitempty"`
	TaxData               map[string]json.Number                  `json:"tax_data,omitempty"`
	Provider              shipping.ProviderCode                   `json:"_provider"`
}

// MarshalJSON flattens Charges into charge_<CODE> keys
func (r ShippingRateResponse) MarshalJSON() ([]byte, error) {
	type plain ShippingRateResponse
	base, err := json.Marshal(plain(r))
	if err != nil || len(r.Charges) == 0 {
		return base, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for code, amount := range r.Charges {
		fields["charge_"+string(code)] = json.RawMessage(amount.String())
	}
	return json.Marshal(fields)
}

// ToShippingRateResponse converts a domain rate
func ToShippingRateResponse(r shipping.ShippingRate) ShippingRateResponse {
	resp := ShippingRateResponse{
		CourierCompanyID:      r.CourierCompanyID,
		CourierName:           r.CourierName,
		TotalAmount:           number(r.TotalAmount),
		GrossAmount:           nullNumber(r.GrossAmount),
		EstimatedDeliveryDays: r.EstimatedDeliveryDays,
		Charges:               r.Charges,
		CODCharges:            nullNumber(r.CODCharges),
		FreightCharge:         nullNumber(r.FreightCharge),
		OtherCharges:          nullNumber(r.OtherCharges),
		ChargedWeight:         nullNumber(r.ChargedWeight),
		WeightUnit:            r.Provider.WeightUnit(),
		Zone:                  r.Zone,
		Status:                r.Status,
		Provider:              r.Provider,
	}
	if len(r.TaxData) > 0 {
		resp.TaxData = make(map[string]json.Number, len(r.TaxData))
		for k, v := range r.TaxData {
			resp.TaxData[k] = number(v)
		}
	}
	return resp
}

// DetailedRatesResponse is the payload of an itemized quote
type DetailedRatesResponse struct {
	Rates    []ShippingRateResponse `json:"rates"`
	Cheapest *ShippingRateResponse  `json:"cheapest,omitempty"`
}

// QuoteHistoryResponse is one recorded quote
type QuoteHistoryResponse struct {
	ID                 uuid.UUID             `json:"id"`
	Mode               shipping.QuoteMode    `json:"mode"`
	OriginPincode      string                `json:"origin_pincode"`
	DestinationPincode string                `json:"destination_pincode"`
	Weight             json.Number           `json:"weight"`
	PaymentType        shipping.PaymentType  `json:"payment_type"`
	RateCount          int                   `json:"rate_count"`
	CheapestCourier    string                `json:"cheapest_courier,omitempty"`
	CheapestAmount     *json.Number          `json:"cheapest_amount,omitempty"`
	CheapestProvider   shipping.ProviderCode `json:"cheapest_provider,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}

// ToQuoteHistoryResponse converts a snapshot
func ToQuoteHistoryResponse(s *shipping.QuoteSnapshot) QuoteHistoryResponse {
	return QuoteHistoryResponse{
		ID:                 s.ID,
		Mode:               s.Mode,
		OriginPincode:      s.OriginPincode,
		DestinationPincode: s.DestinationPincode,
		Weight:             number(s.Weight),
		PaymentType:        s.PaymentType,
		RateCount:          s.RateCount,
		CheapestCourier:    s.CheapestCourier,
		CheapestAmount:     nullNumber(s.CheapestAmount),
		CheapestProvider:   s.CheapestProvider,
		CreatedAt:          s.CreatedAt,
	}
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func nullNumber(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := number(d.Decimal)
	return &n
}
