package courier

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

type ShiprocketLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ShiprocketLoginResponse struct {
	Token     string `json:"token"`
	CompanyID int    `json:"company_id,omitempty"`
}

// ---------------------------------------------------------------------------
// Serviceability
// ---------------------------------------------------------------------------

// ShiprocketServiceabilityResponse lists courier partners able to carry a shipment
type ShiprocketServiceabilityResponse struct {
	Status  int                           `json:"status"`
	Message string                        `json:"message,omitempty"`
	Data    *ShiprocketServiceabilityData `json:"data"`
}

// IsSuccess returns true unless the body reports a failing status
func (r *ShiprocketServiceabilityResponse) IsSuccess() bool {
	return r.Status == 0 || (r.Status >= 200 && r.Status < 300)
}

// Companies returns the available courier companies, or nil
func (r *ShiprocketServiceabilityResponse) Companies() []ShiprocketCourierCompany {
	if r.Data == nil {
		return nil
	}
	return r.Data.AvailableCourierCompanies
}

type ShiprocketServiceabilityData struct {
	AvailableCourierCompanies []ShiprocketCourierCompany `json:"available_courier_companies"`
}

// ShiprocketCourierCompany is one courier partner quote
type ShiprocketCourierCompany struct {
	CourierCompanyID      int                 `json:"courier_company_id"`
	CourierName           string              `json:"courier_name"`
	Rate                  decimal.NullDecimal `json:"rate"`
	CODCharges            decimal.NullDecimal `json:"cod_charges"`
	FreightCharge         decimal.NullDecimal `json:"freight_charge"`
	OtherCharges          decimal.NullDecimal `json:"other_charges"`
	EstimatedDeliveryDays flexString          `json:"estimated_delivery_days"`
	ETD                   string              `json:"etd"`
	ChargeWeight          decimal.NullDecimal `json:"charge_weight"`
	Zone                  string              `json:"zone"`
	IsSurface             bool                `json:"is_surface"`
}

// deliveryType classifies the partner's transport mode
func (c *ShiprocketCourierCompany) deliveryType() string {
	if c.IsSurface {
		return "SURFACE"
	}
	return "AIR"
}
