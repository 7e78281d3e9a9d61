package courier

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// DelhiveryRateResponse is the rate-calculator response: one quote per call
type DelhiveryRateResponse struct {
	Rate    decimal.NullDecimal `json:"rate"`
	Error   errorFlag           `json:"error"`
	Message string              `json:"message,omitempty"`
}

// IsSuccess returns true if the response carries a rate and no error flag
func (r *DelhiveryRateResponse) IsSuccess() bool {
	return !r.Error.Set && r.Rate.Valid
}

// DelhiveryChargeBreakdown is one element of the invoice/charges response.
// Itemized charges arrive as "charge_<CODE>" keys and are collected into Charges.
type DelhiveryChargeBreakdown struct {
	TotalAmount   decimal.NullDecimal        `json:"total_amount"`
	GrossAmount   decimal.NullDecimal        `json:"gross_amount"`
	ChargedWeight decimal.NullDecimal        `json:"charged_weight"`
	Zone          string                     `json:"zone"`
	Status        string                     `json:"status"`
	TaxData       map[string]decimal.Decimal `json:"tax_data"`

	Charges map[shipping.ChargeCode]decimal.Decimal `json:"-"`
}

func (b *DelhiveryChargeBreakdown) UnmarshalJSON(data []byte) error {
	type alias DelhiveryChargeBreakdown
	var base alias
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	base.Charges = make(map[shipping.ChargeCode]decimal.Decimal)
	for _, code := range shipping.AllChargeCodes {
		value, ok := raw["charge_"+string(code)]
		if !ok {
			continue
		}
		var amount decimal.NullDecimal
		if err := json.Unmarshal(value, &amount); err != nil {
			return fmt.Errorf("charge_%s: %w", code, err)
		}
		if amount.Valid {
			base.Charges[code] = amount.Decimal
		}
	}

	*b = DelhiveryChargeBreakdown(base)
	return nil
}
