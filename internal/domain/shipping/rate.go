package shipping

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is the domestic currency used when a provider omits or garbles one
const DefaultCurrency = "INR"

// ServiceStandard is the generic service label for providers without service tiers
const ServiceStandard = "Standard"

// CourierRate is a normalized summary quote
type CourierRate struct {
	CourierName          string
	ServiceName          string
	Rate                 decimal.Decimal
	Currency             string
	ExpectedDeliveryDate string
	// Error is set only on degraded records; hard failures are omitted instead.
	Error string
}

// ChargeCode identifies an itemized surcharge component on a detailed quote
type ChargeCode string

const (
	ChargeAIR       ChargeCode = "AIR"
	ChargeAWB       ChargeCode = "AWB"
	ChargeCCOD      ChargeCode = "CCOD"
	ChargeCNC       ChargeCode = "CNC"
	ChargeCOD       ChargeCode = "COD"
	ChargeCOVID     ChargeCode = "COVID"
	ChargeCWH       ChargeCode = "CWH"
	ChargeDEMUR     ChargeCode = "DEMUR"
	ChargeDL        ChargeCode = "DL"
	ChargeDOCUMENT  ChargeCode = "DOCUMENT"
	ChargeDPH       ChargeCode = "DPH"
	ChargeDTO       ChargeCode = "DTO"
	ChargeE2E       ChargeCode = "E2E"
	ChargeFOD       ChargeCode = "FOD"
	ChargeFOV       ChargeCode = "FOV"
	ChargeFS        ChargeCode = "FS"
	ChargeFSC       ChargeCode = "FSC"
	ChargeINS       ChargeCode = "INS"
	ChargeLM        ChargeCode = "LM"
	ChargeMPS       ChargeCode = "MPS"
	ChargePICKUP    ChargeCode = "pickup"
	ChargePOD       ChargeCode = "POD"
	ChargeQC        ChargeCode = "QC"
	ChargeREATTEMPT ChargeCode = "REATTEMPT"
	ChargeROV       ChargeCode = "ROV"
	ChargeRTO       ChargeCode = "RTO"
	ChargeWOD       ChargeCode = "WOD"
)

// AllChargeCodes lists every itemized charge code in display order
var AllChargeCodes = []ChargeCode{
	ChargeAIR, ChargeAWB, ChargeCCOD, ChargeCNC, ChargeCOD, ChargeCOVID, ChargeCWH,
	ChargeDEMUR, ChargeDL, ChargeDOCUMENT, ChargeDPH, ChargeDTO, ChargeE2E, ChargeFOD,
	ChargeFOV, ChargeFS, ChargeFSC, ChargeINS, ChargeLM, ChargeMPS, ChargePICKUP,
	ChargePOD, ChargeQC, ChargeREATTEMPT, ChargeROV, ChargeRTO, ChargeWOD,
}

// ShippingRate is a normalized itemized quote.
// Absent charges mean "not applicable", never "unknown".
type ShippingRate struct {
	CourierCompanyID      int
	CourierName           string
	TotalAmount           decimal.Decimal
	GrossAmount           decimal.NullDecimal
	EstimatedDeliveryDays string
	Charges               map[ChargeCode]decimal.Decimal
	CODCharges            decimal.NullDecimal
	FreightCharge         decimal.NullDecimal
	OtherCharges          decimal.NullDecimal
	ChargedWeight         decimal.NullDecimal
	Zone                  string
	Status                string
	TaxData               map[string]decimal.Decimal
	// Provider is set by the normalizer, never taken from a provider payload.
	Provider ProviderCode
}

// Charge returns the amount for code and whether it applies
func (r ShippingRate) Charge(code ChargeCode) (decimal.Decimal, bool) {
	amount, ok := r.Charges[code]
	return amount, ok
}

// TotalTax sums all tax components
func (r ShippingRate) TotalTax() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range r.TaxData {
		total = total.Add(amount)
	}
	return total
}

// NormalizeCurrency returns an upper-case ISO 4217 code, falling back to DefaultCurrency
func NormalizeCurrency(code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return DefaultCurrency
	}
	return unit.String()
}

// SortCourierRates sorts ascending by rate; equal rates keep their order.
func SortCourierRates(rates []CourierRate) {
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].Rate.LessThan(rates[j].Rate)
	})
}

// SortShippingRates sorts ascending by total amount; equal amounts keep their order.
func SortShippingRates(rates []ShippingRate) {
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].TotalAmount.LessThan(rates[j].TotalAmount)
	})
}

// CheapestCourierRate returns the lowest-priced rate. The first wins on ties.
func CheapestCourierRate(rates []CourierRate) (CourierRate, bool) {
	if len(rates) == 0 {
		return CourierRate{}, false
	}
	best := rates[0]
	for _, r := range rates[1:] {
		if r.Rate.LessThan(best.Rate) {
			best = r
		}
	}
	return best, true
}

// CheapestShippingRate returns the lowest total amount. The first wins on ties.
func CheapestShippingRate(rates []ShippingRate) (ShippingRate, bool) {
	if len(rates) == 0 {
		return ShippingRate{}, false
	}
	best := rates[0]
	for _, r := range rates[1:] {
		if r.TotalAmount.LessThan(best.TotalAmount) {
			best = r
		}
	}
	return best, true
}
