package courier

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// OAuth
// ---------------------------------------------------------------------------

// FedExTokenResponse is the client-credentials grant response
type FedExTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	Scope       string `json:"scope,omitempty"`
}

// ---------------------------------------------------------------------------
// Rate Quote Request
// ---------------------------------------------------------------------------

// FedExRateRequest is the body of a rate-quote call
type FedExRateRequest struct {
	AccountNumber     FedExAccountNumber     `json:"accountNumber"`
	RequestedShipment FedExRequestedShipment `json:"requestedShipment"`
}

type FedExAccountNumber struct {
	Value string `json:"value"`
}

type FedExRequestedShipment struct {
	Shipper                   FedExParty             `json:"shipper"`
	Recipient                 FedExParty             `json:"recipient"`
	PickupType                string                 `json:"pickupType"`
	RateRequestType           []string               `json:"rateRequestType"`
	RequestedPackageLineItems []FedExPackageLineItem `json:"requestedPackageLineItems"`
}

type FedExParty struct {
	Address FedExAddress `json:"address"`
}

type FedExAddress struct {
	PostalCode  string `json:"postalCode"`
	CountryCode string `json:"countryCode"`
}

type FedExPackageLineItem struct {
	Weight     FedExWeight     `json:"weight"`
	Dimensions FedExDimensions `json:"dimensions"`
}

// FedExWeight is sent as a JSON number
type FedExWeight struct {
	Units string      `json:"units"`
	Value json.Number `json:"value"`
}

type FedExDimensions struct {
	Length json.Number `json:"length"`
	Width  json.Number `json:"width"`
	Height json.Number `json:"height"`
	Units  string      `json:"units"`
}

// ---------------------------------------------------------------------------
// Rate Quote Response
// ---------------------------------------------------------------------------

// FedExRateResponse is the rate-quote response
type FedExRateResponse struct {
	TransactionID string           `json:"transactionId"`
	Output        *FedExRateOutput `json:"output"`
	Errors        []FedExAPIError  `json:"errors,omitempty"`
}

type FedExRateOutput struct {
	RateReplyDetails []FedExRateReplyDetail `json:"rateReplyDetails"`
}

type FedExRateReplyDetail struct {
	ServiceType          string                     `json:"serviceType"`
	ServiceName          string                     `json:"serviceName"`
	RatedShipmentDetails []FedExRatedShipmentDetail `json:"ratedShipmentDetails"`
	Commit               *FedExCommit               `json:"commit,omitempty"`
}

type FedExRatedShipmentDetail struct {
	RateType       string              `json:"rateType"`
	TotalNetCharge decimal.NullDecimal `json:"totalNetCharge"`
	Currency       string              `json:"currency"`
}

type FedExCommit struct {
	DateDetail *FedExDateDetail `json:"dateDetail,omitempty"`
}

type FedExDateDetail struct {
	DayOfWeek string `json:"dayOfWeek"`
	DayFormat string `json:"dayFormat"`
}

type FedExAPIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// netCharge returns the first rated shipment's net charge and currency
func (d *FedExRateReplyDetail) netCharge() (decimal.Decimal, string, bool) {
	if len(d.RatedShipmentDetails) == 0 {
		return decimal.Decimal{}, "", false
	}
	first := d.RatedShipmentDetails[0]
	if !first.TotalNetCharge.Valid {
		return decimal.Decimal{}, "", false
	}
	return first.TotalNetCharge.Decimal, first.Currency, true
}

func (d *FedExRateReplyDetail) commitDate() string {
	if d.Commit == nil || d.Commit.DateDetail == nil {
		return ""
	}
	return d.Commit.DateDetail.DayFormat
}
