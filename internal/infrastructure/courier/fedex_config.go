package courier

import (
	"fmt"
	"time"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// FedExConfig holds configuration for the FedEx rate API
type FedExConfig struct {
	// BaseURL is the API host (production or sandbox)
	BaseURL string
	// ClientID and ClientSecret are the OAuth client credentials
	ClientID     string
	ClientSecret string
	// AccountNumber is the FedEx shipping account quotes are priced for
	AccountNumber string
	// CountryCode is used for both shipper and recipient
	CountryCode string
	// PickupType is sent with every quote
	PickupType string
	Timeout    time.Duration
	// RateLimit is the outbound requests per second, 0 disables limiting
	RateLimit float64
	RateBurst int
}

const (
	FedExProductionURL = "https://apis.fedex.com"
	FedExSandboxURL    = "https://apis-sandbox.fedex.com"

	fedexTokenPath = "/oauth/token"
	fedexRatePath  = "/rate/v1/rates/quotes"

	fedexDefaultCountry    = "IN"
	fedexDefaultPickupType = "DROPOFF_AT_FEDEX_LOCATION"
)

var (
	ErrFedExConfigMissingClientID      = fmt.Errorf("%w: fedex client id is required", shipping.ErrProviderNotConfigured)
	ErrFedExConfigMissingClientSecret  = fmt.Errorf("%w: fedex client secret is required", shipping.ErrProviderNotConfigured)
	ErrFedExConfigMissingAccountNumber = fmt.Errorf("%w: fedex account number is required", shipping.ErrProviderNotConfigured)
)

// NewFedExConfig creates a FedEx configuration with defaults
func NewFedExConfig(clientID, clientSecret, accountNumber string) *FedExConfig {
	return &FedExConfig{
		BaseURL:       FedExProductionURL,
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		AccountNumber: accountNumber,
		CountryCode:   fedexDefaultCountry,
		PickupType:    fedexDefaultPickupType,
		Timeout:       10 * time.Second,
	}
}

// Validate validates the configuration and fills defaults
func (c *FedExConfig) Validate() error {
	if c.ClientID == "" {
		return ErrFedExConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrFedExConfigMissingClientSecret
	}
	if c.AccountNumber == "" {
		return ErrFedExConfigMissingAccountNumber
	}
	if c.BaseURL == "" {
		c.BaseURL = FedExProductionURL
	}
	if c.CountryCode == "" {
		c.CountryCode = fedexDefaultCountry
	}
	if c.PickupType == "" {
		c.PickupType = fedexDefaultPickupType
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}

func (c *FedExConfig) tokenCacheKey() string {
	return "fedex:" + c.ClientID
}
