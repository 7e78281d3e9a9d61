package courier

import (
	"fmt"
	"time"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// ShiprocketConfig holds configuration for the Shiprocket API
type ShiprocketConfig struct {
	BaseURL string
	// Token is an optional static token tried before any login
	Token string
	// Email and Password mint a fresh token when the current one is rejected
	Email    string
	Password string
	// TokenTTL is how long a minted token is cached
	TokenTTL  time.Duration
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

const (
	ShiprocketProductionURL = "https://apiv2.shiprocket.in"

	shiprocketLoginPath          = "/v1/external/auth/login"
	shiprocketServiceabilityPath = "/v1/external/courier/serviceability/"

	// Shiprocket tokens are valid for 240 hours.
	shiprocketDefaultTokenTTL = 216 * time.Hour
)

var ErrShiprocketConfigMissingCredentials = fmt.Errorf("%w: shiprocket token or email and password are required", shipping.ErrProviderNotConfigured)

// NewShiprocketConfig creates a Shiprocket configuration with defaults
func NewShiprocketConfig(email, password string) *ShiprocketConfig {
	return &ShiprocketConfig{
		BaseURL:  ShiprocketProductionURL,
		Email:    email,
		Password: password,
		TokenTTL: shiprocketDefaultTokenTTL,
		Timeout:  10 * time.Second,
	}
}

// Validate validates the configuration and fills defaults
func (c *ShiprocketConfig) Validate() error {
	if c.Token == "" && !c.canLogin() {
		return ErrShiprocketConfigMissingCredentials
	}
	if c.BaseURL == "" {
		c.BaseURL = ShiprocketProductionURL
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = shiprocketDefaultTokenTTL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}

func (c *ShiprocketConfig) canLogin() bool {
	return c.Email != "" && c.Password != ""
}

func (c *ShiprocketConfig) tokenCacheKey() string {
	return "shiprocket:" + c.Email
}
