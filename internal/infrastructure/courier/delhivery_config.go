package courier

import (
	"fmt"
	"time"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// DelhiveryConfig holds configuration for the Delhivery rate APIs
type DelhiveryConfig struct {
	// BaseURL is the API host
	BaseURL string
	// Token is the static API token sent as "Authorization: Token <token>"
	Token     string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

const (
	DelhiveryProductionURL = "https://track.delhivery.com"
	DelhiveryStagingURL    = "https://staging-express.delhivery.com"

	delhiveryRatePath    = "/api/kinko/v1/rate/calculator/.json"
	delhiveryChargesPath = "/api/kinko/v1/invoice/charges/.json"
)

var ErrDelhiveryConfigMissingToken = fmt.Errorf("%w: delhivery api token is required", shipping.ErrProviderNotConfigured)

// NewDelhiveryConfig creates a Delhivery configuration with defaults
func NewDelhiveryConfig(token string) *DelhiveryConfig {
	return &DelhiveryConfig{
		BaseURL: DelhiveryProductionURL,
		Token:   token,
		Timeout: 10 * time.Second,
	}
}

// Validate validates the configuration and fills defaults
func (c *DelhiveryConfig) Validate() error {
	if c.Token == "" {
		return ErrDelhiveryConfigMissingToken
	}
	if c.BaseURL == "" {
		c.BaseURL = DelhiveryProductionURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}
