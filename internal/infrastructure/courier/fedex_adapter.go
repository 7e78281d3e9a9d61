package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// fedexTokenSkew is subtracted from the token lifetime before caching
const fedexTokenSkew = time.Minute

// FedExAdapter quotes summary rates from FedEx using an OAuth2 client-credentials token
type FedExAdapter struct {
	config *FedExConfig
	client *apiClient
	tokens TokenStore
	logger *zap.Logger
}

// NewFedExAdapter creates a FedEx adapter. tokens may be nil, in which case a
// token is fetched for every quote.
func NewFedExAdapter(config *FedExConfig, tokens TokenStore, logger *zap.Logger) (*FedExAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger = loggerOrNop(logger, "courier.fedex")
	return &FedExAdapter{
		config: config,
		client: newAPIClient(shipping.ProviderFedEx, config.BaseURL, config.Timeout, config.RateLimit, config.RateBurst, logger),
		tokens: tokens,
		logger: logger,
	}, nil
}

func (a *FedExAdapter) Code() shipping.ProviderCode {
	return shipping.ProviderFedEx
}

// GetRates fetches a token and submits one rate quote
func (a *FedExAdapter) GetRates(ctx context.Context, req shipping.RateRequest) ([]shipping.CourierRate, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := a.client.postJSON(ctx, fedexRatePath, a.buildRateRequest(req), bearer(token))
	if err != nil {
		if IsUnauthorized(err) {
			a.evictToken(ctx)
		}
		return nil, err
	}

	var resp FedExRateResponse
	if err := a.client.decode(body, &resp); err != nil {
		return nil, err
	}
	return mapFedExRates(&resp), nil
}

// ---------------------------------------------------------------------------
// Token Handling
// ---------------------------------------------------------------------------

func (a *FedExAdapter) accessToken(ctx context.Context) (string, error) {
	key := a.config.tokenCacheKey()
	if a.tokens != nil {
		token, ok, err := a.tokens.Get(ctx, key)
		if err != nil {
			a.logger.Warn("token cache read failed", zap.Error(err))
		} else if ok {
			return token, nil
		}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.config.ClientID)
	form.Set("client_secret", a.config.ClientSecret)

	body, err := a.client.postForm(ctx, fedexTokenPath, form, nil)
	if err != nil {
		return "", fmt.Errorf("%w: fedex token: %v", shipping.ErrProviderAuthFailed, err)
	}

	var resp FedExTokenResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.AccessToken == "" {
		return "", fmt.Errorf("%w: fedex token response unusable", shipping.ErrProviderAuthFailed)
	}

	if a.tokens != nil && resp.ExpiresIn > 0 {
		ttl := time.Duration(resp.ExpiresIn)*time.Second - fedexTokenSkew
		if ttl > 0 {
			if err := a.tokens.Set(ctx, key, resp.AccessToken, ttl); err != nil {
				a.logger.Warn("token cache write failed", zap.Error(err))
			}
		}
	}
	return resp.AccessToken, nil
}

func (a *FedExAdapter) evictToken(ctx context.Context) {
	if a.tokens == nil {
		return
	}
	if err := a.tokens.Delete(ctx, a.config.tokenCacheKey()); err != nil {
		a.logger.Warn("token cache delete failed", zap.Error(err))
	}
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func (a *FedExAdapter) buildRateRequest(req shipping.RateRequest) *FedExRateRequest {
	length, width, height := req.Dimensions()
	return &FedExRateRequest{
		AccountNumber: FedExAccountNumber{Value: a.config.AccountNumber},
		RequestedShipment: FedExRequestedShipment{
			Shipper:         FedExParty{Address: FedExAddress{PostalCode: req.OriginPincode, CountryCode: a.config.CountryCode}},
			Recipient:       FedExParty{Address: FedExAddress{PostalCode: req.DestinationPincode, CountryCode: a.config.CountryCode}},
			PickupType:      a.config.PickupType,
			RateRequestType: []string{"ACCOUNT", "LIST"},
			RequestedPackageLineItems: []FedExPackageLineItem{{
				Weight: FedExWeight{Units: "KG", Value: json.Number(req.Weight.String())},
				Dimensions: FedExDimensions{
					Length: json.Number(length.String()),
					Width:  json.Number(width.String()),
					Height: json.Number(height.String()),
					Units:  "CM",
				},
			}},
		},
	}
}

// mapFedExRates emits one rate per reply detail that carries a net charge
func mapFedExRates(resp *FedExRateResponse) []shipping.CourierRate {
	if resp.Output == nil {
		return nil
	}
	rates := make([]shipping.CourierRate, 0, len(resp.Output.RateReplyDetails))
	for i := range resp.Output.RateReplyDetails {
		detail := &resp.Output.RateReplyDetails[i]
		amount, currency, ok := detail.netCharge()
		if !ok {
			continue
		}
		rates = append(rates, shipping.CourierRate{
			CourierName:          shipping.ProviderFedEx.DisplayName(),
			ServiceName:          detail.ServiceType,
			Rate:                 amount,
			Currency:             shipping.NormalizeCurrency(currency),
			ExpectedDeliveryDate: detail.commitDate(),
		})
	}
	return rates
}

var _ shipping.RateProvider = (*FedExAdapter)(nil)
