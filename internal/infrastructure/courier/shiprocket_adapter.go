package courier

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// ShiprocketAdapter quotes rates through Shiprocket's serviceability API.
//
// The current token (cached, else static) is tried first. An HTTP 401 triggers
// exactly one login and one retry; any other status is not retried.
type ShiprocketAdapter struct {
	config *ShiprocketConfig
	client *apiClient
	tokens TokenStore
	logger *zap.Logger

	// login deduplicates concurrent token refreshes
	login singleflight.Group
}

// NewShiprocketAdapter creates a Shiprocket adapter. tokens may be nil.
func NewShiprocketAdapter(config *ShiprocketConfig, tokens TokenStore, logger *zap.Logger) (*ShiprocketAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger = loggerOrNop(logger, "courier.shiprocket")
	return &ShiprocketAdapter{
		config: config,
		client: newAPIClient(shipping.ProviderShiprocket, config.BaseURL, config.Timeout, config.RateLimit, config.RateBurst, logger),
		tokens: tokens,
		logger: logger,
	}, nil
}

func (a *ShiprocketAdapter) Code() shipping.ProviderCode {
	return shipping.ProviderShiprocket
}

// GetRates maps every available courier company to a summary rate
func (a *ShiprocketAdapter) GetRates(ctx context.Context, req shipping.RateRequest) ([]shipping.CourierRate, error) {
	resp, err := a.serviceability(ctx, baseServiceabilityQuery(req))
	if err != nil {
		return nil, err
	}

	companies := resp.Companies()
	rates := make([]shipping.CourierRate, 0, len(companies))
	for i := range companies {
		c := &companies[i]
		if !c.Rate.Valid {
			a.logger.Debug("skipping courier without rate", zap.String("courier", c.CourierName))
			continue
		}
		rates = append(rates, shipping.CourierRate{
			CourierName:          c.CourierName,
			ServiceName:          shipping.ServiceStandard,
			Rate:                 c.Rate.Decimal,
			Currency:             shipping.DefaultCurrency,
			ExpectedDeliveryDate: firstNonEmpty(c.ETD, string(c.EstimatedDeliveryDays)),
		})
	}
	return rates, nil
}

// GetDetailedRates maps every available courier company to an itemized rate
func (a *ShiprocketAdapter) GetDetailedRates(ctx context.Context, req shipping.DetailedRateRequest) ([]shipping.ShippingRate, error) {
	req = req.WithDefaults()
	length, width, height := req.Dimensions()

	query := baseServiceabilityQuery(req.RateRequest)
	query.Set("length", length.String())
	query.Set("breadth", width.String())
	query.Set("height", height.String())
	query.Set("qty", strconv.Itoa(req.Pieces))

	resp, err := a.serviceability(ctx, query)
	if err != nil {
		return nil, err
	}

	companies := resp.Companies()
	rates := make([]shipping.ShippingRate, 0, len(companies))
	for i := range companies {
		c := &companies[i]
		if !c.Rate.Valid || c.Rate.Decimal.IsNegative() {
			a.logger.Debug("skipping courier without usable rate", zap.String("courier", c.CourierName))
			continue
		}
		rates = append(rates, shipping.ShippingRate{
			CourierCompanyID:      c.CourierCompanyID,
			CourierName:           c.CourierName,
			TotalAmount:           c.Rate.Decimal,
			EstimatedDeliveryDays: string(c.EstimatedDeliveryDays),
			CODCharges:            c.CODCharges,
			FreightCharge:         c.FreightCharge,
			OtherCharges:          c.OtherCharges,
			ChargedWeight:         c.ChargeWeight,
			Zone:                  c.Zone,
			Status:                c.deliveryType(),
			Provider:              shipping.ProviderShiprocket,
		})
	}
	return rates, nil
}

// ---------------------------------------------------------------------------
// Serviceability call with reactive token refresh
// ---------------------------------------------------------------------------

func (a *ShiprocketAdapter) serviceability(ctx context.Context, query url.Values) (*ShiprocketServiceabilityResponse, error) {
	token := a.currentToken(ctx)
	refreshed := false
	if token == "" {
		var err error
		if token, err = a.refreshToken(ctx); err != nil {
			return nil, err
		}
		refreshed = true
	}

	body, err := a.client.get(ctx, shiprocketServiceabilityPath, query, bearer(token))
	if err != nil && IsUnauthorized(err) && !refreshed {
		a.logger.Info("token rejected, logging in again")
		if token, err = a.refreshToken(ctx); err != nil {
			return nil, err
		}
		body, err = a.client.get(ctx, shiprocketServiceabilityPath, query, bearer(token))
	}
	if err != nil {
		return nil, err
	}

	var resp ShiprocketServiceabilityResponse
	if err := a.client.decode(body, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: shiprocket: status %d: %s", shipping.ErrProviderRejected, resp.Status, resp.Message)
	}
	return &resp, nil
}

func (a *ShiprocketAdapter) currentToken(ctx context.Context) string {
	if a.tokens != nil && a.config.canLogin() {
		token, ok, err := a.tokens.Get(ctx, a.config.tokenCacheKey())
		if err != nil {
			a.logger.Warn("token cache read failed", zap.Error(err))
		} else if ok {
			return token
		}
	}
	return a.config.Token
}

// refreshToken logs in and caches the new token. Concurrent callers share one
// login, which runs detached from any single caller's cancellation and is
// bounded by the adapter timeout; each caller waits only as long as its own ctx allows.
func (a *ShiprocketAdapter) refreshToken(ctx context.Context) (string, error) {
	if !a.config.canLogin() {
		return "", fmt.Errorf("%w: shiprocket: no login credentials", shipping.ErrProviderAuthFailed)
	}

	loginCtx := context.WithoutCancel(ctx)
	ch := a.login.DoChan(a.config.tokenCacheKey(), func() (any, error) {
		ctx, cancel := context.WithTimeout(loginCtx, a.config.Timeout)
		defer cancel()
		return a.doLogin(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: shiprocket login: %w", shipping.ErrProviderUnavailable, ctx.Err())
	}
}

func (a *ShiprocketAdapter) doLogin(ctx context.Context) (string, error) {
	body, err := a.client.postJSON(ctx, shiprocketLoginPath, &ShiprocketLoginRequest{
		Email:    a.config.Email,
		Password: a.config.Password,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: shiprocket login: %v", shipping.ErrProviderAuthFailed, err)
	}

	var resp ShiprocketLoginResponse
	if err := a.client.decode(body, &resp); err != nil {
		return "", fmt.Errorf("%w: shiprocket login: %v", shipping.ErrProviderAuthFailed, err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: shiprocket login returned no token", shipping.ErrProviderAuthFailed)
	}

	if a.tokens != nil {
		if err := a.tokens.Set(ctx, a.config.tokenCacheKey(), resp.Token, a.config.TokenTTL); err != nil {
			a.logger.Warn("token cache write failed", zap.Error(err))
		}
	}
	return resp.Token, nil
}

func baseServiceabilityQuery(req shipping.RateRequest) url.Values {
	cod := "0"
	if req.PaymentType.IsCOD() {
		cod = "1"
	}
	query := url.Values{}
	query.Set("pickup_postcode", req.OriginPincode)
	query.Set("delivery_postcode", req.DestinationPincode)
	query.Set("weight", req.Weight.String())
	query.Set("cod", cod)
	query.Set("declared_value", req.DeclaredValue.String())
	return query
}

var (
	_ shipping.RateProvider         = (*ShiprocketAdapter)(nil)
	_ shipping.DetailedRateProvider = (*ShiprocketAdapter)(nil)
)
