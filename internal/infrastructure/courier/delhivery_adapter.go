package courier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// DelhiveryAdapter quotes Delhivery summary and itemized rates with a static token
type DelhiveryAdapter struct {
	config *DelhiveryConfig
	client *apiClient
	logger *zap.Logger
}

// NewDelhiveryAdapter creates a Delhivery adapter
func NewDelhiveryAdapter(config *DelhiveryConfig, logger *zap.Logger) (*DelhiveryAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger = loggerOrNop(logger, "courier.delhivery")
	return &DelhiveryAdapter{
		config: config,
		client: newAPIClient(shipping.ProviderDelhivery, config.BaseURL, config.Timeout, config.RateLimit, config.RateBurst, logger),
		logger: logger,
	}, nil
}

func (a *DelhiveryAdapter) Code() shipping.ProviderCode {
	return shipping.ProviderDelhivery
}

// GetRates returns exactly one INR rate, or an error
func (a *DelhiveryAdapter) GetRates(ctx context.Context, req shipping.RateRequest) ([]shipping.CourierRate, error) {
	query := url.Values{}
	query.Set("o_pin", req.OriginPincode)
	query.Set("d_pin", req.DestinationPincode)
	// Raw grams; the itemized endpoint rounds instead.
	query.Set("cgm", req.WeightGrams().String())
	query.Set("pt", delhiveryPaymentType(req.PaymentType))

	body, err := a.client.get(ctx, delhiveryRatePath, query, a.authHeader())
	if err != nil {
		return nil, err
	}

	var resp DelhiveryRateResponse
	if err := a.client.decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.Error.Set {
		return nil, fmt.Errorf("%w: delhivery: %s", shipping.ErrProviderRejected, firstNonEmpty(resp.Error.Message, resp.Message, "error flag set"))
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: delhivery: missing rate", shipping.ErrProviderInvalidResponse)
	}

	return []shipping.CourierRate{{
		CourierName: shipping.ProviderDelhivery.DisplayName(),
		ServiceName: shipping.ServiceStandard,
		Rate:        resp.Rate.Decimal,
		Currency:    shipping.DefaultCurrency,
	}}, nil
}

// GetDetailedRates queries invoice/charges. An empty shipment status skips the
// call and yields no rates.
func (a *DelhiveryAdapter) GetDetailedRates(ctx context.Context, req shipping.DetailedRateRequest) ([]shipping.ShippingRate, error) {
	if strings.TrimSpace(req.ShipmentStatus) == "" {
		return nil, nil
	}
	req = req.WithDefaults()
	length, width, height := req.Dimensions()

	query := url.Values{}
	query.Set("md", req.BillingMode.ShortCode())
	query.Set("ss", req.ShipmentStatus)
	query.Set("d_pin", req.DestinationPincode)
	query.Set("o_pin", req.OriginPincode)
	query.Set("cgm", req.WeightGramsRounded().String())
	query.Set("pt", delhiveryPaymentType(req.PaymentType))
	query.Set("l", length.String())
	query.Set("b", width.String())
	query.Set("h", height.String())
	query.Set("pcs", strconv.Itoa(req.Pieces))

	body, err := a.client.get(ctx, delhiveryChargesPath, query, a.authHeader())
	if err != nil {
		return nil, err
	}

	var resp []DelhiveryChargeBreakdown
	if err := a.client.decode(body, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, nil
	}
	rate, err := mapDelhiveryCharges(&resp[0])
	if err != nil {
		return nil, err
	}
	return []shipping.ShippingRate{rate}, nil
}

func (a *DelhiveryAdapter) authHeader() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Token "+a.config.Token)
	return h
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func mapDelhiveryCharges(b *DelhiveryChargeBreakdown) (shipping.ShippingRate, error) {
	if !b.TotalAmount.Valid {
		return shipping.ShippingRate{}, fmt.Errorf("%w: delhivery: missing total_amount", shipping.ErrProviderInvalidResponse)
	}
	if b.TotalAmount.Decimal.IsNegative() {
		return shipping.ShippingRate{}, fmt.Errorf("%w: delhivery: negative total_amount", shipping.ErrProviderInvalidResponse)
	}
	return shipping.ShippingRate{
		CourierName:           shipping.ProviderDelhivery.DisplayName(),
		TotalAmount:           b.TotalAmount.Decimal,
		GrossAmount:           b.GrossAmount,
		EstimatedDeliveryDays: b.Status,
		Charges:               b.Charges,
		ChargedWeight:         b.ChargedWeight,
		Zone:                  b.Zone,
		Status:                b.Status,
		TaxData:               b.TaxData,
		Provider:              shipping.ProviderDelhivery,
	}, nil
}

func delhiveryPaymentType(p shipping.PaymentType) string {
	if p.IsCOD() {
		return "COD"
	}
	return "Pre-paid"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var (
	_ shipping.RateProvider         = (*DelhiveryAdapter)(nil)
	_ shipping.DetailedRateProvider = (*DelhiveryAdapter)(nil)
)
