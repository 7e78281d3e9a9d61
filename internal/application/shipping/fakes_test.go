package shipping

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// fakeProvider implements both provider ports with scripted behavior
type fakeProvider struct {
	code     shipping.ProviderCode
	rates    []shipping.CourierRate
	detailed []shipping.ShippingRate
	err      error
	delay    time.Duration
	panicVal any
	// deaf providers sleep through delay without watching ctx
	deaf  bool
	calls atomic.Int32

	mu          sync.Mutex
	lastRequest shipping.RateRequest
	lastDetail  shipping.DetailedRateRequest
}

func (f *fakeProvider) Code() shipping.ProviderCode { return f.code }

func (f *fakeProvider) wait(ctx context.Context) error {
	f.calls.Add(1)
	if f.panicVal != nil {
		panic(f.panicVal)
	}
	if f.delay <= 0 {
		return nil
	}
	if f.deaf {
		time.Sleep(f.delay)
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeProvider) GetRates(ctx context.Context, req shipping.RateRequest) ([]shipping.CourierRate, error) {
	f.mu.Lock()
	f.lastRequest = req
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]shipping.CourierRate(nil), f.rates...), nil
}

func (f *fakeProvider) GetDetailedRates(ctx context.Context, req shipping.DetailedRateRequest) ([]shipping.ShippingRate, error) {
	f.mu.Lock()
	f.lastDetail = req
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]shipping.ShippingRate(nil), f.detailed...), nil
}

func courierRate(name, amount string) shipping.CourierRate {
	return shipping.CourierRate{
		CourierName: name,
		ServiceName: shipping.ServiceStandard,
		Rate:        decimal.RequireFromString(amount),
		Currency:    shipping.DefaultCurrency,
	}
}

func shippingRate(name, amount string) shipping.ShippingRate {
	return shipping.ShippingRate{
		CourierName: name,
		TotalAmount: decimal.RequireFromString(amount),
	}
}

func rateAmounts(rates []shipping.CourierRate) []string {
	out := make([]string, len(rates))
	for i, r := range rates {
		out[i] = r.Rate.String()
	}
	return out
}

func rateNames(rates []shipping.CourierRate) []string {
	out := make([]string, len(rates))
	for i, r := range rates {
		out[i] = r.CourierName
	}
	return out
}

// fakeRecorder implements QuoteRecorder and QuoteHistory
type fakeRecorder struct {
	mu        sync.Mutex
	snapshots []*shipping.QuoteSnapshot
	err       error
}

func (r *fakeRecorder) Record(_ context.Context, s *shipping.QuoteSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.snapshots = append(r.snapshots, s)
	return nil
}

func (r *fakeRecorder) ListRecent(_ context.Context, origin, _ string, limit int) ([]*shipping.QuoteSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*shipping.QuoteSnapshot
	for i := len(r.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		if origin == "" || r.snapshots[i].OriginPincode == origin {
			out = append(out, r.snapshots[i])
		}
	}
	return out, nil
}

var errUpstream = errors.New("upstream exploded")
