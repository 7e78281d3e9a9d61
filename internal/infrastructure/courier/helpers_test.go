package courier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// memoryTokens is a TokenStore fake that records writes
type memoryTokens struct {
	mu      sync.Mutex
	tokens  map[string]string
	ttls    map[string]time.Duration
	deletes int
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryTokens) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[key]
	return t, ok, nil
}

func (m *memoryTokens) Set(_ context.Context, key, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = token
	m.ttls[key] = ttl
	return nil
}

func (m *memoryTokens) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	m.deletes++
	return nil
}

// routeServer serves handlers by path and counts hits per path
type routeServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]*atomic.Int32
}

func newRouteServer(t *testing.T, routes map[string]http.HandlerFunc) *routeServer {
	t.Helper()
	rs := &routeServer{hits: map[string]*atomic.Int32{}}
	for path := range routes {
		rs.hits[path] = &atomic.Int32{}
	}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		rs.hits[r.URL.Path].Add(1)
		h(w, r)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *routeServer) count(path string) int {
	if c, ok := rs.hits[path]; ok {
		return int(c.Load())
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func sampleRequest() shipping.RateRequest {
	return shipping.RateRequest{
		OriginPincode:      "110001",
		DestinationPincode: "400001",
		Weight:             decimal.RequireFromString("1.2"),
		PaymentType:        shipping.PaymentTypePrepaid,
		DeclaredValue:      decimal.NewFromInt(1000),
	}
}
