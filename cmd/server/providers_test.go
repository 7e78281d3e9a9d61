package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/courierdash/backend/internal/infrastructure/cache"
	"github.com/courierdash/backend/internal/infrastructure/config"
	"github.com/courierdash/backend/internal/infrastructure/courier"
)

func newTestTokens(t *testing.T) *cache.InMemoryTokenStore {
	t.Helper()
	tokens := cache.NewInMemoryTokenStore(time.Minute)
	t.Cleanup(func() { _ = tokens.Close() })
	return tokens
}

func TestBuildProviders_AllConfigured(t *testing.T) {
	cfg := &config.Config{
		FedEx:      config.FedExConfig{ClientID: "id", ClientSecret: "secret", AccountNumber: "acc"},
		Delhivery:  config.DelhiveryConfig{Token: "dl"},
		Shiprocket: config.ShiprocketConfig{Email: "ops@example.com", Password: "pw"},
	}

	p, err := buildProviders(cfg, newTestTokens(t), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"fedex", "delhivery", "shiprocket"}, p.Codes())
	assert.Len(t, p.detailed, 2)
}

func TestBuildProviders_PartialCredentialsSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := &config.Config{
		// FedEx without an account number, Shiprocket without a password
		FedEx:      config.FedExConfig{ClientID: "id", ClientSecret: "secret"},
		Delhivery:  config.DelhiveryConfig{Token: "dl"},
		Shiprocket: config.ShiprocketConfig{Email: "ops@example.com"},
	}

	p, err := buildProviders(cfg, newTestTokens(t), zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, []string{"delhivery"}, p.Codes())
	assert.Len(t, p.detailed, 1)
	assert.Equal(t, 1, logs.FilterMessage("FedEx credentials incomplete, provider disabled").Len())
	assert.Equal(t, 1, logs.FilterMessage("Shiprocket credentials incomplete, provider disabled").Len())
}

func TestBuildProviders_NothingConfigured(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	p, err := buildProviders(&config.Config{}, newTestTokens(t), zap.New(core))
	require.NoError(t, err)

	assert.Empty(t, p.Codes())
	assert.Equal(t, 3, logs.Len())
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		override string
		sandbox  bool
		want     string
	}{
		{"production by default", "", false, courier.FedExProductionURL},
		{"sandbox when asked", "", true, courier.FedExSandboxURL},
		{"override wins over sandbox", "http://localhost:9000", true, "http://localhost:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := baseURL(tt.override, tt.sandbox, courier.FedExSandboxURL, courier.FedExProductionURL)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, courier.DelhiveryStagingURL,
		baseURL("", true, courier.DelhiveryStagingURL, courier.DelhiveryProductionURL))
}
