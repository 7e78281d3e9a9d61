package courier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdash/backend/internal/domain/shipping"
)

const fedexQuoteBody = `{
  "transactionId": "tx-1",
  "output": {
    "rateReplyDetails": [
      {
        "serviceType": "PRIORITY_OVERNIGHT",
        "ratedShipmentDetails": [{"rateType": "ACCOUNT", "totalNetCharge": 250, "currency": "INR"}],
        "commit": {"dateDetail": {"dayOfWeek": "TUE", "dayFormat": "2026-03-03T10:30:00"}}
      },
      {
        "serviceType": "FEDEX_GROUND",
        "ratedShipmentDetails": [{"rateType": "ACCOUNT", "currency": "INR"}]
      },
      {
        "serviceType": "STANDARD_OVERNIGHT",
        "ratedShipmentDetails": []
      }
    ]
  }
}`

func createTestFedExAdapter(t *testing.T, baseURL string, tokens TokenStore) *FedExAdapter {
	t.Helper()
	cfg := NewFedExConfig("fx-client", "fx-secret", "740561073")
	cfg.BaseURL = baseURL
	adapter, err := NewFedExAdapter(cfg, tokens, nil)
	require.NoError(t, err)
	return adapter
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestFedExConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *FedExConfig
		wantErr error
	}{
		{"valid config", &FedExConfig{ClientID: "id", ClientSecret: "secret", AccountNumber: "acc"}, nil},
		{"missing client id", &FedExConfig{ClientSecret: "secret", AccountNumber: "acc"}, ErrFedExConfigMissingClientID},
		{"missing client secret", &FedExConfig{ClientID: "id", AccountNumber: "acc"}, ErrFedExConfigMissingClientSecret},
		{"missing account number", &FedExConfig{ClientID: "id", ClientSecret: "secret"}, ErrFedExConfigMissingAccountNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, shipping.ErrProviderNotConfigured)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, FedExProductionURL, tt.config.BaseURL)
			assert.Equal(t, "IN", tt.config.CountryCode)
			assert.Equal(t, 10*time.Second, tt.config.Timeout)
		})
	}
}

// ---------------------------------------------------------------------------
// Rate Tests
// ---------------------------------------------------------------------------

func TestFedExAdapter_GetRates(t *testing.T) {
	var captured map[string]any
	srv := newRouteServer(t, map[string]http.HandlerFunc{
		fedexTokenPath: func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			assert.Equal(t, "fx-client", r.PostForm.Get("client_id"))
			assert.Equal(t, "fx-secret", r.PostForm.Get("client_secret"))
			writeJSON(w, http.StatusOK, `{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`)
		},
		fedexRatePath: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &captured))
			writeJSON(w, http.StatusOK, fedexQuoteBody)
		},
	})
	adapter := createTestFedExAdapter(t, srv.URL, nil)

	rates, err := adapter.GetRates(context.Background(), sampleRequest())
	require.NoError(t, err)

	require.Len(t, rates, 1, "replies without a net charge are skipped")
	assert.Equal(t, "FedEx", rates[0].CourierName)
	assert.Equal(t, "PRIORITY_OVERNIGHT", rates[0].ServiceName)
	assert.Equal(t, "250", rates[0].Rate.String())
	assert.Equal(t, "INR", rates[0].Currency)
	assert.Equal(t, "2026-03-03T10:30:00", rates[0].ExpectedDeliveryDate)

	shipment := captured["requestedShipment"].(map[string]any)
	assert.Equal(t, map[string]any{"value": "740561073"}, captured["accountNumber"])
	assert.Equal(t, "IN", shipment["shipper"].(map[string]any)["address"].(map[string]any)["countryCode"])
	assert.Equal(t, "400001", shipment["recipient"].(map[string]any)["address"].(map[string]any)["postalCode"])

	item := shipment["requestedPackageLineItems"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"units": "KG", "value": 1.2}, item["weight"])
	dims := item["dimensions"].(map[string]any)
	assert.Equal(t, float64(10), dims["length"])
	assert.Equal(t, float64(10), dims["width"])
	assert.Equal(t, float64(10), dims["height"])
	assert.Equal(t, "CM", dims["units"])
}

func TestFedExAdapter_GetRates_Failures(t *testing.T) {
	tests := []struct {
		name       string
		token      http.HandlerFunc
		quote      http.HandlerFunc
		wantErr    error
		wantQuotes int
	}{
		{
			name:       "token endpoint error",
			token:      func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusUnauthorized, `{}`) },
			wantErr:    shipping.ErrProviderAuthFailed,
			wantQuotes: 0,
		},
		{
			name:       "token missing in body",
			token:      func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, `{"token_type":"bearer"}`) },
			wantErr:    shipping.ErrProviderAuthFailed,
			wantQuotes: 0,
		},
		{
			name:       "quote server error",
			quote:      func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusInternalServerError, `{"errors":[]}`) },
			wantErr:    shipping.ErrProviderRequestFailed,
			wantQuotes: 1,
		},
		{
			name:       "malformed quote body",
			quote:      func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, `{"output":`) },
			wantErr:    shipping.ErrProviderInvalidResponse,
			wantQuotes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.token
			if token == nil {
				token = func(w http.ResponseWriter, _ *http.Request) {
					writeJSON(w, http.StatusOK, `{"access_token":"tok","expires_in":3600}`)
				}
			}
			quote := tt.quote
			if quote == nil {
				quote = func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, fedexQuoteBody) }
			}
			srv := newRouteServer(t, map[string]http.HandlerFunc{fedexTokenPath: token, fedexRatePath: quote})
			adapter := createTestFedExAdapter(t, srv.URL, nil)

			rates, err := adapter.GetRates(context.Background(), sampleRequest())

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, rates)
			assert.Equal(t, tt.wantQuotes, srv.count(fedexRatePath))
		})
	}
}

func TestFedExAdapter_TokenCaching(t *testing.T) {
	quoteStatus := http.StatusOK
	srv := newRouteServer(t, map[string]http.HandlerFunc{
		fedexTokenPath: func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"access_token":"cached-tok","expires_in":3600}`)
		},
		fedexRatePath: func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, quoteStatus, fedexQuoteBody)
		},
	})
	tokens := newMemoryTokens()
	adapter := createTestFedExAdapter(t, srv.URL, tokens)

	for i := 0; i < 2; i++ {
		_, err := adapter.GetRates(context.Background(), sampleRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, srv.count(fedexTokenPath))
	assert.Equal(t, 59*time.Minute, tokens.ttls["fedex:fx-client"])

	quoteStatus = http.StatusUnauthorized
	_, err := adapter.GetRates(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, shipping.ErrProviderAuthFailed)
	assert.Equal(t, 1, tokens.deletes)
	_, cached, _ := tokens.Get(context.Background(), "fedex:fx-client")
	assert.False(t, cached)
}

func TestMapFedExRates_NoOutput(t *testing.T) {
	assert.Empty(t, mapFedExRates(&FedExRateResponse{}))
}
