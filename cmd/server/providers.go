package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/courierdash/backend/internal/domain/shipping"
	"github.com/courierdash/backend/internal/infrastructure/config"
	"github.com/courierdash/backend/internal/infrastructure/courier"
)

// courierProviders holds the adapters built from configuration, in tie-break order
type courierProviders struct {
	summary  []shipping.RateProvider
	detailed []shipping.DetailedRateProvider
}

// Codes lists the configured providers for the system info endpoint
func (p courierProviders) Codes() []string {
	codes := make([]string, 0, len(p.summary))
	for _, rp := range p.summary {
		codes = append(codes, rp.Code().String())
	}
	return codes
}

// buildProviders creates an adapter for every courier that has credentials.
// Couriers with missing or partial credentials are skipped with a warning so
// the remaining ones keep serving; any other invalid setting is an error.
func buildProviders(cfg *config.Config, tokens courier.TokenStore, log *zap.Logger) (courierProviders, error) {
	var p courierProviders

	if cfg.FedEx.ClientID != "" {
		fc := courier.NewFedExConfig(cfg.FedEx.ClientID, cfg.FedEx.ClientSecret, cfg.FedEx.AccountNumber)
		fc.BaseURL = baseURL(cfg.FedEx.BaseURL, cfg.FedEx.Sandbox, courier.FedExSandboxURL, courier.FedExProductionURL)
		fc.Timeout = cfg.FedEx.Timeout
		fc.RateLimit, fc.RateBurst = cfg.FedEx.RateLimit, cfg.FedEx.RateBurst

		fedex, err := courier.NewFedExAdapter(fc, tokens, log)
		switch {
		case errors.Is(err, shipping.ErrProviderNotConfigured):
			log.Warn("FedEx credentials incomplete, provider disabled", zap.Error(err))
		case err != nil:
			return p, fmt.Errorf("fedex: %w", err)
		default:
			p.summary = append(p.summary, fedex)
		}
	} else {
		log.Warn("FedEx credentials not configured, provider disabled")
	}

	if cfg.Delhivery.Token != "" {
		dc := courier.NewDelhiveryConfig(cfg.Delhivery.Token)
		dc.BaseURL = baseURL(cfg.Delhivery.BaseURL, cfg.Delhivery.Staging, courier.DelhiveryStagingURL, courier.DelhiveryProductionURL)
		dc.Timeout = cfg.Delhivery.Timeout
		dc.RateLimit, dc.RateBurst = cfg.Delhivery.RateLimit, cfg.Delhivery.RateBurst

		delhivery, err := courier.NewDelhiveryAdapter(dc, log)
		switch {
		case errors.Is(err, shipping.ErrProviderNotConfigured):
			log.Warn("Delhivery credentials incomplete, provider disabled", zap.Error(err))
		case err != nil:
			return p, fmt.Errorf("delhivery: %w", err)
		default:
			p.summary = append(p.summary, delhivery)
			p.detailed = append(p.detailed, delhivery)
		}
	} else {
		log.Warn("Delhivery token not configured, provider disabled")
	}

	if cfg.Shiprocket.Token != "" || cfg.Shiprocket.Email != "" {
		sc := courier.NewShiprocketConfig(cfg.Shiprocket.Email, cfg.Shiprocket.Password)
		if cfg.Shiprocket.BaseURL != "" {
			sc.BaseURL = cfg.Shiprocket.BaseURL
		}
		sc.Token = cfg.Shiprocket.Token
		sc.Timeout = cfg.Shiprocket.Timeout
		sc.RateLimit, sc.RateBurst = cfg.Shiprocket.RateLimit, cfg.Shiprocket.RateBurst

		shiprocket, err := courier.NewShiprocketAdapter(sc, tokens, log)
		switch {
		case errors.Is(err, shipping.ErrProviderNotConfigured):
			log.Warn("Shiprocket credentials incomplete, provider disabled", zap.Error(err))
		case err != nil:
			return p, fmt.Errorf("shiprocket: %w", err)
		default:
			p.summary = append(p.summary, shiprocket)
			p.detailed = append(p.detailed, shiprocket)
		}
	} else {
		log.Warn("Shiprocket credentials not configured, provider disabled")
	}

	return p, nil
}

// baseURL picks the explicit override, then the sandbox host when asked for, then production.
func baseURL(override string, sandbox bool, sandboxURL, productionURL string) string {
	switch {
	case override != "":
		return override
	case sandbox:
		return sandboxURL
	default:
		return productionURL
	}
}
