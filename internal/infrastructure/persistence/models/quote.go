// Package models holds the GORM persistence models.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/courierdash/backend/internal/domain/shipping"
)

// QuoteModel is one row of aggregated quote history
type QuoteModel struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Mode               string              `gorm:"type:varchar(20);not null;index"`
	OriginPincode      string              `gorm:"type:varchar(6);not null;index:idx_quote_lane"`
	DestinationPincode string              `gorm:"type:varchar(6);not null;index:idx_quote_lane"`
	Weight             decimal.Decimal     `gorm:"type:decimal(12,3);not null"`
	PaymentType        string              `gorm:"type:varchar(10);not null"`
	RateCount          int                 `gorm:"not null"`
	CheapestCourier    string              `gorm:"type:varchar(200)"`
	CheapestAmount     decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	CheapestProvider   string              `gorm:"type:varchar(20)"`
	CreatedAt          time.Time           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quote_history"
}

// FromDomain populates the model from a snapshot
func (m *QuoteModel) FromDomain(s *shipping.QuoteSnapshot) {
	m.ID = s.ID
	m.Mode = string(s.Mode)
	m.OriginPincode = s.OriginPincode
	m.DestinationPincode = s.DestinationPincode
	m.Weight = s.Weight
	m.PaymentType = string(s.PaymentType)
	m.RateCount = s.RateCount
	m.CheapestCourier = s.CheapestCourier
	m.CheapestAmount = s.CheapestAmount
	m.CheapestProvider = string(s.CheapestProvider)
	m.CreatedAt = s.CreatedAt
}

// ToDomain converts the model back to a snapshot
func (m *QuoteModel) ToDomain() *shipping.QuoteSnapshot {
	return &shipping.QuoteSnapshot{
		ID:                 m.ID,
		Mode:               shipping.QuoteMode(m.Mode),
		OriginPincode:      m.OriginPincode,
		DestinationPincode: m.DestinationPincode,
		Weight:             m.Weight,
		PaymentType:        shipping.PaymentType(m.PaymentType),
		RateCount:          m.RateCount,
		CheapestCourier:    m.CheapestCourier,
		CheapestAmount:     m.CheapestAmount,
		CheapestProvider:   shipping.ProviderCode(m.CheapestProvider),
		CreatedAt:          m.CreatedAt.UTC(),
	}
}
