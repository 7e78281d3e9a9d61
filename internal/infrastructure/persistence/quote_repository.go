package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/courierdash/backend/internal/domain/shipping"
	"github.com/courierdash/backend/internal/infrastructure/persistence/models"
)

// DefaultHistoryLimit bounds ListRecent when no limit is given
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

var ErrNilSnapshot = errors.New("persistence: quote snapshot is nil")

// GormQuoteRepository stores quote snapshots using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// Record inserts one snapshot
func (r *GormQuoteRepository) Record(ctx context.Context, snapshot *shipping.QuoteSnapshot) error {
	if snapshot == nil {
		return ErrNilSnapshot
	}

	model := &models.QuoteModel{}
	model.FromDomain(snapshot)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record quote: %w", err)
	}
	return nil
}

// ListRecent returns the newest snapshots first, optionally filtered by lane.
// Empty pincodes match any lane.
func (r *GormQuoteRepository) ListRecent(ctx context.Context, origin, destination string, limit int) ([]*shipping.QuoteSnapshot, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	query := r.db.WithContext(ctx).Model(&models.QuoteModel{})
	if origin != "" {
		query = query.Where("origin_pincode = ?", origin)
	}
	if destination != "" {
		query = query.Where("destination_pincode = ?", destination)
	}

	var rows []models.QuoteModel
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	snapshots := make([]*shipping.QuoteSnapshot, len(rows))
	for i := range rows {
		snapshots[i] = rows[i].ToDomain()
	}
	return snapshots, nil
}

// DeleteBefore removes snapshots created before cutoff
func (r *GormQuoteRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&models.QuoteModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete quotes: %w", result.Error)
	}
	return result.RowsAffected, nil
}

var _ shipping.QuoteRecorder = (*GormQuoteRepository)(nil)
var _ shipping.QuoteHistory = (*GormQuoteRepository)(nil)
