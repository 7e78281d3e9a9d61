package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"

	"github.com/courierdash/backend/internal/domain/shipping"
)

func newTestQuoteRepository(t *testing.T) *GormQuoteRepository {
	t.Helper()

	db, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "quotes.db")), zaptest.NewLogger(t), gormlogger.Warn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	return NewGormQuoteRepository(db.DB)
}

func testRequest(origin, destination string) shipping.RateRequest {
	return shipping.RateRequest{
		OriginPincode:      origin,
		DestinationPincode: destination,
		Weight:             decimal.RequireFromString("1.5"),
		PaymentType:        shipping.PaymentTypePrepaid,
	}
}

func TestGormQuoteRepository_RecordAndList(t *testing.T) {
	repo := newTestQuoteRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rates := []shipping.CourierRate{
		{CourierName: "Delhivery", ServiceName: "Standard", Rate: decimal.NewFromInt(150), Currency: "INR"},
	}
	first := shipping.NewSummarySnapshot(testRequest("110001", "400001"), rates, base)
	second := shipping.NewSummarySnapshot(testRequest("110001", "560001"), nil, base.Add(time.Minute))

	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, second))

	all, err := repo.ListRecent(ctx, "", "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	got := all[1]
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, shipping.QuoteModeSummary, got.Mode)
	assert.Equal(t, "Delhivery", got.CheapestCourier)
	require.True(t, got.CheapestAmount.Valid)
	assert.True(t, decimal.NewFromInt(150).Equal(got.CheapestAmount.Decimal))
	assert.True(t, decimal.RequireFromString("1.5").Equal(got.Weight))
	assert.Equal(t, shipping.PaymentTypePrepaid, got.PaymentType)
	assert.True(t, base.Equal(got.CreatedAt))

	assert.False(t, all[0].CheapestAmount.Valid)
}

func TestGormQuoteRepository_ListRecentFilters(t *testing.T) {
	repo := newTestQuoteRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, dest := range []string{"400001", "400001", "560001"} {
		s := shipping.NewSummarySnapshot(testRequest("110001", dest), nil, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Record(ctx, s))
	}

	lane, err := repo.ListRecent(ctx, "110001", "400001", 10)
	require.NoError(t, err)
	assert.Len(t, lane, 2)

	limited, err := repo.ListRecent(ctx, "", "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "560001", limited[0].DestinationPincode)
}

func TestGormQuoteRepository_DetailedSnapshot(t *testing.T) {
	repo := newTestQuoteRepository(t)
	ctx := context.Background()

	req := shipping.DetailedRateRequest{RateRequest: testRequest("110001", "400001")}
	rates := []shipping.ShippingRate{
		{CourierName: "Bluedart", TotalAmount: decimal.NewFromInt(90), Provider: shipping.ProviderShiprocket},
	}
	require.NoError(t, repo.Record(ctx, shipping.NewDetailedSnapshot(req, rates, time.Now())))

	got, err := repo.ListRecent(ctx, "", "", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, shipping.QuoteModeDetailed, got[0].Mode)
	assert.Equal(t, shipping.ProviderShiprocket, got[0].CheapestProvider)
}

func TestGormQuoteRepository_RecordNil(t *testing.T) {
	repo := newTestQuoteRepository(t)
	assert.ErrorIs(t, repo.Record(context.Background(), nil), ErrNilSnapshot)
}

func TestGormQuoteRepository_DeleteBefore(t *testing.T) {
	repo := newTestQuoteRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		snap := shipping.NewSummarySnapshot(testRequest("110001", "400001"), nil, base.AddDate(0, 0, i*10))
		require.NoError(t, repo.Record(ctx, snap))
	}

	deleted, err := repo.DeleteBefore(ctx, base.AddDate(0, 0, 15))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	left, err := repo.ListRecent(ctx, "", "", 0)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.True(t, left[0].CreatedAt.Equal(base.AddDate(0, 0, 20)))

	deleted, err = repo.DeleteBefore(ctx, base)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestDatabase_Ping(t *testing.T) {
	db, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "ping.db")), nil, gormlogger.Silent)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping(context.Background()))
}
