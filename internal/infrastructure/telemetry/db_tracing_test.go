package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/courierdash/backend/internal/infrastructure/telemetry"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestRegisterDBTracing(t *testing.T) {
	db := openSQLite(t)

	err := telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{Enabled: true, DBName: "courier"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Len(t, db.Config.Plugins, 1)
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{}, nil))
	assert.Empty(t, db.Config.Plugins)
}
