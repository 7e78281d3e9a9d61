package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdash/backend/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add quote index", "add_quote_index"},
		{"Add-Quote-Index", "add_quote_index"},
		{"ADD_QUOTE_INDEX", "add_quote_index"},
		{"add__quote__index", "add_quote_index"},
		{"Add Lane 123", "add_lane_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")
	now := time.Date(2026, 4, 2, 9, 30, 15, 0, time.UTC)

	mf, err := createMigrationAt(dir, "add quote provider index", "Index cheapest_provider", now)
	require.NoError(t, err)

	assert.Equal(t, "20260402093015", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20260402093015_add_quote_provider_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20260402093015_add_quote_provider_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add quote provider index")
	assert.Contains(t, string(up), "-- Description: Index cheapest_provider")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	_, err = createMigrationAt(dir, "add quote provider index", "", now)
	assert.Error(t, err, "existing files are never overwritten")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.ErrorContains(t, err, "no usable characters")
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20260301000000_create_quote_history.up.sql":   {},
		"20260301000000_create_quote_history.down.sql": {},
		"20260201000000_older.up.sql":                  {},
		"README.md":                                    {},
		"archive/20250101000000_old.up.sql":            {},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260201000000_older", "20260301000000_create_quote_history"}, names)

	missing, err := MissingDownMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260201000000_older"}, missing)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	names, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	assert.Contains(t, names, "20260301000000_create_quote_history")

	missing, err := MissingDownMigrations(migrations.FS)
	require.NoError(t, err)
	assert.Empty(t, missing, "every migration can be rolled back")
}
