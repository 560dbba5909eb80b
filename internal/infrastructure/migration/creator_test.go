package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add loyalty table", "add_loyalty_table"},
		{"Add-Loyalty-Table", "add_loyalty_table"},
		{"add__service__orders", "add_service_orders"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreate_NumbersAfterExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_identity.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000003_sales.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0o644))

	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	f, err := Create(dir, "Add loyalty", "Loyalty tiers per customer", now)
	require.NoError(t, err)
	assert.Equal(t, uint(4), f.Version)
	assert.Equal(t, filepath.Join(dir, "000004_add_loyalty.up.sql"), f.UpPath)
	assert.Equal(t, filepath.Join(dir, "000004_add_loyalty.down.sql"), f.DownPath)

	up, err := os.ReadFile(f.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Loyalty tiers per customer")
	assert.Contains(t, string(up), "2026-03-10T14:00:00Z")

	down, err := os.ReadFile(f.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "rollback")
}

func TestCreate_EmptyDirStartsAtOne(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	f, err := Create(dir, "init", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, uint(1), f.Version)

	_, err = Create(dir, "!!!", "", time.Now())
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	files, err := List(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = List("../../../migrations")
	require.NoError(t, err)
	require.Len(t, files, 5)
	assert.Equal(t, uint(1), files[0].Version)
	assert.Equal(t, "identity", files[0].Name)
	assert.Equal(t, uint(5), files[4].Version)
	assert.Equal(t, "engagement", files[4].Name)
}
