package database

import (
	"path/filepath"
	"testing"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOpenInMemoryIsIsolated(t *testing.T) {
	first, err := OpenInMemory()
	require.NoError(t, err)
	second, err := OpenInMemory()
	require.NoError(t, err)

	require.NoError(t, first.Create(&models.Size{Name: "XL"}).Error)

	var n int64
	require.NoError(t, second.Model(&models.Size{}).Count(&n).Error)
	require.Zero(t, n)
	require.NoError(t, first.Model(&models.Size{}).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestOpenSQLiteFile(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "shop.db"),
	}
	db, err := Open(cfg)
	require.NoError(t, err)

	p := models.Product{Name: "Mug", Price: decimal.RequireFromString("12.50"), Stock: 3}
	require.NoError(t, db.Create(&p).Error)

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	require.True(t, got.Price.Equal(decimal.RequireFromString("12.5")))
	require.Equal(t, 3, got.Stock)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
}
