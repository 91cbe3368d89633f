package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Address)

	require.Equal(t, 0.05, cfg.Orders.TaxRate)
	require.Equal(t, 3.50, cfg.Orders.DeliveryFee)

	require.Equal(t, 5, cfg.Reservations.SlotCapacity)
	require.Equal(t, 1, cfg.Reservations.MinPartySize)
	require.Equal(t, 20, cfg.Reservations.MaxPartySize)
	require.Equal(t, time.Hour, cfg.Reservations.NoShowGrace)

	require.Equal(t, 10, cfg.Loyalty.ReviewAwardPoints)
}

func TestFormatIndex(t *testing.T) {
	cfg := ElasticConfig{Prefix: "cafe"}
	require.Equal(t, "cafe-orders", FormatIndex(cfg, "orders"))
}
