package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defijosh/ronintracker/internal/domain"
)

func whaleRows(volumes ...float64) []domain.Row {
	rows := make([]domain.Row, len(volumes))
	for i, v := range volumes {
		rows[i] = domain.Row{
			"trader_address":   "0xabc",
			"total_volume_usd": v,
			"trade_count":      10.0,
		}
	}
	return rows
}

func volumeRows(volumes ...float64) []domain.Row {
	rows := make([]domain.Row, len(volumes))
	for i, v := range volumes {
		rows[i] = domain.Row{"volume_usd": v}
	}
	return rows
}

func TestWhaleImpactZeroVolume(t *testing.T) {
	impact := WhaleImpact(whaleRows(0, 0), volumeRows(1000000))
	assert.Zero(t, impact.Score)
	assert.Zero(t, impact.Dominance)
}

func TestWhaleImpactWithMarketVolume(t *testing.T) {
	impact := WhaleImpact(whaleRows(100_000, 100_000), volumeRows(800_000, 200_000))
	assert.False(t, impact.EstimatedTotal)
	assert.InDelta(t, 20.0, impact.Dominance, 1e-9)
	assert.InDelta(t, 1.1, impact.Concentration, 1e-9)
	assert.InDelta(t, 22.0, impact.Score, 1e-9)
	assert.Equal(t, 2, impact.WhaleCount)
}

func TestWhaleImpactEstimatesMissingTotal(t *testing.T) {
	impact := WhaleImpact(whaleRows(500_000), nil)
	assert.True(t, impact.EstimatedTotal)
	assert.InDelta(t, 50.0, impact.Dominance, 1e-9)
	assert.Equal(t, 1_000_000.0, impact.MarketVolumeUSD)
}

func TestWhaleImpactMonotonicInWhaleVolume(t *testing.T) {
	market := volumeRows(10_000_000)
	prev := 0.0
	for _, v := range []float64{10_000, 100_000, 500_000, 2_000_000, 5_000_000} {
		impact := WhaleImpact(whaleRows(v), market)
		assert.GreaterOrEqual(t, impact.Score, prev)
		prev = impact.Score
	}
}

func TestWhaleImpactClamped(t *testing.T) {
	impact := WhaleImpact(whaleRows(50_000_000), volumeRows(50_000_000))
	assert.Equal(t, 100.0, impact.Score)
}

func TestWhaleAlertsThreshold(t *testing.T) {
	now := time.Now()
	rows := []domain.Row{
		{"trader_address": "0x01", "avg_trade_size_usd": 60_000.0},
		{"trader_address": "0x02", "avg_trade_size_usd": 10_000.0},
		{"trader_address": "0x03", "trade_volume_usd": 700_000.0},
	}

	alerts := WhaleAlerts(rows, 50_000, now)
	require.Len(t, alerts, 2)
	assert.Equal(t, "medium", alerts[0].Severity)
	assert.Equal(t, "0x01", alerts[0].Trader)
	assert.Equal(t, "high", alerts[1].Severity)
	assert.Equal(t, 700_000.0, alerts[1].VolumeUSD)
}

func TestWhaleAlertsDefaultThreshold(t *testing.T) {
	rows := []domain.Row{{"trader_address": "0x01", "avg_trade_size_usd": 55_000.0}}
	alerts := WhaleAlerts(rows, 0, time.Now())
	assert.Len(t, alerts, 1)
}
