package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defijosh/ronintracker/internal/domain"
)

func retentionRows(project string, r1w, newUsers []float64) []domain.Row {
	rows := make([]domain.Row, len(r1w))
	for i := range r1w {
		rows[i] = domain.Row{
			"week":              fmt.Sprintf("2026-0%d-01T00:00:00Z", i+1),
			"project_name":      project,
			"retention_rate_1w": r1w[i],
			"retention_rate_4w": r1w[i] * 0.4,
			"new_users":         newUsers[i],
		}
	}
	return rows
}

func TestRetentionRequiresFourPeriods(t *testing.T) {
	rows := retentionRows("Pixels", []float64{0.5, 0.5, 0.5}, []float64{100, 100, 100})

	metrics := Retention(rows)
	assert.Empty(t, metrics)
}

func TestRetentionComputesPerProject(t *testing.T) {
	rows := retentionRows("Axie Infinity", []float64{0.6, 0.6, 0.6, 0.6}, []float64{1000, 1100, 1200, 1500})
	rows = append(rows, retentionRows("Pixels", []float64{0.5, 0.4, 0.6, 0.5}, []float64{200, 220, 210, 100})...)

	metrics := Retention(rows)
	require.Len(t, metrics, 2)

	axie := metrics["Axie Infinity"]
	assert.InDelta(t, 0.6, axie.Avg1wRetention, 1e-9)
	assert.InDelta(t, 0.24, axie.Avg4wRetention, 1e-9)
	// Constant rate has zero deviation, maximal stability.
	assert.Equal(t, 1.0, axie.Stability)
	assert.InDelta(t, 0.5, axie.UserGrowthTrend, 1e-9)
	assert.Equal(t, 4, axie.DataPoints)

	pixels := metrics["Pixels"]
	assert.Greater(t, pixels.Stability, 0.0)
	assert.Less(t, pixels.Stability, 1.0)
	assert.InDelta(t, -0.5, pixels.UserGrowthTrend, 1e-9)
}

func TestRetentionZeroMeanStability(t *testing.T) {
	rows := retentionRows("Ghost Town", []float64{0, 0, 0, 0}, []float64{0, 0, 0, 0})

	metrics := Retention(rows)
	require.Contains(t, metrics, "Ghost Town")
	assert.Zero(t, metrics["Ghost Town"].Stability)
	assert.Zero(t, metrics["Ghost Town"].UserGrowthTrend)
}

func TestRetentionSkipsUnnamedRows(t *testing.T) {
	rows := []domain.Row{
		{"project_name": "", "retention_rate_1w": 0.5, "new_users": 10.0},
	}
	assert.Empty(t, Retention(rows))
}
