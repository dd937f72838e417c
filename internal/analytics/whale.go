package analytics

import (
	"fmt"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
)

// DefaultWhaleThresholdUSD is the single-trade volume above which a whale
// alert fires.
const DefaultWhaleThresholdUSD = 50_000.0

// WhaleImpact scores how much whale traders dominate tracked market volume.
// When the volume table carries no independent total, market volume is
// approximated as twice the whale volume and EstimatedTotal is set.
func WhaleImpact(whales, volume []domain.Row) domain.WhaleImpact {
	whaleVolume := sum(column(whales, "total_volume_usd"))
	if whaleVolume <= 0 {
		return domain.WhaleImpact{}
	}

	marketVolume := sum(column(volume, "volume_usd"))
	estimated := false
	if marketVolume <= 0 {
		marketVolume = whaleVolume * 2
		estimated = true
	}

	dominance := whaleVolume / marketVolume * 100
	avgWhale := whaleVolume / float64(len(whales))
	concentration := 1 + avgWhale/1_000_000

	return domain.WhaleImpact{
		Score:           Clamp(dominance*concentration, 0, 100),
		Dominance:       dominance,
		Concentration:   concentration,
		WhaleVolumeUSD:  whaleVolume,
		MarketVolumeUSD: marketVolume,
		AvgWhaleVolume:  avgWhale,
		WhaleCount:      len(whales),
		EstimatedTotal:  estimated,
	}
}

// WhaleAlerts emits one alert per whale row whose trade volume crosses the
// threshold. Rows report per-trade volume when the query provides it and
// fall back to the trader's average trade size.
func WhaleAlerts(whales []domain.Row, thresholdUSD float64, now time.Time) []domain.WhaleAlert {
	if thresholdUSD <= 0 {
		thresholdUSD = DefaultWhaleThresholdUSD
	}

	var alerts []domain.WhaleAlert
	for _, row := range whales {
		vol := row.Float("trade_volume_usd")
		if vol == 0 {
			vol = row.Float("avg_trade_size_usd")
		}
		if vol < thresholdUSD {
			continue
		}

		severity := "medium"
		if vol >= thresholdUSD*10 {
			severity = "high"
		}
		alerts = append(alerts, domain.WhaleAlert{
			Type:      "whale_activity",
			Severity:  severity,
			Message:   fmt.Sprintf("Large trade detected: $%.0f", vol),
			VolumeUSD: vol,
			Trader:    row.String("trader_address"),
			Timestamp: now,
		})
	}
	return alerts
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
