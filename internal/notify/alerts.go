package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/defijosh/ronintracker/internal/domain"
)

// Event types used to filter scorecard alerts.
const (
	EventNetworkHealth = "network_health"
	EventWhaleActivity = "whale_activity"
)

// HealthAlert notifies all channels that the network health score dropped
// into a degraded band. The top insights are included so the alert is
// actionable without opening the dashboard.
func (n *Notifier) HealthAlert(ctx context.Context, health domain.HealthScore) error {
	title := fmt.Sprintf("Network Health: %.0f/100 (%s)", health.Score, health.Status)

	insights := health.Insights
	if len(insights) > 3 {
		insights = insights[:3]
	}
	body := strings.Join(insights, "\n")
	if body == "" {
		body = "Network health degraded; check the dashboard for details."
	}

	return n.Notify(ctx, EventNetworkHealth, title, body)
}

// WhaleAlerts notifies all channels about large-trade activity, summarized
// into a single message.
func (n *Notifier) WhaleAlerts(ctx context.Context, alerts []domain.WhaleAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	total := 0.0
	largest := 0.0
	for _, a := range alerts {
		total += a.VolumeUSD
		if a.VolumeUSD > largest {
			largest = a.VolumeUSD
		}
	}

	title := fmt.Sprintf("%d large trades detected", len(alerts))
	body := fmt.Sprintf("Total whale volume: $%.0f\nLargest trade: $%.0f", total, largest)
	return n.Notify(ctx, EventWhaleActivity, title, body)
}
