package analytics

import (
	"fmt"

	"github.com/defijosh/ronintracker/internal/domain"
)

// Network health scoring thresholds. The score starts at 100 and deductions
// are applied per band; all values are tunable at build time.
const (
	// MinHealthDataPoints is the minimum number of daily rows required to
	// score at all. Below it the score is neutral.
	MinHealthDataPoints = 7
	// HealthWindow is how many trailing daily rows the score considers.
	HealthWindow = 7

	NeutralHealthScore = 50.0

	// Throughput bands on mean daily transactions.
	ThroughputLow  = 10_000.0
	ThroughputMid  = 50_000.0
	ThroughputHigh = 100_000.0

	// Trend bands on the first-to-last transaction change within the window.
	TrendSevereDrop   = -0.30
	TrendModerateDrop = -0.15
	TrendMildDrop     = -0.05

	// Active-wallet volatility bands (coefficient of variation).
	WalletVolHigh = 0.3
	WalletVolMid  = 0.2
	WalletVolLow  = 0.1

	// Gas-price volatility bands (coefficient of variation).
	GasVolHigh = 0.5
	GasVolMid  = 0.3

	// Token 7-day price change overlay, in percent.
	TokenDropSevere   = -30.0
	TokenDropModerate = -15.0

	// Status band floors.
	StatusHealthyFloor    = 80.0
	StatusModerateFloor   = 60.0
	StatusConcerningFloor = 40.0
)

// HealthStatus maps a score to its status band.
func HealthStatus(score float64) string {
	switch {
	case score >= StatusHealthyFloor:
		return "Healthy"
	case score >= StatusModerateFloor:
		return "Moderate"
	case score >= StatusConcerningFloor:
		return "Concerning"
	default:
		return "Critical"
	}
}

// NetworkHealth scores the network from the daily activity table and the
// token snapshot. Fewer than MinHealthDataPoints rows, or rows without the
// transaction and wallet columns, yield the neutral score with status
// "No Data".
func NetworkHealth(daily []domain.Row, snapshot *domain.MarketSnapshot) domain.HealthScore {
	if len(daily) < MinHealthDataPoints || !hasHealthColumns(daily) {
		return domain.HealthScore{
			Score:      NeutralHealthScore,
			Status:     "No Data",
			Metrics:    map[string]float64{},
			Deductions: map[string]float64{},
			Insights:   []string{"Insufficient daily activity data for health scoring"},
		}
	}

	txs := tail(column(daily, "daily_transactions"), HealthWindow)
	wallets := tail(column(daily, "active_addresses"), HealthWindow)
	gas := tail(column(daily, "avg_gas_price_gwei"), HealthWindow)

	score := 100.0
	metrics := map[string]float64{}
	deductions := map[string]float64{}
	var insights []string

	// Transaction throughput.
	avgTx := Mean(txs)
	metrics["avg_daily_transactions"] = avgTx
	switch {
	case avgTx < ThroughputLow:
		deductions["throughput"] = 20
		insights = append(insights, fmt.Sprintf("Low transaction volume: %.0f daily", avgTx))
	case avgTx < ThroughputMid:
		deductions["throughput"] = 10
		insights = append(insights, fmt.Sprintf("Moderate transaction volume: %.0f daily", avgTx))
	case avgTx < ThroughputHigh:
		deductions["throughput"] = 5
		insights = append(insights, fmt.Sprintf("Good transaction volume: %.0f daily", avgTx))
	default:
		insights = append(insights, fmt.Sprintf("Excellent transaction volume: %.0f daily", avgTx))
	}

	// Network growth trend, first to last of the window.
	if first := txs[0]; first > 0 {
		trend := (txs[len(txs)-1] - first) / first
		metrics["transaction_trend"] = trend
		switch {
		case trend < TrendSevereDrop:
			deductions["trend"] = 25
		case trend < TrendModerateDrop:
			deductions["trend"] = 15
		case trend < TrendMildDrop:
			deductions["trend"] = 8
		}
		if trend < TrendMildDrop {
			insights = append(insights, fmt.Sprintf("Transaction volume declining %.1f%%", -trend*100))
		} else if trend > 0.10 {
			insights = append(insights, fmt.Sprintf("Transaction volume growing %.1f%%", trend*100))
		}
	}

	// Active-wallet stability.
	walletCoV := CoV(wallets)
	metrics["wallet_volatility"] = walletCoV
	metrics["avg_active_wallets"] = Mean(wallets)
	switch {
	case walletCoV > WalletVolHigh:
		deductions["wallet_volatility"] = 25
		insights = append(insights, fmt.Sprintf("Highly volatile user activity (CoV %.2f)", walletCoV))
	case walletCoV > WalletVolMid:
		deductions["wallet_volatility"] = 15
	case walletCoV > WalletVolLow:
		deductions["wallet_volatility"] = 8
	default:
		insights = append(insights, "Stable user base")
	}

	// Gas-price stability, when the column is present.
	if gasMean := Mean(gas); gasMean > 0 {
		gasCoV := CoV(gas)
		metrics["avg_gas_price"] = gasMean
		metrics["gas_volatility"] = gasCoV
		switch {
		case gasCoV > GasVolHigh:
			deductions["gas_volatility"] = 15
			insights = append(insights, fmt.Sprintf("Unstable gas prices around %.1f GWEI", gasMean))
		case gasCoV > GasVolMid:
			deductions["gas_volatility"] = 8
		default:
			insights = append(insights, fmt.Sprintf("Steady gas prices at %.1f GWEI", gasMean))
		}
	}

	// Token performance overlay.
	if snapshot != nil {
		change := snapshot.PriceChange7dPct
		metrics["token_change_7d_pct"] = change
		switch {
		case change < TokenDropSevere:
			deductions["token_performance"] = 10
			insights = append(insights, fmt.Sprintf("Token down %.1f%% over 7 days", -change))
		case change < TokenDropModerate:
			deductions["token_performance"] = 5
			insights = append(insights, fmt.Sprintf("Token down %.1f%% over 7 days", -change))
		}
	}

	for _, d := range deductions {
		score -= d
	}
	score = Clamp(score, 0, 100)

	return domain.HealthScore{
		Score:      score,
		Status:     HealthStatus(score),
		Metrics:    metrics,
		Deductions: deductions,
		Insights:   insights,
	}
}

func hasHealthColumns(rows []domain.Row) bool {
	for _, col := range []string{"daily_transactions", "active_addresses"} {
		if _, ok := rows[0][col]; !ok {
			return false
		}
	}
	return true
}

// column extracts one numeric column in row order.
func column(rows []domain.Row, col string) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = row.Float(col)
	}
	return out
}
