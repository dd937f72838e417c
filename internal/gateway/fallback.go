package gateway

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/normalize"
)

// Fallback datasets stand in for provider data when credentials are missing
// or every retry failed. Generators are pure: the same key and reference time
// always produce the same table, with jitter drawn from a key-seeded source
// so values look organic but stay reproducible.

var fallbackGames = []string{"Axie Infinity", "The Machines Arena", "Pixels", "Tearing Spaces", "Apeiron"}

// FallbackSnapshot returns the synthetic RON market snapshot used when the
// market provider is unavailable. Values hover within 5% of the documented
// base constants.
func FallbackSnapshot(now time.Time) *domain.MarketSnapshot {
	rng := seeded(SnapshotKey, now)
	priceVar := uniform(rng, 0.95, 1.05)
	volumeVar := uniform(rng, 0.8, 1.2)

	return &domain.MarketSnapshot{
		Name:              "Ronin",
		Symbol:            "RON",
		PriceUSD:          2.15 * priceVar,
		MarketCapUSD:      700_000_000 * priceVar,
		Volume24hUSD:      45_000_000 * volumeVar,
		CirculatingSupply: 325_000_000,
		TotalSupply:       1_000_000_000,
		PriceChange24hPct: uniform(rng, -5, 5),
		PriceChange7dPct:  uniform(rng, -15, 15),
		PriceChange30dPct: uniform(rng, -30, 30),
		MarketCapRank:     85,
		TVLUSD:            180_000_000 * priceVar,
		McapToTVLRatio:    3.89,
		LastUpdated:       now.UTC(),
		DataSource:        domain.SourceFallback,
	}
}

// FallbackTable returns the synthetic table for a query key. The schema
// matches the registry's required columns, so downstream analytics run
// unchanged on fallback data. Unknown keys yield an empty table.
func FallbackTable(key string, now time.Time) *domain.Dataset {
	var rows []domain.Row
	switch key {
	case "games_overall_activity":
		rows = fallbackGamesOverall()
	case "games_daily_activity":
		rows = fallbackGamesDaily(now)
	case "ronin_daily_activity":
		rows = fallbackNetworkDaily(now)
	case "user_activation_retention":
		rows = fallbackRetention(now)
	case "ron_current_holders":
		rows = fallbackHolders(now)
	case "ron_segmented_holders":
		rows = fallbackSegmentedHolders()
	case "wron_katana_pairs":
		rows = fallbackKatanaPairs()
	case "wron_whale_tracking":
		rows = fallbackWhales(now)
	case "wron_volume_liquidity":
		rows = fallbackVolumeLiquidity(now)
	case "wron_hourly_activity":
		rows = fallbackHourly()
	case "wron_weekly_segmentation":
		rows = fallbackWeeklySegmentation(now)
	case "nft_collections":
		rows = fallbackNFTCollections()
	default:
		rows = []domain.Row{}
	}

	return &domain.Dataset{
		Key:       key,
		Columns:   normalize.Columns(rows),
		Rows:      rows,
		Source:    domain.SourceFallback,
		FetchedAt: now.UTC(),
	}
}

func fallbackGamesOverall() []domain.Row {
	addrs := []string{
		"0x32950db2a7164ae833121501c797d79e7b79d74c",
		"0x97a9107c1793bc407d6f527b77e7fff4d812bece",
		"0x8c811e3c958e190f5ec15fb376533a3398620500",
		"0x1f8b0e2c7d1a4b2c3d4e5f6789abcdef01234567",
		"0x234567890abcdef123456789abcdef0123456789",
	}
	txs := []float64{15_000_000, 2_500_000, 1_200_000, 850_000, 650_000}
	users := []float64{2_800_000, 180_000, 95_000, 65_000, 42_000}
	gas := []float64{45_000_000_000, 8_500_000_000, 3_200_000_000, 2_100_000_000, 1_400_000_000}

	rows := make([]domain.Row, len(fallbackGames))
	for i, game := range fallbackGames {
		rows[i] = domain.Row{
			"contract_address":   addrs[i],
			"project_name":       game,
			"total_transactions": txs[i],
			"unique_users":       users[i],
			"total_gas_used":     gas[i],
			"avg_gas_per_tx":     gas[i] / txs[i],
		}
	}
	return rows
}

func fallbackGamesDaily(now time.Time) []domain.Row {
	rng := seeded("games_daily_activity", now)
	baseUsers := map[string]float64{
		"Axie Infinity":      250_000,
		"The Machines Arena": 18_000,
		"Pixels":             12_000,
		"Tearing Spaces":     8_000,
		"Apeiron":            5_500,
	}

	var rows []domain.Row
	for i := 0; i < 30; i++ {
		day := dayStart(now).AddDate(0, 0, i-29)
		weekend := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = 1.2
		}
		trend := 1 + float64(i)*0.001
		for _, game := range fallbackGames {
			users := float64(int(baseUsers[game] * uniform(rng, 0.7, 1.3) * weekend * trend))
			rows = append(rows, domain.Row{
				"date":               day.Format(time.RFC3339),
				"project_name":       game,
				"daily_active_users": users,
				"daily_transactions": float64(int(users * uniform(rng, 2, 8))),
				"daily_gas_used":     float64(int(users * uniform(rng, 500_000, 1_500_000))),
			})
		}
	}
	return rows
}

func fallbackNetworkDaily(now time.Time) []domain.Row {
	rng := seeded("ronin_daily_activity", now)
	rows := make([]domain.Row, 0, 30)
	for i := 0; i < 30; i++ {
		day := dayStart(now).AddDate(0, 0, i-29)
		growth := 1 + float64(i)*0.002
		weekend := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = 1.15
		}
		rows = append(rows, domain.Row{
			"date":               day.Format(time.RFC3339),
			"daily_transactions": float64(int(uniform(rng, 800_000, 1_200_000) * growth * weekend)),
			"active_addresses":   float64(int(uniform(rng, 180_000, 250_000) * growth * weekend)),
			"avg_gas_price_gwei": uniform(rng, 0.1, 0.5),
			"total_gas_used":     float64(int(uniform(rng, 15_000_000_000, 25_000_000_000) * growth)),
			"new_addresses":      float64(int(uniform(rng, 5_000, 15_000) * growth)),
		})
	}
	return rows
}

func fallbackRetention(now time.Time) []domain.Row {
	rng := seeded("user_activation_retention", now)
	baseActivation := map[string]float64{
		"Axie Infinity":      45_000,
		"The Machines Arena": 2_800,
		"Pixels":             1_500,
		"Tearing Spaces":     800,
		"Apeiron":            600,
	}
	baseRetention := map[string]float64{
		"Axie Infinity":      0.65,
		"The Machines Arena": 0.45,
		"Pixels":             0.55,
		"Tearing Spaces":     0.35,
		"Apeiron":            0.40,
	}

	var rows []domain.Row
	for i := 0; i < 12; i++ {
		week := dayStart(now).AddDate(0, 0, (i-11)*7)
		for _, game := range fallbackGames {
			newUsers := float64(int(baseActivation[game] * uniform(rng, 0.6, 1.4)))
			r1w := baseRetention[game] * uniform(rng, 0.8, 1.2)
			r4w := r1w * uniform(rng, 0.3, 0.5)
			rows = append(rows, domain.Row{
				"week":              week.Format(time.RFC3339),
				"project_name":      game,
				"new_users":         newUsers,
				"retained_users_1w": float64(int(newUsers * r1w)),
				"retained_users_4w": float64(int(newUsers * r4w)),
				"retention_rate_1w": r1w,
				"retention_rate_4w": r4w,
			})
		}
	}
	return rows
}

func fallbackHolders(now time.Time) []domain.Row {
	rng := seeded("ron_current_holders", now)
	rows := make([]domain.Row, 0, 50)
	balance := 45_000_000.0
	for i := 1; i <= 50; i++ {
		balance *= uniform(rng, 0.55, 0.85)
		rows = append(rows, domain.Row{
			"address": fmt.Sprintf("0x%040x", i),
			"balance": float64(int(balance)),
		})
	}
	return rows
}

func fallbackSegmentedHolders() []domain.Row {
	ranges := []string{"0-1 RON", "1-10 RON", "10-100 RON", "100-1K RON", "1K-10K RON", "10K-100K RON", "100K+ RON"}
	holders := []float64{125_000, 85_000, 45_000, 18_000, 3_500, 850, 125}
	balances := []float64{45_000, 420_000, 2_800_000, 8_500_000, 15_600_000, 28_400_000, 45_200_000}
	pct := []float64{44.3, 30.1, 15.9, 6.4, 1.2, 0.3, 0.04}

	rows := make([]domain.Row, len(ranges))
	for i, r := range ranges {
		rows[i] = domain.Row{
			"balance_range":         r,
			"holders":               holders[i],
			"total_balance":         balances[i],
			"avg_balance":           balances[i] / holders[i],
			"percentage_of_holders": pct[i],
		}
	}
	return rows
}

func fallbackKatanaPairs() []domain.Row {
	pairs := []string{"WRON/USDC", "WRON/AXS", "WRON/SLP", "WRON/PIXEL"}
	volumes := []float64{125_000_000, 85_000_000, 45_000_000, 25_000_000}
	traders := []float64{15_000, 12_000, 8_500, 5_000}
	trades := []float64{450_000, 320_000, 180_000, 95_000}

	rows := make([]domain.Row, len(pairs))
	for i, pair := range pairs {
		rows[i] = domain.Row{
			"pair":           pair,
			"volume_usd":     volumes[i],
			"unique_traders": traders[i],
			"trades":         trades[i],
		}
	}
	return rows
}

func fallbackWhales(now time.Time) []domain.Row {
	rng := seeded("wron_whale_tracking", now)
	rows := make([]domain.Row, 0, 20)
	for i := 1; i <= 20; i++ {
		volume := uniform(rng, 500_000, 5_000_000)
		trades := float64(int(uniform(rng, 25, 200)))
		firstTrade := dayStart(now).AddDate(0, 0, -int(uniform(rng, 30, 365)))
		lastTrade := dayStart(now).AddDate(0, 0, -int(uniform(rng, 0, 7)))
		rows = append(rows, domain.Row{
			"trader_address":     fmt.Sprintf("0x%040x", i),
			"total_volume_usd":   volume,
			"trade_count":        trades,
			"avg_trade_size_usd": volume / trades,
			"profit_loss_usd":    uniform(rng, -200_000, 800_000),
			"first_trade_date":   firstTrade.UTC().Format(time.RFC3339),
			"last_trade_date":    lastTrade.UTC().Format(time.RFC3339),
			"active_days":        float64(int(lastTrade.Sub(firstTrade).Hours() / 24)),
			"win_rate":           uniform(rng, 0.35, 0.75),
		})
	}
	return rows
}

func fallbackVolumeLiquidity(now time.Time) []domain.Row {
	rng := seeded("wron_volume_liquidity", now)
	baseVolume := map[string]float64{
		"WRON/USDC":  8_500_000,
		"WRON/AXS":   3_200_000,
		"WRON/SLP":   1_800_000,
		"WRON/PIXEL": 950_000,
		"WRON/ETH":   1_200_000,
	}
	pairs := []string{"WRON/USDC", "WRON/AXS", "WRON/SLP", "WRON/PIXEL", "WRON/ETH"}

	var rows []domain.Row
	for i := 0; i < 30; i++ {
		day := dayStart(now).AddDate(0, 0, i-29)
		weekend := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = 0.7
		}
		for _, pair := range pairs {
			volume := baseVolume[pair] * uniform(rng, 0.4, 1.8) * weekend
			trades := float64(int(volume / uniform(rng, 800, 2_000)))
			if trades < 1 {
				trades = 1
			}
			rows = append(rows, domain.Row{
				"date":           day.Format(time.RFC3339),
				"pair":           pair,
				"volume_usd":     volume,
				"liquidity_usd":  volume * uniform(rng, 2.5, 4.2),
				"trades":         trades,
				"unique_traders": float64(int(volume / uniform(rng, 5_000, 12_000))),
				"avg_trade_size": volume / trades,
			})
		}
	}
	return rows
}

func fallbackHourly() []domain.Row {
	volume := []float64{
		2_400_000, 1_800_000, 1_200_000, 800_000, 900_000, 1_400_000,
		2_800_000, 4_200_000, 5_800_000, 7_200_000, 8_100_000, 8_800_000,
		9_200_000, 8_600_000, 8_900_000, 9_500_000, 8_800_000, 8_200_000,
		7_400_000, 6_200_000, 5_100_000, 4_200_000, 3_400_000, 2_900_000,
	}
	trades := []float64{
		1200, 950, 680, 420, 480, 720,
		1450, 2200, 3100, 3800, 4200, 4600,
		4850, 4500, 4650, 4950, 4600, 4300,
		3850, 3200, 2680, 2200, 1780, 1520,
	}
	traders := []float64{
		450, 320, 180, 95, 125, 280,
		580, 950, 1350, 1650, 1850, 2100,
		2250, 2050, 2150, 2300, 2100, 1950,
		1700, 1400, 1150, 850, 650, 520,
	}

	rows := make([]domain.Row, 24)
	for h := 0; h < 24; h++ {
		rows[h] = domain.Row{
			"hour":               float64(h),
			"avg_volume_usd":     volume[h],
			"avg_trades":         trades[h],
			"avg_unique_traders": traders[h],
		}
	}
	return rows
}

func fallbackWeeklySegmentation(now time.Time) []domain.Row {
	rng := seeded("wron_weekly_segmentation", now)
	rows := make([]domain.Row, 0, 12)
	for i := 0; i < 12; i++ {
		week := dayStart(now).AddDate(0, 0, (i-11)*7)
		growth := 1 + float64(i)*0.05

		retail := float64(int(uniform(rng, 15_000, 25_000) * growth))
		smallWhales := float64(int(uniform(rng, 800, 1_500) * growth))
		largeWhales := float64(int(uniform(rng, 50, 150)))

		retailVol := retail * uniform(rng, 1_500, 2_500)
		smallVol := smallWhales * uniform(rng, 40_000, 80_000)
		largeVol := largeWhales * uniform(rng, 500_000, 1_200_000)

		rows = append(rows, domain.Row{
			"week":                   week.Format(time.RFC3339),
			"retail_traders":         retail,
			"small_whales":           smallWhales,
			"large_whales":           largeWhales,
			"retail_volume_usd":      retailVol,
			"small_whale_volume_usd": smallVol,
			"large_whale_volume_usd": largeVol,
			"total_volume_usd":       retailVol + smallVol + largeVol,
		})
	}
	return rows
}

func fallbackNFTCollections() []domain.Row {
	addrs := []string{"0x32950db2a7164ae833121501c797d79e7b79d74c", "0x8c811e3c958e190f5ec15fb376533a3398620500", "0x97a9107c1793bc407d6f527b77e7fff4d812bece"}
	holders := []float64{25_000, 15_000, 8_500}
	sales := []float64{125_000, 85_000, 45_000}
	volumes := []float64{8_500_000, 4_200_000, 1_800_000}
	floors := []float64{25.50, 15.75, 8.25}
	platformFees := []float64{212_500, 105_000, 45_000}
	roninFees := []float64{85_000, 42_000, 18_000}
	royalties := []float64{425_000, 210_000, 90_000}

	rows := make([]domain.Row, len(addrs))
	for i, addr := range addrs {
		rows[i] = domain.Row{
			"contract_address":      addr,
			"holders":               holders[i],
			"sales":                 sales[i],
			"sales_volume_usd":      volumes[i],
			"floor_price_usd":       floors[i],
			"platform_fees_usd":     platformFees[i],
			"ronin_fees_usd":        roninFees[i],
			"creator_royalties_usd": royalties[i],
			"total_revenue_usd":     platformFees[i] + roninFees[i] + royalties[i],
		}
	}
	return rows
}

// seeded returns a deterministic random source keyed by dataset key and the
// reference day, so fallback values stay stable within a day but drift over
// time like real data would.
func seeded(key string, now time.Time) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(key))
	h.Write([]byte(dayStart(now).Format(time.DateOnly)))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
