package gateway

import (
	"sort"

	"github.com/defijosh/ronintracker/internal/normalize"
)

// SnapshotKey is the cache key of the RON market snapshot.
const SnapshotKey = "coingecko_ron_data"

// QuerySpec describes one saved analytics query: its upstream ID, the
// columns a usable result must carry, and the normalization recipe.
type QuerySpec struct {
	ID          int
	Description string
	Required    []string
	Rules       normalize.Rules
}

var queryRegistry = map[string]QuerySpec{
	"games_overall_activity": {
		ID:          5779698,
		Description: "Top game contracts overall activity",
		Required:    []string{"contract_address", "project_name", "total_transactions", "unique_users"},
		Rules: normalize.Rules{
			Numeric: []string{"total_transactions", "unique_users", "total_gas_used", "avg_gas_per_tx"},
		},
	},
	"games_daily_activity": {
		ID:          5781579,
		Description: "Top game contracts daily activity",
		Required:    []string{"date", "project_name", "daily_active_users", "daily_transactions"},
		Rules: normalize.Rules{
			DateColumn: "date",
			Numeric:    []string{"daily_active_users", "daily_transactions", "daily_gas_used"},
		},
	},
	"ronin_daily_activity": {
		ID:          5779439,
		Description: "Daily Ronin network activity",
		Required:    []string{"date", "daily_transactions", "active_addresses"},
		Rules: normalize.Rules{
			DateColumn: "date",
			Numeric: []string{
				"daily_transactions", "active_addresses", "avg_gas_price_gwei",
				"total_gas_used", "new_addresses",
			},
			Renames: map[string]string{
				"day":                   "date",
				"active_wallets":        "active_addresses",
				"avg_gas_price_in_gwei": "avg_gas_price_gwei",
			},
		},
	},
	"user_activation_retention": {
		ID:          5783320,
		Description: "Weekly user activation and retention per project",
		Required:    []string{"week", "project_name", "new_users", "retention_rate_1w"},
		Rules: normalize.Rules{
			DateColumn: "week",
			Numeric: []string{
				"new_users", "retained_users_1w", "retained_users_4w",
				"retention_rate_1w", "retention_rate_4w",
			},
		},
	},
	"ron_current_holders": {
		ID:          5783623,
		Description: "RON current holders",
		Required:    []string{"address", "balance"},
		Rules: normalize.Rules{
			Numeric: []string{"balance"},
		},
	},
	"ron_segmented_holders": {
		ID:          5785491,
		Description: "RON holders segmented by balance range",
		Required:    []string{"balance_range", "holders", "total_balance"},
		Rules: normalize.Rules{
			Numeric: []string{"holders", "total_balance", "avg_balance", "percentage_of_holders"},
		},
	},
	"wron_katana_pairs": {
		ID:          5783967,
		Description: "WRON trading pairs on Katana",
		Required:    []string{"pair", "volume_usd"},
		Rules: normalize.Rules{
			Numeric: []string{"volume_usd", "trades", "unique_traders"},
			Renames: map[string]string{
				"Active Pairs":             "pair",
				"Total Trade Volume (USD)": "volume_usd",
				"Active Traders":           "unique_traders",
				"Total Transactions":       "trades",
			},
		},
	},
	"wron_whale_tracking": {
		ID:          5784215,
		Description: "WRON whale trader tracking on Katana",
		Required:    []string{"trader_address", "total_volume_usd", "trade_count"},
		Rules: normalize.Rules{
			Numeric: []string{
				"total_volume_usd", "trade_count", "avg_trade_size_usd",
				"profit_loss_usd", "active_days", "win_rate",
			},
		},
	},
	"wron_volume_liquidity": {
		ID:          5784210,
		Description: "WRON trading volume and liquidity flow",
		Required:    []string{"date", "pair", "volume_usd", "liquidity_usd"},
		Rules: normalize.Rules{
			DateColumn: "date",
			Numeric: []string{
				"volume_usd", "liquidity_usd", "trades", "unique_traders", "avg_trade_size",
			},
		},
	},
	"wron_hourly_activity": {
		ID:          5785066,
		Description: "WRON trading by hour of day",
		Required:    []string{"hour", "avg_volume_usd", "avg_trades"},
		Rules: normalize.Rules{
			Numeric: []string{"hour", "avg_volume_usd", "avg_trades", "avg_unique_traders"},
		},
	},
	"wron_weekly_segmentation": {
		ID:          5785149,
		Description: "WRON weekly trade volume and user segmentation",
		Required:    []string{"week", "retail_traders", "small_whales", "large_whales"},
		Rules: normalize.Rules{
			DateColumn: "week",
			Numeric: []string{
				"retail_traders", "small_whales", "large_whales",
				"retail_volume_usd", "small_whale_volume_usd", "large_whale_volume_usd",
				"total_volume_usd",
			},
		},
	},
	"nft_collections": {
		ID:          5792320,
		Description: "NFT collections on the Mavis marketplace",
		Required:    []string{"contract_address", "holders", "sales", "sales_volume_usd"},
		Rules: normalize.Rules{
			Numeric: []string{
				"holders", "sales", "sales_volume_usd", "sales_volume_ron",
				"floor_price_usd", "floor_price_ron", "platform_fees_usd",
				"ronin_fees_usd", "creator_royalties_usd",
			},
			Renames: map[string]string{
				"nft_contract_address":          "contract_address",
				"nft contract address":          "contract_address",
				"floor_ron":                     "floor_price_ron",
				"floor_usd":                     "floor_price_usd",
				"floor price (USD)":             "floor_price_usd",
				"volume_ron":                    "sales_volume_ron",
				"volume_usd":                    "sales_volume_usd",
				"sales volume (USD)":            "sales_volume_usd",
				"royalties_usd":                 "creator_royalties_usd",
				"creator royalties (USD)":       "creator_royalties_usd",
				"generated platform fees (USD)": "platform_fees_usd",
				"generated Ronin fees (USD)":    "ronin_fees_usd",
			},
			Derived: []normalize.Derived{{
				Name:    "total_revenue_usd",
				Sources: []string{"platform_fees_usd", "ronin_fees_usd", "creator_royalties_usd"},
			}},
		},
	},
}

// LookupQuery returns the registry entry for a query key.
func LookupQuery(key string) (QuerySpec, bool) {
	spec, ok := queryRegistry[key]
	return spec, ok
}

// QueryKeys returns all registered query keys in sorted order.
func QueryKeys() []string {
	keys := make([]string, 0, len(queryRegistry))
	for k := range queryRegistry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
