package coingecko

// CoinResponse is the subset of the CoinGecko /coins/{id} payload the tracker
// consumes. Everything else in the (very large) response is ignored.
type CoinResponse struct {
	Name       string      `json:"name"`
	Symbol     string      `json:"symbol"`
	MarketData *MarketData `json:"market_data"`
}

// MarketData holds the nested market fields, all keyed by currency.
type MarketData struct {
	CurrentPrice      map[string]float64 `json:"current_price"`
	MarketCap         map[string]float64 `json:"market_cap"`
	TotalVolume       map[string]float64 `json:"total_volume"`
	TotalValueLocked  map[string]float64 `json:"total_value_locked"`
	CirculatingSupply *float64           `json:"circulating_supply"`
	TotalSupply       *float64           `json:"total_supply"`
	PriceChange24h    *float64           `json:"price_change_percentage_24h"`
	PriceChange7d     *float64           `json:"price_change_percentage_7d"`
	PriceChange30d    *float64           `json:"price_change_percentage_30d"`
	MarketCapRank     *int               `json:"market_cap_rank"`
}

// USD returns the USD entry of a currency map, or 0 when absent.
func USD(m map[string]float64) float64 {
	if m == nil {
		return 0
	}
	return m["usd"]
}
