// Package domain defines the canonical data types shared across the Ronin
// ecosystem tracker: datasets fetched from external providers, the market
// snapshot record, analytics score results, and the interfaces implemented by
// the cache, blob, and store layers.
package domain

import (
	"time"
)

// Provenance marks where a dataset came from, so callers can surface data
// freshness to the dashboard instead of presenting synthetic data as live.
type Provenance string

const (
	// SourceLive marks data fetched from the upstream provider in this call.
	SourceLive Provenance = "live"
	// SourceCached marks data served from the local cache within its TTL.
	SourceCached Provenance = "cached"
	// SourceFallback marks deterministic synthetic data produced because the
	// provider was unavailable or unconfigured.
	SourceFallback Provenance = "fallback"
)

// Row is a single table row: column name to scalar value. Values are limited
// to the JSON scalar set (string, float64, bool, nil) so a row survives a
// cache round-trip unchanged. Temporal values are RFC 3339 strings.
type Row map[string]any

// Float returns the numeric value of a column, or 0 when the column is
// absent, null, or not numeric.
func (r Row) Float(col string) float64 {
	v, ok := r[col]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// String returns the string value of a column, or "" when absent or not a
// string.
func (r Row) String(col string) string {
	if v, ok := r[col]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Time parses the column as an RFC 3339 timestamp. The zero time is returned
// when the column is absent or unparsable.
func (r Row) Time(col string) time.Time {
	s := r.String(col)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is a named, versionless table or a single structured record
// (snapshot data). A dataset is created whole on fetch and replaced whole on
// the next successful fetch; it is never partially mutated.
type Dataset struct {
	Key       string           `json:"key"`
	Columns   []string         `json:"columns,omitempty"`
	Rows      []Row            `json:"rows"`
	Snapshot  *MarketSnapshot  `json:"snapshot,omitempty"`
	Source    Provenance       `json:"source"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Empty reports whether the dataset carries neither rows nor a snapshot.
// A zero-row table from a successful query is NOT empty in the provider
// sense; use len(Rows) for that distinction.
func (d *Dataset) Empty() bool {
	return d == nil || (len(d.Rows) == 0 && d.Snapshot == nil)
}

// Clone returns a deep-enough copy for safe concurrent reads: rows are
// copied, scalar values are shared.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := *d
	out.Columns = append([]string(nil), d.Columns...)
	out.Rows = make([]Row, len(d.Rows))
	for i, r := range d.Rows {
		out.Rows[i] = r.Clone()
	}
	if d.Snapshot != nil {
		snap := *d.Snapshot
		out.Snapshot = &snap
	}
	return &out
}

// MarketSnapshot is the canonical RON token market record mapped from the
// market-snapshot provider. Numeric fields are never absent: missing upstream
// values are filled with documented fallback constants.
type MarketSnapshot struct {
	Name              string     `json:"name"`
	Symbol            string     `json:"symbol"`
	PriceUSD          float64    `json:"price_usd"`
	MarketCapUSD      float64    `json:"market_cap_usd"`
	Volume24hUSD      float64    `json:"volume_24h_usd"`
	CirculatingSupply float64    `json:"circulating_supply"`
	TotalSupply       float64    `json:"total_supply"`
	PriceChange24hPct float64    `json:"price_change_24h_pct"`
	PriceChange7dPct  float64    `json:"price_change_7d_pct"`
	PriceChange30dPct float64    `json:"price_change_30d_pct"`
	MarketCapRank     int        `json:"market_cap_rank"`
	TVLUSD            float64    `json:"tvl_usd"`
	McapToTVLRatio    float64    `json:"mcap_to_tvl_ratio"`
	LastUpdated       time.Time  `json:"last_updated"`
	DataSource        Provenance `json:"data_source"`
}

// WhaleAlert is raised when a single trade crosses the configured USD
// threshold.
type WhaleAlert struct {
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	VolumeUSD float64   `json:"volume_usd"`
	Trader    string    `json:"trader,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
