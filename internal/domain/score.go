package domain

import "time"

// HealthScore is the composite network health result. Score is always in
// [0, 100]; Deductions and Insights explain how the score was reached and are
// part of the contract, not decoration.
type HealthScore struct {
	Score      float64            `json:"score"`
	Status     string             `json:"status"`
	Metrics    map[string]float64 `json:"metrics"`
	Deductions map[string]float64 `json:"deductions"`
	Insights   []string           `json:"insights"`
}

// GameScore is one entry of the game performance ranking. The *Score fields
// are the per-measure max-normalized values in [0, 100]; PerformanceScore is
// their unweighted mean.
type GameScore struct {
	ProjectName      string  `json:"project_name"`
	UniqueUsers      float64 `json:"unique_users"`
	TotalTxs         float64 `json:"total_transactions"`
	VolumeRON        float64 `json:"total_volume_ron"`
	UserScore        float64 `json:"user_score"`
	TxScore          float64 `json:"tx_score"`
	VolumeScore      float64 `json:"volume_score"`
	PerformanceScore float64 `json:"performance_score"`
	VolumePerUser    float64 `json:"volume_per_user"`
	TxsPerUser       float64 `json:"txs_per_user"`
}

// RetentionMetrics summarizes one project cohort with at least four observed
// periods.
type RetentionMetrics struct {
	Avg1wRetention  float64 `json:"avg_1w_retention"`
	Avg4wRetention  float64 `json:"avg_4w_retention"`
	Stability       float64 `json:"retention_stability"` // [0, 1]
	UserGrowthTrend float64 `json:"user_growth_trend"`
	DataPoints      int     `json:"data_points"`
}

// WhaleImpact is the concentration risk score. When EstimatedTotal is true
// the market volume was approximated as twice the whale volume because no
// independent total was available; treat Dominance as a heuristic in that
// case.
type WhaleImpact struct {
	Score           float64 `json:"score"`
	Dominance       float64 `json:"dominance_pct"`
	Concentration   float64 `json:"concentration_multiplier"`
	WhaleVolumeUSD  float64 `json:"whale_volume_usd"`
	MarketVolumeUSD float64 `json:"market_volume_usd"`
	AvgWhaleVolume  float64 `json:"avg_whale_volume_usd"`
	WhaleCount      int     `json:"whale_count"`
	EstimatedTotal  bool    `json:"estimated_total"`
}

// DiversityIndex holds the ecosystem diversity sub-indices and their combined
// [0, 100] score.
type DiversityIndex struct {
	Score             float64 `json:"diversity_score"`
	ShannonIndex      float64 `json:"shannon_index"`
	NormalizedShannon float64 `json:"normalized_shannon"`
	SimpsonIndex      float64 `json:"simpson_index"`
	GameCount         int     `json:"game_count"`
}

// SectorDominance is the share of combined tracked volume held by each
// ecosystem sector, in percent.
type SectorDominance struct {
	GamingPct float64 `json:"gaming_dominance"`
	DeFiPct   float64 `json:"defi_dominance"`
	NFTPct    float64 `json:"nft_dominance"`
}

// Scorecard bundles every analytics result computed from one load of the
// datasets. Scorecards are recomputed on demand and never cached.
type Scorecard struct {
	Health        HealthScore                 `json:"health"`
	GameRanking   []GameScore                 `json:"game_ranking"`
	GameDominance float64                     `json:"game_dominance_index"`
	Retention     map[string]RetentionMetrics `json:"retention"`
	Whale         WhaleImpact                 `json:"whale_impact"`
	Diversity     DiversityIndex              `json:"diversity"`
	Sectors       SectorDominance             `json:"sectors"`
	Alerts        []WhaleAlert                `json:"alerts"`
	ComputedAt    time.Time                   `json:"computed_at"`
}
