package analytics

import (
	"math"

	"github.com/defijosh/ronintracker/internal/domain"
)

// Diversity computes Shannon and Simpson indices over per-game user shares
// and combines them into a [0, 100] score. Fewer than two games with users
// means no meaningful diversity and yields all zeros.
func Diversity(games []domain.Row) domain.DiversityIndex {
	shares := userShares(games)
	if len(shares) < 2 {
		return domain.DiversityIndex{}
	}

	shannon := 0.0
	simpson := 1.0
	for _, p := range shares {
		shannon -= p * math.Log(p)
		simpson -= p * p
	}

	maxShannon := math.Log(float64(len(shares)))
	normShannon := 0.0
	if maxShannon > 0 {
		normShannon = shannon / maxShannon
	}

	return domain.DiversityIndex{
		Score:             Clamp((normShannon+simpson)*50, 0, 100),
		ShannonIndex:      shannon,
		NormalizedShannon: normShannon,
		SimpsonIndex:      simpson,
		GameCount:         len(shares),
	}
}

// GameDominance is the Herfindahl-Hirschman index of per-game user shares
// scaled to [0, 100]. Higher means a more concentrated gaming ecosystem.
func GameDominance(games []domain.Row) float64 {
	shares := userShares(games)
	if len(shares) == 0 {
		return 0
	}

	hhi := 0.0
	for _, p := range shares {
		hhi += p * p
	}
	return Clamp(hhi*100, 0, 100)
}

// Sectors computes each sector's share of the combined tracked volume.
// Gaming volume comes from the games table when it reports one; DeFi from
// the trading volume table; NFT from marketplace sales.
func Sectors(games, volume, nft []domain.Row) domain.SectorDominance {
	gaming := sum(column(games, "total_volume_ron_sent_to_game"))
	defi := sum(column(volume, "volume_usd"))
	nftVol := sum(column(nft, "sales_volume_usd"))

	total := gaming + defi + nftVol
	if total <= 0 {
		return domain.SectorDominance{}
	}
	return domain.SectorDominance{
		GamingPct: gaming / total * 100,
		DeFiPct:   defi / total * 100,
		NFTPct:    nftVol / total * 100,
	}
}

// userShares returns the user-count share of each game with a positive
// unique_users value.
func userShares(games []domain.Row) []float64 {
	var counts []float64
	total := 0.0
	for _, row := range games {
		if u := row.Float("unique_users"); u > 0 {
			counts = append(counts, u)
			total += u
		}
	}
	if total <= 0 {
		return nil
	}
	shares := make([]float64, len(counts))
	for i, c := range counts {
		shares[i] = c / total
	}
	return shares
}
