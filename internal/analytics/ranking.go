package analytics

import (
	"sort"

	"github.com/defijosh/ronintracker/internal/domain"
)

// RankGames scores each game by max-normalizing its user, transaction, and
// volume measures to [0, 100] and averaging whichever of them are present.
// The result is sorted descending by composite score; ties keep input order.
func RankGames(games []domain.Row) []domain.GameScore {
	if len(games) == 0 {
		return nil
	}

	users := column(games, "unique_users")
	txs := column(games, "total_transactions")
	volumes := column(games, "total_volume_ron_sent_to_game")
	hasVolume := columnPresent(games, "total_volume_ron_sent_to_game")

	maxUsers := maxOf(users)
	maxTxs := maxOf(txs)
	maxVolume := maxOf(volumes)

	scores := make([]domain.GameScore, len(games))
	for i, row := range games {
		s := domain.GameScore{
			ProjectName: row.String("project_name"),
			UniqueUsers: users[i],
			TotalTxs:    txs[i],
			VolumeRON:   volumes[i],
			UserScore:   maxNormalize(users[i], maxUsers),
			TxScore:     maxNormalize(txs[i], maxTxs),
		}

		parts := []float64{s.UserScore, s.TxScore}
		if hasVolume {
			s.VolumeScore = maxNormalize(volumes[i], maxVolume)
			parts = append(parts, s.VolumeScore)
		}
		s.PerformanceScore = Mean(parts)

		s.VolumePerUser = volumes[i] / nonZero(users[i])
		s.TxsPerUser = txs[i] / nonZero(users[i])
		scores[i] = s
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].PerformanceScore > scores[j].PerformanceScore
	})
	return scores
}

// maxNormalize maps v to [0, 100] against the column max; an all-zero column
// scores 0.
func maxNormalize(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max * 100
}

func maxOf(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

// nonZero guards ratio denominators, mapping 0 to 1.
func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func columnPresent(rows []domain.Row, col string) bool {
	for _, row := range rows {
		if _, ok := row[col]; ok {
			return true
		}
	}
	return false
}
