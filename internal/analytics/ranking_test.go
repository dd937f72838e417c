package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defijosh/ronintracker/internal/domain"
)

func TestRankGamesNormalizesAndSorts(t *testing.T) {
	games := []domain.Row{
		{"project_name": "Pixels", "unique_users": 50.0, "total_transactions": 500.0},
		{"project_name": "Axie Infinity", "unique_users": 100.0, "total_transactions": 1000.0},
	}

	ranked := RankGames(games)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Axie Infinity", ranked[0].ProjectName)
	assert.Equal(t, 100.0, ranked[0].UserScore)
	assert.Equal(t, 100.0, ranked[0].PerformanceScore)
	assert.Equal(t, 50.0, ranked[1].UserScore)
	assert.Equal(t, 50.0, ranked[1].PerformanceScore)
	assert.Equal(t, 10.0, ranked[0].TxsPerUser)
}

func TestRankGamesVolumeColumnOptional(t *testing.T) {
	games := []domain.Row{
		{"project_name": "A", "unique_users": 10.0, "total_transactions": 100.0, "total_volume_ron_sent_to_game": 1000.0},
		{"project_name": "B", "unique_users": 10.0, "total_transactions": 100.0, "total_volume_ron_sent_to_game": 500.0},
	}

	ranked := RankGames(games)
	assert.Equal(t, "A", ranked[0].ProjectName)
	assert.InDelta(t, 100.0, ranked[0].PerformanceScore, 0.01)
	// (100 + 100 + 50) / 3
	assert.InDelta(t, 83.33, ranked[1].PerformanceScore, 0.01)
	assert.Equal(t, 100.0, ranked[0].VolumePerUser)
}

func TestRankGamesZeroMaxScoresZero(t *testing.T) {
	games := []domain.Row{
		{"project_name": "A", "unique_users": 0.0, "total_transactions": 0.0},
	}

	ranked := RankGames(games)
	require.Len(t, ranked, 1)
	assert.Zero(t, ranked[0].PerformanceScore)
	// Guarded denominator: 0 users divides as 1.
	assert.Zero(t, ranked[0].TxsPerUser)
}

func TestRankGamesTiesKeepInputOrder(t *testing.T) {
	games := []domain.Row{
		{"project_name": "First", "unique_users": 10.0, "total_transactions": 10.0},
		{"project_name": "Second", "unique_users": 10.0, "total_transactions": 10.0},
		{"project_name": "Third", "unique_users": 10.0, "total_transactions": 10.0},
	}

	ranked := RankGames(games)
	assert.Equal(t, "First", ranked[0].ProjectName)
	assert.Equal(t, "Second", ranked[1].ProjectName)
	assert.Equal(t, "Third", ranked[2].ProjectName)
}

func TestRankGamesEmptyInput(t *testing.T) {
	assert.Nil(t, RankGames(nil))
}
