package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/defijosh/ronintracker/internal/domain"
)

// ScoreHistoryStore implements domain.ScoreHistoryStore using PostgreSQL.
type ScoreHistoryStore struct {
	pool *pgxpool.Pool
}

// NewScoreHistoryStore creates a ScoreHistoryStore backed by the given pool.
func NewScoreHistoryStore(pool *pgxpool.Pool) *ScoreHistoryStore {
	return &ScoreHistoryStore{pool: pool}
}

// Record persists the summary scores of a computed scorecard.
func (s *ScoreHistoryStore) Record(ctx context.Context, sc *domain.Scorecard) error {
	if sc == nil {
		return fmt.Errorf("postgres: record score: nil scorecard")
	}

	const query = `
		INSERT INTO score_history (
			health_score, health_status, whale_impact,
			diversity, game_dominance, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		sc.Health.Score, sc.Health.Status, sc.Whale.Score,
		sc.Diversity.Score, sc.GameDominance, sc.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: record score: %w", err)
	}
	return nil
}

// ListRecent returns up to limit score snapshots, newest first. A
// non-positive limit defaults to 100.
func (s *ScoreHistoryStore) ListRecent(ctx context.Context, limit int) ([]domain.ScoreSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}

	const query = `
		SELECT health_score, health_status, whale_impact,
			diversity, game_dominance, computed_at
		FROM score_history
		ORDER BY computed_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list scores: %w", err)
	}
	defer rows.Close()

	var snaps []domain.ScoreSnapshot
	for rows.Next() {
		var snap domain.ScoreSnapshot
		if err := rows.Scan(
			&snap.HealthScore, &snap.HealthStatus, &snap.WhaleImpact,
			&snap.Diversity, &snap.GameDominance, &snap.ComputedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan score: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list scores: %w", err)
	}
	return snaps, nil
}
