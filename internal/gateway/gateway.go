// Package gateway is the single entry point for external data: it layers the
// TTL cache, provider clients, retry policy, and fallback generators into one
// fetch path per dataset and stamps every result with its provenance.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/defijosh/ronintracker/internal/config"
	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/normalize"
	"github.com/defijosh/ronintracker/internal/platform/coingecko"
	"github.com/defijosh/ronintracker/internal/retry"
)

// SnapshotProvider fetches the RON market record.
type SnapshotProvider interface {
	GetCoin(ctx context.Context, id string) (*coingecko.CoinResponse, error)
}

// QueryProvider fetches the latest materialized rows of a saved query.
type QueryProvider interface {
	LatestResults(ctx context.Context, queryID int) ([]map[string]any, error)
}

// Gateway resolves dataset keys to fresh data: cache first, then the live
// provider under the retry policy, then the deterministic fallback. A
// gateway never returns an empty-handed error for a registered key; the
// worst case is fallback data marked as such.
type Gateway struct {
	snapshots SnapshotProvider
	queries   QueryProvider
	cache     domain.CacheStore
	logger    *slog.Logger

	hasCoinGeckoKey bool
	hasDuneKey      bool
	coingeckoDelay  time.Duration
	duneDelay       time.Duration
	policy          retry.Policy

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// New builds a gateway from the provider configuration. Either provider may
// be nil when its credentials are absent; the corresponding fetches then
// serve fallback data immediately.
func New(cfg config.ProvidersConfig, snapshots SnapshotProvider, queries QueryProvider, cache domain.CacheStore, logger *slog.Logger) *Gateway {
	return &Gateway{
		snapshots:       snapshots,
		queries:         queries,
		cache:           cache,
		logger:          logger.With(slog.String("component", "gateway")),
		hasCoinGeckoKey: snapshots != nil && cfg.HasCoinGeckoKey(),
		hasDuneKey:      queries != nil && cfg.HasDuneKey(),
		coingeckoDelay:  cfg.CoinGeckoDelay,
		duneDelay:       cfg.DuneDelay,
		policy: retry.Policy{
			MaxRetries: cfg.MaxRetries,
			Delay:      retry.Linear(cfg.RetryBaseDelay),
			Retryable:  retryableProviderError,
		},
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// retryableProviderError rejects structural failures: a payload the provider
// says is complete but malformed will not improve on retry.
func retryableProviderError(err error) bool {
	return !errors.Is(err, domain.ErrInvalidPayload)
}

// FetchSnapshot returns the RON market snapshot dataset. Order of
// preference: cache, live provider, fallback. The returned dataset always
// carries a snapshot; the error is non-nil only for context cancellation.
func (g *Gateway) FetchSnapshot(ctx context.Context) (*domain.Dataset, error) {
	if ds, ok := g.cache.Get(ctx, SnapshotKey); ok && ds.Snapshot != nil {
		return ds, nil
	}

	if !g.hasCoinGeckoKey {
		g.logger.Warn("market provider key missing, serving fallback snapshot")
		return g.fallbackSnapshotDataset(), nil
	}

	var coin *coingecko.CoinResponse
	err := retry.Do(ctx, g.policy, g.logger, "fetch market snapshot", func(ctx context.Context) error {
		var ferr error
		coin, ferr = g.snapshots.GetCoin(ctx, "ronin")
		return ferr
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("gateway: fetch snapshot: %w", err)
		}
		g.logger.Warn("market snapshot fetch failed, serving fallback", slog.Any("error", err))
		return g.fallbackSnapshotDataset(), nil
	}
	g.sleep(ctx, g.coingeckoDelay)

	snap := g.mapSnapshot(coin)
	ds := &domain.Dataset{
		Key:       SnapshotKey,
		Snapshot:  snap,
		Source:    domain.SourceLive,
		FetchedAt: g.now().UTC(),
	}
	if err := g.cache.Put(ctx, SnapshotKey, ds); err != nil {
		g.logger.Warn("cache snapshot", slog.Any("error", err))
	}
	return ds, nil
}

// mapSnapshot converts the provider payload to the canonical record, filling
// absent numerics with the documented baseline constants.
func (g *Gateway) mapSnapshot(coin *coingecko.CoinResponse) *domain.MarketSnapshot {
	md := coin.MarketData

	snap := &domain.MarketSnapshot{
		Name:              orStr(coin.Name, "Ronin"),
		Symbol:            strings.ToUpper(orStr(coin.Symbol, "RON")),
		PriceUSD:          orNum(coingecko.USD(md.CurrentPrice), 2.15),
		MarketCapUSD:      orNum(coingecko.USD(md.MarketCap), 700_000_000),
		Volume24hUSD:      orNum(coingecko.USD(md.TotalVolume), 45_000_000),
		CirculatingSupply: orNum(deref(md.CirculatingSupply), 325_000_000),
		TotalSupply:       orNum(deref(md.TotalSupply), 1_000_000_000),
		PriceChange24hPct: deref(md.PriceChange24h),
		PriceChange7dPct:  deref(md.PriceChange7d),
		PriceChange30dPct: deref(md.PriceChange30d),
		MarketCapRank:     85,
		LastUpdated:       g.now().UTC(),
		DataSource:        domain.SourceLive,
	}
	if md.MarketCapRank != nil && *md.MarketCapRank > 0 {
		snap.MarketCapRank = *md.MarketCapRank
	}
	snap.TVLUSD = coingecko.USD(md.TotalValueLocked)
	if snap.TVLUSD == 0 {
		snap.TVLUSD = snap.MarketCapUSD * 0.25
	}
	if snap.TVLUSD > 0 {
		snap.McapToTVLRatio = snap.MarketCapUSD / snap.TVLUSD
	}
	return snap
}

// FetchQuery returns the dataset for a registered query key. Unknown keys
// fail fast with domain.ErrUnknownDataset; every registered key resolves to
// cached, live, or fallback data.
func (g *Gateway) FetchQuery(ctx context.Context, key string) (*domain.Dataset, error) {
	spec, ok := LookupQuery(key)
	if !ok {
		return nil, fmt.Errorf("gateway: query %q: %w", key, domain.ErrUnknownDataset)
	}

	if ds, ok := g.cache.Get(ctx, key); ok {
		return ds, nil
	}

	if !g.hasDuneKey {
		g.logger.Warn("query provider key missing, serving fallback table", slog.String("dataset", key))
		return FallbackTable(key, g.now()), nil
	}

	var raw []map[string]any
	err := retry.Do(ctx, g.policy, g.logger, "fetch "+key, func(ctx context.Context) error {
		var ferr error
		raw, ferr = g.queries.LatestResults(ctx, spec.ID)
		return ferr
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("gateway: fetch %s: %w", key, err)
		}
		g.logger.Warn("query fetch failed, serving fallback table",
			slog.String("dataset", key), slog.Any("error", err))
		return FallbackTable(key, g.now()), nil
	}
	g.sleep(ctx, g.duneDelay)

	rows := normalize.Rows(toRows(raw), spec.Rules)
	if len(rows) > 0 && !hasColumns(rows, spec.Required) {
		g.logger.Warn("query result missing required columns, serving fallback table",
			slog.String("dataset", key))
		return FallbackTable(key, g.now()), nil
	}

	ds := &domain.Dataset{
		Key:       key,
		Columns:   normalize.Columns(rows),
		Rows:      rows,
		Source:    domain.SourceLive,
		FetchedAt: g.now().UTC(),
	}
	if err := g.cache.Put(ctx, key, ds); err != nil {
		g.logger.Warn("cache dataset", slog.String("dataset", key), slog.Any("error", err))
	}
	return ds, nil
}

func (g *Gateway) fallbackSnapshotDataset() *domain.Dataset {
	now := g.now()
	return &domain.Dataset{
		Key:       SnapshotKey,
		Snapshot:  FallbackSnapshot(now),
		Source:    domain.SourceFallback,
		FetchedAt: now.UTC(),
	}
}

func toRows(raw []map[string]any) []domain.Row {
	rows := make([]domain.Row, len(raw))
	for i, m := range raw {
		rows[i] = domain.Row(m)
	}
	return rows
}

func hasColumns(rows []domain.Row, required []string) bool {
	for _, col := range required {
		if _, ok := rows[0][col]; !ok {
			return false
		}
	}
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func orStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func orNum(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
