package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defijosh/ronintracker/internal/domain"
)

func TestRowsCoercesNumericsAndDates(t *testing.T) {
	rules := Rules{
		DateColumn: "date",
		Numeric:    []string{"daily_transactions", "active_wallets"},
	}
	in := []domain.Row{
		{"date": "2026-08-01 00:00:00", "daily_transactions": "120000", "active_wallets": 54000.0},
		{"date": "not a date", "daily_transactions": math.NaN(), "active_wallets": math.Inf(1)},
	}

	out := Rows(in, rules)
	require.Len(t, out, 2)

	// Unparsable date sorts first.
	assert.Nil(t, out[0]["date"])
	assert.Equal(t, float64(0), out[0]["daily_transactions"])
	assert.Equal(t, float64(0), out[0]["active_wallets"])

	assert.Equal(t, "2026-08-01T00:00:00Z", out[1]["date"])
	assert.Equal(t, float64(120000), out[1]["daily_transactions"])
	assert.Equal(t, float64(54000), out[1]["active_wallets"])
}

func TestRowsIdempotent(t *testing.T) {
	rules := Rules{
		DateColumn: "date",
		Numeric:    []string{"volume_usd"},
		Renames:    map[string]string{"volume (USD)": "volume_usd"},
	}
	in := []domain.Row{
		{"date": "2026-08-02T00:00:00Z", "volume (USD)": "12.5", "pair": nil},
		{"date": "2026-08-01T00:00:00Z", "volume (USD)": 99.0, "pair": "RON/USDC"},
	}

	once := Rows(in, rules)
	twice := Rows(once, rules)
	assert.Equal(t, once, twice)
	assert.Equal(t, "Unknown", once[1]["pair"])
}

func TestRowsDedupKeepsLastAndSorts(t *testing.T) {
	rules := Rules{DateColumn: "date", Numeric: []string{"v"}}
	in := []domain.Row{
		{"date": "2026-08-03", "v": 3.0},
		{"date": "2026-08-01", "v": 1.0},
		{"date": "2026-08-03", "v": 30.0},
	}

	out := Rows(in, rules)
	require.Len(t, out, 2)
	assert.Equal(t, "2026-08-01T00:00:00Z", out[0]["date"])
	assert.Equal(t, float64(30), out[1]["v"])
}

func TestRowsDerivedNeedsAllSources(t *testing.T) {
	rules := Rules{
		Numeric: []string{"platform_fees_usd", "ronin_fees_usd", "creator_royalties_usd"},
		Derived: []Derived{{
			Name:    "total_revenue_usd",
			Sources: []string{"platform_fees_usd", "ronin_fees_usd", "creator_royalties_usd"},
		}},
	}

	full := Rows([]domain.Row{
		{"platform_fees_usd": 100.0, "ronin_fees_usd": 40.0, "creator_royalties_usd": 200.0},
	}, rules)
	assert.Equal(t, float64(340), full[0]["total_revenue_usd"])

	partial := Rows([]domain.Row{
		{"platform_fees_usd": 100.0, "ronin_fees_usd": 40.0},
	}, rules)
	_, present := partial[0]["total_revenue_usd"]
	assert.False(t, present)
}

func TestColumnsUnionSorted(t *testing.T) {
	cols := Columns([]domain.Row{
		{"b": 1.0, "a": 2.0},
		{"c": 3.0},
	})
	assert.Equal(t, []string{"a", "b", "c"}, cols)
}
