// Package normalize turns raw provider rows into canonical dataset rows.
// Normalization is pure and idempotent: running it twice over the same rules
// yields identical output.
package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
)

// Derived describes a column computed from other numeric columns. It is only
// added when every source column is present in the row.
type Derived struct {
	Name    string
	Sources []string
}

// Rules is the per-dataset cleaning recipe.
type Rules struct {
	// DateColumn is the primary temporal key. Rows are de-duplicated on it
	// (keeping the last occurrence) and sorted ascending by it. Empty means
	// the dataset has no temporal key.
	DateColumn string
	// Numeric columns are coerced to float64; unparsable, NaN, and infinite
	// values become 0.
	Numeric []string
	// Renames maps provider column names to canonical names, applied first.
	Renames map[string]string
	// Derived columns computed after numeric coercion.
	Derived []Derived
}

// dateLayouts covers the timestamp shapes the upstream query engines emit.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999 MST",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Rows applies the rules to every row and returns a new slice. Input rows are
// not mutated.
func Rows(in []domain.Row, r Rules) []domain.Row {
	out := make([]domain.Row, 0, len(in))
	for _, raw := range in {
		out = append(out, normalizeRow(raw, r))
	}
	if r.DateColumn != "" {
		out = dedupeLast(out, r.DateColumn)
		sort.SliceStable(out, func(i, j int) bool {
			return sortKey(out[i], r.DateColumn) < sortKey(out[j], r.DateColumn)
		})
	}
	return out
}

// Columns returns the sorted union of column names across rows.
func Columns(rows []domain.Row) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		for col := range row {
			seen[col] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func normalizeRow(raw domain.Row, r Rules) domain.Row {
	row := make(domain.Row, len(raw))
	for col, v := range raw {
		if canonical, ok := r.Renames[col]; ok {
			col = canonical
		}
		row[col] = v
	}

	if r.DateColumn != "" {
		row[r.DateColumn] = ParseDate(row[r.DateColumn])
	}

	numeric := make(map[string]struct{}, len(r.Numeric))
	for _, col := range r.Numeric {
		numeric[col] = struct{}{}
		if _, ok := row[col]; ok {
			row[col] = Number(row[col])
		}
	}

	for _, d := range r.Derived {
		sum := 0.0
		complete := true
		for _, src := range d.Sources {
			v, ok := row[src]
			if !ok {
				complete = false
				break
			}
			sum += Number(v).(float64)
		}
		if complete {
			row[d.Name] = sum
			numeric[d.Name] = struct{}{}
		}
	}

	for col, v := range row {
		if v != nil {
			continue
		}
		if _, isNumeric := numeric[col]; isNumeric {
			row[col] = float64(0)
			continue
		}
		if col != r.DateColumn {
			row[col] = "Unknown"
		}
	}
	return row
}

// ParseDate coerces a raw temporal value to an RFC 3339 string, or nil when
// it cannot be parsed. RFC 3339 input passes through unchanged, which keeps
// the transform idempotent.
func ParseDate(v any) any {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return nil
}

// Number coerces a raw scalar to float64. Unparsable strings, NaN, and
// infinities collapse to 0.
func Number(v any) any {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case bool:
		if n {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return float64(0)
		}
		f = parsed
	default:
		return float64(0)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return float64(0)
	}
	return f
}

func dedupeLast(rows []domain.Row, key string) []domain.Row {
	last := make(map[string]int, len(rows))
	for i, row := range rows {
		last[sortKey(row, key)] = i
	}
	out := make([]domain.Row, 0, len(last))
	for i, row := range rows {
		if last[sortKey(row, key)] == i {
			out = append(out, row)
		}
	}
	return out
}

// sortKey orders rows by their temporal key. Rows with an unparsable date
// sort first and collapse together during de-duplication.
func sortKey(row domain.Row, key string) string {
	if s, ok := row[key].(string); ok {
		return s
	}
	return ""
}
