package analytics

import "github.com/defijosh/ronintracker/internal/domain"

// MinRetentionPeriods is how many weekly observations a project needs before
// its retention metrics are reported.
const MinRetentionPeriods = 4

// Retention summarizes weekly activation and retention per project. Rows are
// expected in ascending week order; projects with fewer than
// MinRetentionPeriods observations are omitted.
func Retention(rows []domain.Row) map[string]domain.RetentionMetrics {
	byProject := map[string][]domain.Row{}
	var order []string
	for _, row := range rows {
		name := row.String("project_name")
		if name == "" {
			continue
		}
		if _, seen := byProject[name]; !seen {
			order = append(order, name)
		}
		byProject[name] = append(byProject[name], row)
	}

	out := map[string]domain.RetentionMetrics{}
	for _, name := range order {
		project := byProject[name]
		if len(project) < MinRetentionPeriods {
			continue
		}

		r1w := column(project, "retention_rate_1w")
		newUsers := column(project, "new_users")

		mean1w := Mean(r1w)
		stability := 0.0
		if mean1w > 0 {
			stability = Clamp01(1 - Stdev(r1w)/mean1w)
		}

		growth := 0.0
		if first := newUsers[0]; first > 0 {
			growth = (newUsers[len(newUsers)-1] - first) / first
		}

		out[name] = domain.RetentionMetrics{
			Avg1wRetention:  mean1w,
			Avg4wRetention:  Mean(column(project, "retention_rate_4w")),
			Stability:       stability,
			UserGrowthTrend: growth,
			DataPoints:      len(project),
		}
	}
	return out
}
