package dune

// ResultsResponse is the latest-results envelope returned by
// GET /query/{id}/results.
type ResultsResponse struct {
	ExecutionID string  `json:"execution_id"`
	QueryID     int     `json:"query_id"`
	State       string  `json:"state"`
	Result      *Result `json:"result"`
}

// Result wraps the materialized rows of a query execution.
type Result struct {
	Rows     []map[string]any `json:"rows"`
	Metadata *ResultMetadata  `json:"metadata"`
}

// ResultMetadata carries the column names Dune reports for the result set.
type ResultMetadata struct {
	ColumnNames []string `json:"column_names"`
	RowCount    int      `json:"total_row_count"`
}
