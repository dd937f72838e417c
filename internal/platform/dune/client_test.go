package dune

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defijosh/ronintracker/internal/domain"
)

func TestLatestResultsReturnsRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query/5779698/results", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Dune-API-Key"))
		w.Write([]byte(`{
			"execution_id": "01J0",
			"query_id": 5779698,
			"state": "QUERY_STATE_COMPLETED",
			"result": {
				"rows": [
					{"game": "Axie Infinity", "total_transactions": 120000},
					{"game": "Pixels", "total_transactions": 95000}
				],
				"metadata": {"column_names": ["game", "total_transactions"], "total_row_count": 2}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	rows, err := c.LatestResults(context.Background(), 5779698)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Axie Infinity", rows[0]["game"])
}

func TestLatestResultsEmptyRowsAreValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"state": "QUERY_STATE_COMPLETED", "result": {"rows": []}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	rows, err := c.LatestResults(context.Background(), 5779439)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestLatestResultsMissingResultIsInvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"state": "QUERY_STATE_PENDING"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	_, err := c.LatestResults(context.Background(), 5779439)
	require.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestLatestResultsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	_, err := c.LatestResults(context.Background(), 5779439)
	require.ErrorIs(t, err, domain.ErrRateLimited)
}
