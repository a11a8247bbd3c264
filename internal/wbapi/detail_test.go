package wbapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wb-ledger-bot/internal/config"
	"wb-ledger-bot/internal/types"
)

func TestDetailReportChunksRange(t *testing.T) {
	var ranges [][2]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v5/supplier/reportDetailByPeriod", r.URL.Path)
		assert.Equal(t, "daily", r.URL.Query().Get("period"))
		ranges = append(ranges, [2]string{r.URL.Query().Get("dateFrom"), r.URL.Query().Get("dateTo")})
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(t, func(cfg *config.Config) { cfg.Statistics.BaseURL = srv.URL })
	rows, err := c.DetailReport(context.Background(), day(t, "2024-03-01"), day(t, "2024-03-10"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, [][2]string{
		{"2024-03-01", "2024-03-07"},
		{"2024-03-08", "2024-03-10"},
	}, ranges)
}

func TestDetailReportPaginatesOnRrdID(t *testing.T) {
	pageSize := 2
	all := []types.DetailRow{
		{RrdID: 10, OperationDate: "2024-03-01", NmID: 1, DocTypeName: "Продажа", RetailAmount: 100},
		{RrdID: 20, OperationDate: "2024-03-01", NmID: 2, DocTypeName: "Продажа", RetailAmount: 200},
		{RrdID: 30, OperationDate: "2024-03-02", NmID: 1, DocTypeName: "Возврат", RetailAmount: 50},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("rrdid")
		var page []types.DetailRow
		for _, row := range all {
			if len(page) == pageSize {
				break
			}
			if cursorAfter(cursor, row.RrdID) {
				page = append(page, row)
			}
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	c := testClient(t, func(cfg *config.Config) {
		cfg.Statistics.BaseURL = srv.URL
		cfg.Statistics.PageLimit = pageSize
	})
	rows, err := c.DetailReport(context.Background(), day(t, "2024-03-01"), day(t, "2024-03-02"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(30), rows[2].RrdID)
}

func cursorAfter(cursor string, rrdID int64) bool {
	switch cursor {
	case "0":
		return true
	case "20":
		return rrdID > 20
	default:
		return false
	}
}

func TestDetailReportAbortsOnChunkFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("dateFrom") == "2024-03-08" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`[{"rrd_id":1,"rr_dt":"2024-03-01","nm_id":5,"doc_type_name":"Продажа"}]`))
	}))
	defer srv.Close()

	c := testClient(t, func(cfg *config.Config) { cfg.Statistics.BaseURL = srv.URL })
	_, err := c.DetailReport(context.Background(), day(t, "2024-03-01"), day(t, "2024-03-10"))
	require.Error(t, err, "a failed chunk must abort the whole range")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestDetailReportNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	c := testClient(t, func(cfg *config.Config) { cfg.Statistics.BaseURL = srv.URL })
	rows, err := c.DetailReport(context.Background(), day(t, "2024-03-01"), day(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
