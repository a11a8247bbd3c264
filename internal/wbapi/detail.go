package wbapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wb-ledger-bot/internal/logger"
	"wb-ledger-bot/internal/types"
)

// DetailReport pulls reportDetailByPeriod for a window. The provider
// caps the range per call, so the window is split into chunks; inside a
// chunk pages advance on the rrdid cursor until a short page arrives.
// Any chunk failure aborts the whole range: a partial financial report
// silently understates costs.
func (c *Client) DetailReport(ctx context.Context, from, to time.Time) ([]types.DetailRow, error) {
	start, end := WindowBounds(from, to, c.loc)
	endpoint := c.cfg.Statistics.BaseURL + "/api/v5/supplier/reportDetailByPeriod"

	var rows []types.DetailRow
	for _, chunk := range ChunkRanges(start, end, c.cfg.Statistics.ChunkDays) {
		var rrdid int64
		for {
			query := url.Values{}
			query.Set("dateFrom", chunk.From.Format(DayLayout))
			query.Set("dateTo", chunk.To.Format(DayLayout))
			query.Set("period", "daily")
			query.Set("limit", strconv.Itoa(c.cfg.Statistics.PageLimit))
			query.Set("rrdid", strconv.FormatInt(rrdid, 10))

			body, err := c.stats.Do(ctx, http.MethodGet, endpoint, query, nil)
			if err != nil {
				return nil, fmt.Errorf("detail report %s..%s rrdid=%d: %w",
					chunk.From.Format(DayLayout), chunk.To.Format(DayLayout), rrdid, err)
			}

			var page []types.DetailRow
			if len(body) > 0 && string(body) != "null" {
				if err := json.Unmarshal(body, &page); err != nil {
					return nil, fmt.Errorf("decode detail page rrdid=%d: %w", rrdid, err)
				}
			}
			if len(page) == 0 {
				break
			}
			rows = append(rows, page...)
			rrdid = page[len(page)-1].RrdID

			if len(page) < c.cfg.Statistics.PageLimit {
				break
			}
			if err := c.sleep(ctx, time.Duration(c.cfg.Statistics.PagePacingSeconds)*time.Second); err != nil {
				return nil, err
			}
		}
	}

	logger.Info(ctx, "detail report fetched",
		"window_from", start.Format(DayLayout), "window_to", end.Format(DayLayout),
		"rows", len(rows))
	return rows, nil
}
