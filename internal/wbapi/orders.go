package wbapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wb-ledger-bot/internal/logger"
	"wb-ledger-bot/internal/types"
)

// Orders pulls the supplier/orders feed for a window. The feed paginates
// on lastChangeDate, which is NOT the creation date, so the cursor walks
// past the window end and the result is filtered on the creation
// timestamp afterwards.
func (c *Client) Orders(ctx context.Context, from, to time.Time) ([]types.OrderEvent, error) {
	start, end := WindowBounds(from, to, c.loc)
	endpoint := c.cfg.Statistics.BaseURL + "/api/v1/supplier/orders"

	var raw []types.OrderEvent
	cursor := start.Format(TimeLayout)
	for {
		query := url.Values{}
		query.Set("dateFrom", cursor)
		query.Set("flag", "0")

		body, err := c.stats.Do(ctx, http.MethodGet, endpoint, query, nil)
		if err != nil {
			return nil, fmt.Errorf("orders page at %s: %w", cursor, err)
		}

		var page []types.OrderEvent
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode orders page at %s: %w", cursor, err)
		}
		if len(page) == 0 {
			break
		}
		raw = append(raw, page...)

		last := page[len(page)-1].LastChangeDate
		if last == "" {
			logger.Warn(ctx, "orders page without lastChangeDate cursor, stopping pagination",
				"cursor", cursor, "page_size", len(page))
			break
		}
		lastAt, ok := ParseWBTime(last, c.loc)
		if !ok {
			logger.Warn(ctx, "unparseable lastChangeDate cursor, stopping pagination",
				"cursor", cursor, "value", last)
			break
		}
		if lastAt.After(end) {
			break
		}
		if last == cursor {
			// Provider did not advance the cursor; avoid looping forever.
			break
		}
		cursor = last

		if err := c.sleep(ctx, time.Duration(c.cfg.Statistics.PagePacingSeconds)*time.Second); err != nil {
			return nil, err
		}
	}

	// Keep only events created inside the window.
	orders := make([]types.OrderEvent, 0, len(raw))
	for _, o := range raw {
		created, ok := ParseWBTime(o.Date, c.loc)
		if !ok {
			logger.Warn(ctx, "skipping order with unparseable creation date",
				"nm_id", o.NmID, "date", o.Date)
			continue
		}
		if created.Before(start) || created.After(end) {
			continue
		}
		orders = append(orders, o)
	}
	logger.Info(ctx, "orders fetched",
		"window_from", start.Format(DayLayout), "window_to", end.Format(DayLayout),
		"raw", len(raw), "in_window", len(orders))
	return orders, nil
}
