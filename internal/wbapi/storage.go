package wbapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"wb-ledger-bot/internal/logger"
	"wb-ledger-bot/internal/types"
)

func (c *Client) storagePoller() *jobPoller {
	return &jobPoller{
		exec:     c.analytics,
		baseURL:  c.cfg.Analytics.StorageBaseURL,
		interval: time.Duration(c.cfg.Analytics.PollIntervalSecs) * time.Second,
		ceiling:  time.Duration(c.cfg.Analytics.PollCeilingSecs) * time.Second,
		sleep:    c.sleep,
		now:      c.now,
	}
}

// PaidStorageReport fetches paid-storage charges for a window. The
// provider caps one task at a short range, so the window is split into
// chunks with a quota pause between consecutive tasks. Charge dates are
// re-filtered locally: tasks occasionally return rows just outside the
// requested range.
func (c *Client) PaidStorageReport(ctx context.Context, from, to time.Time) ([]types.StorageRow, error) {
	start, end := WindowBounds(from, to, c.loc)
	poller := c.storagePoller()

	var rows []types.StorageRow
	chunks := ChunkRanges(start, end, c.cfg.Analytics.ChunkDays)
	for i, chunk := range chunks {
		if i > 0 {
			if err := c.sleep(ctx, time.Duration(c.cfg.Analytics.ChunkPacingSeconds)*time.Second); err != nil {
				return nil, err
			}
		}

		query := url.Values{}
		query.Set("dateFrom", chunk.From.Format(DayLayout))
		query.Set("dateTo", chunk.To.Format(DayLayout))

		body, err := poller.run(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("paid storage %s..%s: %w",
				chunk.From.Format(DayLayout), chunk.To.Format(DayLayout), err)
		}

		var chunkRows []types.StorageRow
		if len(body) > 0 && string(body) != "null" {
			if err := json.Unmarshal(body, &chunkRows); err != nil {
				return nil, fmt.Errorf("decode paid storage rows: %w", err)
			}
		}
		for _, r := range chunkRows {
			at, ok := ParseWBTime(r.Date, c.loc)
			if !ok || at.Before(start) || at.After(end) {
				continue
			}
			rows = append(rows, r)
		}
	}

	logger.Info(ctx, "paid storage fetched",
		"window_from", start.Format(DayLayout), "window_to", end.Format(DayLayout),
		"chunks", len(chunks), "rows", len(rows))
	return rows, nil
}

// AcceptanceReport fetches paid-acceptance charges for a window as a
// single async task.
func (c *Client) AcceptanceReport(ctx context.Context, from, to time.Time) ([]types.AcceptanceRow, error) {
	start, end := WindowBounds(from, to, c.loc)
	poller := &jobPoller{
		exec:     c.analytics,
		baseURL:  c.cfg.Analytics.AcceptanceBaseURL,
		interval: time.Duration(c.cfg.Analytics.PollIntervalSecs) * time.Second,
		ceiling:  time.Duration(c.cfg.Analytics.PollCeilingSecs) * time.Second,
		sleep:    c.sleep,
		now:      c.now,
	}

	query := url.Values{}
	query.Set("dateFrom", start.Format(DayLayout))
	query.Set("dateTo", end.Format(DayLayout))

	body, err := poller.run(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("acceptance report %s..%s: %w",
			start.Format(DayLayout), end.Format(DayLayout), err)
	}

	var all []types.AcceptanceRow
	if len(body) > 0 && string(body) != "null" {
		if err := json.Unmarshal(body, &all); err != nil {
			return nil, fmt.Errorf("decode acceptance rows: %w", err)
		}
	}

	rows := make([]types.AcceptanceRow, 0, len(all))
	for _, r := range all {
		at, ok := ParseWBTime(r.ShkCreateDate, c.loc)
		if !ok || at.Before(start) || at.After(end) {
			continue
		}
		rows = append(rows, r)
	}
	logger.Info(ctx, "acceptance report fetched",
		"window_from", start.Format(DayLayout), "window_to", end.Format(DayLayout),
		"rows", len(rows))
	return rows, nil
}
