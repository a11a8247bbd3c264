package advert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wb-ledger-bot/internal/config"
	"wb-ledger-bot/internal/interfaces"
	"wb-ledger-bot/internal/logger"
	"wb-ledger-bot/internal/types"
	"wb-ledger-bot/internal/wbapi"
)

// Campaign statuses whose spend can fall inside a reporting window:
// finished, active and paused.
var billableStatuses = map[int]struct{}{7: {}, 9: {}, 11: {}}

// Client resolves advertising spend per product and day. The advert API
// family is the most heavily throttled one, so every stage paces its
// calls and retries on an exponential schedule.
type Client struct {
	cfg   *config.Config
	loc   *time.Location
	exec  *wbapi.Executor
	sleep wbapi.SleepFunc
}

var _ interfaces.AdSpendSource = (*Client)(nil)

type Params struct {
	Config *config.Config
	APIKey string
	Sleep  wbapi.SleepFunc
}

func NewClient(p Params) (*Client, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = wbapi.Sleep
	}
	return &Client{
		cfg: cfg,
		loc: loc,
		exec: wbapi.NewExecutor(wbapi.ExecutorParams{
			APIKey:     p.APIKey,
			MaxRetries: cfg.Advert.MaxRetries,
			Backoff:    wbapi.ExpBackoff(time.Duration(cfg.Advert.RetrySeedSeconds) * time.Second),
			Timeout:    time.Duration(cfg.Advert.HTTPTimeoutSeconds) * time.Second,
			Sleep:      sleep,
		}),
		sleep: sleep,
	}, nil
}

// AdSpend walks the campaign pipeline: list campaign ids, load their
// metadata, drop campaigns that ended before the window or promote none
// of the target products, then pull fullstats for the survivors and
// flatten spend to (date, product) rows.
func (c *Client) AdSpend(ctx context.Context, from, to time.Time, targets map[int64]struct{}) ([]types.AdSpendRow, error) {
	start, end := wbapi.WindowBounds(from, to, c.loc)

	ids, err := c.campaignIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	campaigns, err := c.campaignMeta(ctx, ids)
	if err != nil {
		return nil, err
	}

	var relevant []int64
	for _, cam := range campaigns {
		if ended, ok := wbapi.ParseWBTime(cam.EndTime, c.loc); ok && ended.Before(start) {
			continue
		}
		if !cam.promotes(targets) {
			continue
		}
		relevant = append(relevant, cam.AdvertID)
	}
	logger.Info(ctx, "campaigns selected",
		"total", len(campaigns), "relevant", len(relevant))
	if len(relevant) == 0 {
		return nil, nil
	}

	spend := make(map[types.Key]float64)
	batches := batchIDs(relevant, c.cfg.Advert.StatsBatchSize)
	chunks := wbapi.ChunkRanges(start, end, c.cfg.Advert.ChunkDays)
	calls := 0
	for _, batch := range batches {
		for _, chunk := range chunks {
			if calls > 0 {
				if err := c.sleep(ctx, time.Duration(c.cfg.Advert.StatsPacingSeconds)*time.Second); err != nil {
					return nil, err
				}
			}
			calls++
			if err := c.fullStats(ctx, batch, chunk, targets, spend); err != nil {
				return nil, err
			}
		}
	}

	rows := make([]types.AdSpendRow, 0, len(spend))
	for k, v := range spend {
		rows = append(rows, types.AdSpendRow{Date: k.Date, NmID: k.NmID, Spend: v})
	}
	logger.Info(ctx, "ad spend resolved",
		"window_from", start.Format(wbapi.DayLayout), "window_to", end.Format(wbapi.DayLayout),
		"rows", len(rows))
	return rows, nil
}

// campaignIDs lists every campaign id in a billable status.
func (c *Client) campaignIDs(ctx context.Context) ([]int64, error) {
	endpoint := c.cfg.Advert.BaseURL + "/adv/v1/promotion/count"
	body, err := c.exec.Do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("campaign count: %w", err)
	}

	var resp struct {
		Adverts []struct {
			Status     int `json:"status"`
			AdvertList []struct {
				AdvertID int64 `json:"advertId"`
			} `json:"advert_list"`
		} `json:"adverts"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode campaign count: %w", err)
	}

	var ids []int64
	for _, group := range resp.Adverts {
		if _, ok := billableStatuses[group.Status]; !ok {
			continue
		}
		for _, a := range group.AdvertList {
			ids = append(ids, a.AdvertID)
		}
	}
	return ids, nil
}

// campaignMeta loads metadata for the given campaign ids in batches no
// larger than the provider's cap.
func (c *Client) campaignMeta(ctx context.Context, ids []int64) ([]Campaign, error) {
	endpoint := c.cfg.Advert.BaseURL + "/adv/v1/promotion/adverts"

	var campaigns []Campaign
	batches := batchIDs(ids, c.cfg.Advert.MetaBatchSize)
	for i, batch := range batches {
		if i > 0 {
			if err := c.sleep(ctx, time.Duration(c.cfg.Advert.MetaPacingSeconds)*time.Second); err != nil {
				return nil, err
			}
		}
		body, err := c.exec.Do(ctx, http.MethodPost, endpoint, nil, batch)
		if err != nil {
			return nil, fmt.Errorf("campaign metadata batch %d: %w", i+1, err)
		}
		var page []Campaign
		if len(body) > 0 && string(body) != "null" {
			if err := json.Unmarshal(body, &page); err != nil {
				return nil, fmt.Errorf("decode campaign metadata batch %d: %w", i+1, err)
			}
		}
		campaigns = append(campaigns, page...)
	}
	return campaigns, nil
}

// fullStats pulls daily statistics for one id batch over one sub-window
// and accumulates spend for target products into acc. A "no statistics"
// refusal is an empty result, not a failure.
func (c *Client) fullStats(ctx context.Context, ids []int64, chunk wbapi.DateRange, targets map[int64]struct{}, acc map[types.Key]float64) error {
	endpoint := c.cfg.Advert.BaseURL + "/adv/v3/fullstats"

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = strconv.FormatInt(id, 10)
	}
	query := url.Values{}
	query.Set("ids", strings.Join(idStrs, ","))
	query.Set("beginDate", chunk.From.Format(wbapi.DayLayout))
	query.Set("endDate", chunk.To.Format(wbapi.DayLayout))

	body, err := c.exec.Do(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		if isBenignEmpty(err) {
			logger.Debug(ctx, "no campaign statistics for chunk",
				"from", chunk.From.Format(wbapi.DayLayout), "to", chunk.To.Format(wbapi.DayLayout))
			return nil
		}
		return fmt.Errorf("fullstats %s..%s: %w",
			chunk.From.Format(wbapi.DayLayout), chunk.To.Format(wbapi.DayLayout), err)
	}

	var stats []struct {
		AdvertID int64 `json:"advertId"`
		Days     []struct {
			Date string `json:"date"`
			Apps []struct {
				Nm []struct {
					NmID int64   `json:"nmId"`
					Sum  float64 `json:"sum"`
				} `json:"nm"`
			} `json:"apps"`
		} `json:"days"`
	}
	if len(body) > 0 && string(body) != "null" {
		if err := json.Unmarshal(body, &stats); err != nil {
			return fmt.Errorf("decode fullstats: %w", err)
		}
	}

	for _, campaign := range stats {
		for _, day := range campaign.Days {
			date := wbapi.DayKey(day.Date)
			for _, app := range day.Apps {
				for _, nm := range app.Nm {
					if _, ok := targets[nm.NmID]; !ok {
						continue
					}
					acc[types.Key{Date: date, NmID: nm.NmID}] += nm.Sum
				}
			}
		}
	}
	return nil
}

// isBenignEmpty recognizes the provider's "you have no statistics here"
// refusal, which arrives as a client error rather than an empty body.
func isBenignEmpty(err error) bool {
	var apiErr *wbapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		return false
	}
	body := strings.ToLower(apiErr.Body)
	return strings.Contains(body, "no statistics") ||
		strings.Contains(body, "нет статистики") ||
		strings.Contains(body, "campaigns not found")
}

func batchIDs(ids []int64, size int) [][]int64 {
	var batches [][]int64
	for len(ids) > size {
		batches = append(batches, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
