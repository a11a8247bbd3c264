package wbapi

import (
	"fmt"
	"time"

	"wb-ledger-bot/internal/config"
	"wb-ledger-bot/internal/interfaces"
)

// Client talks to the WB statistics, seller-analytics and common API
// families for one seller key. Each family keeps its own executor since
// their rate-limit and timeout contracts differ.
type Client struct {
	cfg *config.Config
	loc *time.Location

	stats     *Executor
	analytics *Executor
	common    *Executor

	sleep SleepFunc
	now   func() time.Time
}

var (
	_ interfaces.OrdersSource     = (*Client)(nil)
	_ interfaces.DetailSource     = (*Client)(nil)
	_ interfaces.StorageSource    = (*Client)(nil)
	_ interfaces.AcceptanceSource = (*Client)(nil)
	_ interfaces.SellerSource     = (*Client)(nil)
)

// Params configures a Client. Sleep and Now default to the real clock
// and exist so tests can skip pacing delays and poll ceilings.
type Params struct {
	Config *config.Config
	APIKey string
	Sleep  SleepFunc
	Now    func() time.Time
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
		sleep = Sleep
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		cfg: cfg,
		loc: loc,
		stats: NewExecutor(ExecutorParams{
			APIKey:     p.APIKey,
			MaxRetries: cfg.Statistics.MaxRetries,
			Backoff:    FixedBackoff(time.Duration(cfg.Statistics.RetryDelaySeconds) * time.Second),
			Timeout:    time.Duration(cfg.Statistics.HTTPTimeoutSeconds) * time.Second,
			Sleep:      sleep,
		}),
		analytics: NewExecutor(ExecutorParams{
			APIKey:     p.APIKey,
			MaxRetries: cfg.Statistics.MaxRetries,
			Backoff:    FixedBackoff(time.Duration(cfg.Statistics.RetryDelaySeconds) * time.Second),
			Timeout:    time.Duration(cfg.Analytics.HTTPTimeoutSeconds) * time.Second,
			Sleep:      sleep,
		}),
		common: NewExecutor(ExecutorParams{
			APIKey:  p.APIKey,
			Timeout: time.Duration(cfg.Common.HTTPTimeoutSeconds) * time.Second,
			Sleep:   sleep,
		}),
		sleep: sleep,
		now:   now,
	}, nil
}

// Location exposes the marketplace civil timezone the client resolves
// timestamps in.
func (c *Client) Location() *time.Location {
	return c.loc
}
