package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wb-ledger-bot/internal/interfaces"
	"wb-ledger-bot/internal/ledger"
	"wb-ledger-bot/internal/logger"
	"wb-ledger-bot/internal/types"
)

// Orchestrator runs the full reporting pipeline for one window. Sources
// split into two failure classes: orders and the financial detail are
// the report's backbone and abort the run, while storage and
// advertising degrade to zero-valued columns with a warning.
type Orchestrator struct {
	seller  interfaces.SellerSource
	orders  interfaces.OrdersSource
	details interfaces.DetailSource
	storage interfaces.StorageSource
	adSpend interfaces.AdSpendSource
}

var _ interfaces.Orchestrator = (*Orchestrator)(nil)

type Params struct {
	Seller  interfaces.SellerSource
	Orders  interfaces.OrdersSource
	Details interfaces.DetailSource
	Storage interfaces.StorageSource
	AdSpend interfaces.AdSpendSource
}

func New(p Params) *Orchestrator {
	return &Orchestrator{
		seller:  p.Seller,
		orders:  p.Orders,
		details: p.Details,
		storage: p.Storage,
		adSpend: p.AdSpend,
	}
}

// Run fetches every stream for [from, to], aggregates per day and per
// product, and assembles the output tables.
func (o *Orchestrator) Run(ctx context.Context, from, to time.Time) (*types.Report, error) {
	// Probe the key first: a dead key should fail in seconds, not after
	// minutes of paced fetching.
	shopName, err := o.seller.SellerInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify seller key: %w", err)
	}

	orders, err := o.orders.Orders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	var (
		wg         sync.WaitGroup
		details    []types.DetailRow
		detailErr  error
		storage    []types.StorageRow
		storageErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		details, detailErr = o.details.DetailReport(ctx, from, to)
	}()
	go func() {
		defer wg.Done()
		storage, storageErr = o.storage.PaidStorageReport(ctx, from, to)
	}()
	wg.Wait()

	if detailErr != nil {
		return nil, fmt.Errorf("fetch detail report: %w", detailErr)
	}
	if storageErr != nil {
		logger.Warn(ctx, "paid storage unavailable, storage column degrades to zero",
			"error", storageErr)
		storage = nil
	}

	targets := targetProducts(orders, details)
	adSpend, adErr := o.adSpend.AdSpend(ctx, from, to, targets)
	if adErr != nil {
		logger.Warn(ctx, "advertising spend unavailable, advertising column degrades to zero",
			"error", adErr)
		adSpend = nil
	}

	in := ledger.Input{Orders: orders, Details: details, Storage: storage, AdSpend: adSpend}
	byDate := ledger.Aggregate(in, types.ByDate)
	byProduct := ledger.Aggregate(in, types.ByProduct)
	byDateProduct := ledger.Aggregate(in, types.ByDateProduct)

	report := &types.Report{
		ShopName: shopName,
		From:     from,
		To:       to,
		Tables: []types.Table{
			dailyTable(byDate),
			productTable(byProduct),
			unitTable(byDateProduct),
		},
	}
	return report, nil
}

// targetProducts collects every product seen in the window; advertising
// spend outside this set belongs to other reports.
func targetProducts(orders []types.OrderEvent, details []types.DetailRow) map[int64]struct{} {
	targets := make(map[int64]struct{})
	for _, o := range orders {
		if o.NmID != 0 {
			targets[o.NmID] = struct{}{}
		}
	}
	for _, d := range details {
		if d.NmID != 0 {
			targets[d.NmID] = struct{}{}
		}
	}
	return targets
}
