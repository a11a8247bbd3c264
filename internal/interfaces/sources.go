package interfaces

import (
	"context"
	"time"

	"wb-ledger-bot/internal/types"
)

// OrdersSource fetches order events whose creation timestamp falls inside
// [from, to] in the marketplace's civil timezone.
type OrdersSource interface {
	Orders(ctx context.Context, from, to time.Time) ([]types.OrderEvent, error)
}

// DetailSource fetches settled financial operations for a date range.
type DetailSource interface {
	DetailReport(ctx context.Context, from, to time.Time) ([]types.DetailRow, error)
}

// StorageSource fetches paid-storage charge rows for a date range.
type StorageSource interface {
	PaidStorageReport(ctx context.Context, from, to time.Time) ([]types.StorageRow, error)
}

// AcceptanceSource fetches paid-acceptance charge rows for a date range.
type AcceptanceSource interface {
	AcceptanceReport(ctx context.Context, from, to time.Time) ([]types.AcceptanceRow, error)
}

// AdSpendSource resolves advertising spend for the given target products.
// Campaigns whose product set does not intersect targets are excluded
// before their statistics are requested.
type AdSpendSource interface {
	AdSpend(ctx context.Context, from, to time.Time, targets map[int64]struct{}) ([]types.AdSpendRow, error)
}

// SellerSource probes the API key and resolves the shop display name.
type SellerSource interface {
	SellerInfo(ctx context.Context) (name string, err error)
}

// Orchestrator runs the full report pipeline for one window and returns
// either a complete report or an unambiguous failure.
type Orchestrator interface {
	Run(ctx context.Context, from, to time.Time) (*types.Report, error)
}

// RowSink consumes the assembled tables. Implementations are thin I/O
// wrappers (spreadsheet writers and the like).
type RowSink interface {
	Write(ctx context.Context, report *types.Report) (location string, err error)
}
