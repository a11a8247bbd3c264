package ledger

import (
	"sort"
	"strings"

	"wb-ledger-bot/internal/types"
)

// Input carries every fetched stream for one reporting window. Streams
// may be empty; aggregation never fails, it only accumulates.
type Input struct {
	Orders  []types.OrderEvent
	Details []types.DetailRow
	Storage []types.StorageRow
	AdSpend []types.AdSpendRow
}

// Aggregate folds the input streams into ledger entries keyed by the
// chosen granularity. The fold is commutative: row order never changes
// the result.
func Aggregate(in Input, g types.Granularity) map[types.Key]*types.LedgerEntry {
	entries := make(map[types.Key]*types.LedgerEntry)
	at := func(date string, nmID int64) *types.LedgerEntry {
		k := keyFor(g, date, nmID)
		e, ok := entries[k]
		if !ok {
			e = &types.LedgerEntry{}
			entries[k] = e
		}
		return e
	}

	for _, o := range in.Orders {
		if o.IsCancel {
			continue
		}
		e := at(dayOf(o.Date), o.NmID)
		e.OrdersCount++
		e.OrdersAmount += o.NetAmount()
	}

	for _, d := range in.Details {
		if d.OperationDate == "" || d.NmID == 0 {
			continue
		}
		e := at(dayOf(d.OperationDate), d.NmID)

		doc := strings.ToLower(d.DocTypeName)
		switch {
		case strings.Contains(doc, "возврат"):
			e.ReturnsQuantity += d.Quantity
			e.ReturnsAmount += d.RetailAmount
		case strings.Contains(doc, "продажа"):
			e.SalesQuantity += d.Quantity
			e.SalesAmount += d.RetailAmount
		}

		// Logistics accumulate from every row: delivery_rub carries the
		// charge whatever the document type, rebill the reverse leg.
		e.ForwardLogistics += d.DeliveryRub - d.RebillLogistic
		e.ReverseLogistics += d.RebillLogistic

		e.Commission += d.CommissionVW + d.CommissionVWNds
		e.StorageFee += d.StorageFee
		e.AcceptanceFee += d.Acceptance
		e.Penalty += d.Penalty
		e.Adjustments += d.Adjustments()
		e.ForPay += d.ForPay
	}

	for _, s := range in.Storage {
		e := at(dayOf(s.Date), s.NmID)
		e.StorageFee += s.WarehousePrice
	}

	for _, a := range in.AdSpend {
		e := at(dayOf(a.Date), a.NmID)
		e.Advertising += a.Spend
	}

	for _, e := range entries {
		finalize(e)
	}
	return entries
}

// finalize computes the derived metrics once the sums are complete.
// Ratios with a zero denominator stay zero instead of going infinite.
func finalize(e *types.LedgerEntry) {
	e.NetPayable = e.ForPay -
		e.Adjustments -
		e.Penalty -
		e.ForwardLogistics -
		e.ReverseLogistics -
		e.StorageFee -
		e.AcceptanceFee -
		e.Advertising -
		e.ReturnsAmount

	if e.OrdersCount > 0 {
		e.BuyoutPct = e.SalesQuantity / float64(e.OrdersCount)
	}
	if e.SalesAmount > 0 {
		e.AdSpendRatio = e.Advertising / e.SalesAmount
	}
}

func keyFor(g types.Granularity, date string, nmID int64) types.Key {
	switch g {
	case types.ByDate:
		return types.Key{Date: date}
	case types.ByProduct:
		return types.Key{NmID: nmID}
	default:
		return types.Key{Date: date, NmID: nmID}
	}
}

// dayOf truncates a WB timestamp to its calendar date.
func dayOf(s string) string {
	if len(s) < 10 {
		return s
	}
	return s[:10]
}

// SortedKeys orders ledger keys by date then product id for stable
// presentation.
func SortedKeys(entries map[types.Key]*types.LedgerEntry) []types.Key {
	keys := make([]types.Key, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		return keys[i].NmID < keys[j].NmID
	})
	return keys
}

// Totals folds every entry into one summary entry with derived metrics
// recomputed over the whole window.
func Totals(entries map[types.Key]*types.LedgerEntry) types.LedgerEntry {
	var t types.LedgerEntry
	for _, e := range entries {
		t.OrdersCount += e.OrdersCount
		t.OrdersAmount += e.OrdersAmount
		t.SalesQuantity += e.SalesQuantity
		t.SalesAmount += e.SalesAmount
		t.ReturnsQuantity += e.ReturnsQuantity
		t.ReturnsAmount += e.ReturnsAmount
		t.Commission += e.Commission
		t.ForwardLogistics += e.ForwardLogistics
		t.ReverseLogistics += e.ReverseLogistics
		t.StorageFee += e.StorageFee
		t.AcceptanceFee += e.AcceptanceFee
		t.Penalty += e.Penalty
		t.Adjustments += e.Adjustments
		t.Advertising += e.Advertising
		t.ForPay += e.ForPay
	}
	finalize(&t)
	return t
}
