package types

import "time"

// OrderEvent is a single order placement from the supplier/orders feed.
// The feed is keyed by LastChangeDate; Date is the creation timestamp and
// is the only field that decides whether the event belongs to a window.
type OrderEvent struct {
	NmID            int64     `json:"nmId"`
	Date            string    `json:"date"`
	LastChangeDate  string    `json:"lastChangeDate"`
	TotalPrice      float64   `json:"totalPrice"`
	DiscountPercent float64   `json:"discountPercent"`
	IsCancel        bool      `json:"isCancel"`
}

// NetAmount is the order value after the seller discount.
func (o OrderEvent) NetAmount() float64 {
	return o.TotalPrice * (1 - o.DiscountPercent/100)
}

// DetailRow is one settled financial operation from reportDetailByPeriod.
// DocTypeName decides which totals the row feeds (sale vs return).
type DetailRow struct {
	RrdID             int64   `json:"rrd_id"`
	OperationDate     string  `json:"rr_dt"`
	NmID              int64   `json:"nm_id"`
	DocTypeName       string  `json:"doc_type_name"`
	Quantity          float64 `json:"quantity"`
	RetailAmount      float64 `json:"retail_amount"`
	CommissionVW      float64 `json:"ppvz_vw"`
	CommissionVWNds   float64 `json:"ppvz_vw_nds"`
	DeliveryRub       float64 `json:"delivery_rub"`
	RebillLogistic    float64 `json:"rebill_logistic_cost"`
	StorageFee        float64 `json:"storage_fee"`
	Acceptance        float64 `json:"acceptance"`
	Penalty           float64 `json:"penalty"`
	AdditionalPayment float64 `json:"additional_payment"`
	CashbackAmount    float64 `json:"cashback_amount"`
	CashbackDiscount  float64 `json:"cashback_discount"`
	CashbackCommChg   float64 `json:"cashback_commission_change"`
	ForPay            float64 `json:"ppvz_for_pay"`
}

// Adjustments is the sum of the reward-correction sub-components.
func (d DetailRow) Adjustments() float64 {
	return d.AdditionalPayment + d.CashbackAmount + d.CashbackDiscount + d.CashbackCommChg
}

// StorageRow is one paid-storage charge event. Multiple rows may share a
// (date, nmId) pair and must be summed, not replaced.
type StorageRow struct {
	Date           string  `json:"date"`
	NmID           int64   `json:"nmId"`
	WarehousePrice float64 `json:"warehousePrice"`
}

// AcceptanceRow is one paid-acceptance charge from the acceptance report.
type AcceptanceRow struct {
	ShkCreateDate string  `json:"shkCreateDate"`
	NmID          int64   `json:"nmID"`
	Count         int     `json:"count"`
	Total         float64 `json:"total"`
}

// AdSpendRow is advertising spend attributed to one product on one day,
// flattened from per-campaign fullstats.
type AdSpendRow struct {
	Date  string
	NmID  int64
	Spend float64
}

// Granularity selects the ledger key for aggregation.
type Granularity int

const (
	ByDate Granularity = iota
	ByProduct
	ByDateProduct
)

// Key identifies one ledger bucket. Parts unused by the chosen
// granularity stay zero-valued.
type Key struct {
	Date string
	NmID int64
}

// LedgerEntry holds the accumulated metrics for one key. Ratios are
// derived once after accumulation and are zero when their denominator is.
type LedgerEntry struct {
	OrdersCount      int
	OrdersAmount     float64
	SalesQuantity    float64
	SalesAmount      float64
	ReturnsQuantity  float64
	ReturnsAmount    float64
	Commission       float64
	ForwardLogistics float64
	ReverseLogistics float64
	StorageFee       float64
	AcceptanceFee    float64
	Penalty          float64
	Adjustments      float64
	Advertising      float64
	ForPay           float64

	// Derived after accumulation completes.
	NetPayable   float64
	BuyoutPct    float64
	AdSpendRatio float64
}

// CellFormat is a styling hint for the presentation sink.
type CellFormat int

const (
	FormatNone CellFormat = iota
	FormatNumber
	FormatCurrency
	FormatPercent
)

// Column describes one output column: a title plus how the sink should
// render the values beneath it.
type Column struct {
	Title  string
	Format CellFormat
}

// Cell is a single scalar output value. A nil Value renders blank.
type Cell struct {
	Value  any
	Format CellFormat
	Bold   bool
}

// Table is the output contract handed to the presentation collaborator:
// ordered named columns, rows of scalar cells, and simple styling hints.
// The core never depends on how the sink renders it.
type Table struct {
	Name       string
	Columns    []Column
	Rows       [][]Cell
	FreezeRows int
	FreezeCols int
	HeaderBold bool
}

// Report is the orchestrator result: one table per granularity plus the
// shop identity used to title the output.
type Report struct {
	ShopName string
	From     time.Time
	To       time.Time
	Tables   []Table
}
