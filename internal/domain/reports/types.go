// Package reports is the application facade over the ledger engine and
// analytics classifiers. It loads a transaction snapshot through a
// provider, runs the pure computations, and shapes the results the API
// layer serves.
package reports

import (
	"context"

	"costline/internal/domain/analytics"
	"costline/internal/domain/ledger"
)

// SnapshotProvider loads every record and master-data row a report
// computation needs. Implementations may over-fetch (e.g. ignore the
// location filter) because the engine filters again in memory; the
// filter is a hint for narrowing the query.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, period ledger.PeriodWindow, loc ledger.LocationFilter) (*ledger.Snapshot, error)
}

// RunRecorder persists a trace of each report run for later audit.
// Recording is best-effort; a nil recorder disables it.
type RunRecorder interface {
	RecordRun(ctx context.Context, run Run)
}

// Run describes one executed report for the run log.
type Run struct {
	Kind     string `json:"kind"`
	Period   string `json:"period"`
	Location string `json:"location"`
	Category string `json:"category,omitempty"`
	RowCount int    `json:"rowCount"`
	Millis   int64  `json:"millis"`
}

// Request carries the common parameters of every report operation.
type Request struct {
	Period   ledger.PeriodWindow
	Location ledger.LocationFilter
	Category string
}

// LedgerReport is the full reconciliation table.
type LedgerReport struct {
	Period     string                 `json:"period"`
	Location   string                 `json:"location"`
	Rows       []ledger.Row           `json:"rows"`
	Categories []ledger.CategoryTotal `json:"categories"`
	Total      ledger.Totals          `json:"total"`
}

// VarianceRow is a ledger row narrowed to the book-vs-physical view.
type VarianceRow struct {
	ItemID        string  `json:"itemId"`
	ItemName      string  `json:"itemName"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	ClosingBook   float64 `json:"closingBookQty"`
	PhysicalQty   float64 `json:"physicalQty"`
	VarianceQty   float64 `json:"varianceQty"`
	VarianceValue float64 `json:"varianceValue"`
	HasCount      bool    `json:"hasPhysicalCount"`
}

// VarianceReport shows only items with a physical count in the period.
type VarianceReport struct {
	Period             string        `json:"period"`
	Location           string        `json:"location"`
	Rows               []VarianceRow `json:"rows"`
	CountedRows        int           `json:"countedRows"`
	TotalVarianceValue float64       `json:"totalVarianceValue"`
}

// ABCReport ranks items by consumption value.
type ABCReport struct {
	Period     string          `json:"period"`
	Location   string          `json:"location"`
	Rows       []analytics.Row `json:"rows"`
	TotalUsage float64         `json:"totalUsageValue"`
}

// VelocityReport buckets items by stock turnover.
type VelocityReport struct {
	Period   string          `json:"period"`
	Location string          `json:"location"`
	DayCount int             `json:"dayCount"`
	Rows     []analytics.Row `json:"rows"`
}

// AuditReport rolls the ledger into totals and discrepancies.
type AuditReport struct {
	Period   string            `json:"period"`
	Location string            `json:"location"`
	Summary  analytics.Summary `json:"summary"`
}

// AlertsReport lists rule firings over the annotated rows.
type AlertsReport struct {
	Period   string            `json:"period"`
	Location string            `json:"location"`
	Rules    []analytics.Rule  `json:"rules"`
	Alerts   []analytics.Alert `json:"alerts"`
}
