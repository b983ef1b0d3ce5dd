// Package snapshot_repo loads the immutable input set for one report
// computation: the full catalog plus every transaction record the
// period can touch. The engine filters again in memory, so this
// repository is allowed to over-fetch; date bounds are the only hard
// narrowing applied here.
package snapshot_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"costline/internal/core/id"
	"costline/internal/domain/catalog/item"
	"costline/internal/domain/ledger"
	"costline/internal/infrastructure/storage/postgres"
	"costline/internal/infrastructure/storage/postgres/catalog_repo"
)

// Document tables. Heads carry the record header plus location refs;
// lines reference their head by document_id.
const (
	purchaseTable       = "doc_purchase_receipts"
	purchaseLineTable   = "doc_purchase_receipt_lines"
	productionTable     = "doc_production_runs"
	productionLineTable = "doc_production_run_ingredients"
	wasteTable          = "doc_waste_entries"
	wasteLineTable      = "doc_waste_entry_lines"
	transferTable       = "doc_transfers"
	transferLineTable   = "doc_transfer_lines"
	saleTable           = "doc_sale_tickets"
	saleLineTable       = "doc_sale_ticket_lines"
	stocktakeTable      = "doc_stocktakes"
	stocktakeLineTable  = "doc_stocktake_lines"
)

var tracer = otel.Tracer("costline/snapshot")

// Location reference columns are nullable; the engine treats the zero
// uuid as "unset", so NULLs are coalesced at the query edge.
const nilUUID = "'00000000-0000-0000-0000-000000000000'::uuid"

func locRef(column string) string {
	return "COALESCE(" + column + ", " + nilUUID + ") AS " + column
}

// SnapshotRepo assembles ledger snapshots from PostgreSQL.
type SnapshotRepo struct {
	pool    *postgres.Pool
	items   *catalog_repo.ItemRepo
	recipes *catalog_repo.RecipeRepo
}

// NewSnapshotRepo creates a new snapshot repository.
func NewSnapshotRepo(pool *postgres.Pool) *SnapshotRepo {
	return &SnapshotRepo{
		pool:    pool,
		items:   catalog_repo.NewItemRepo(pool),
		recipes: catalog_repo.NewRecipeRepo(pool),
	}
}

// Snapshot loads master data and every record dated up to the period
// end. Records before the period start are needed too: opening balances
// come from stocktakes strictly before the window.
func (r *SnapshotRepo) Snapshot(ctx context.Context, period ledger.PeriodWindow, loc ledger.LocationFilter) (*ledger.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "snapshot.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("period", period.String()),
		attribute.String("location", loc.String()),
	)

	snap := &ledger.Snapshot{}

	var err error
	if snap.Items, err = r.items.List(ctx, item.ListFilter{}); err != nil {
		return nil, err
	}
	if snap.Recipes, err = r.recipes.List(ctx); err != nil {
		return nil, err
	}

	if snap.Purchases, err = r.loadPurchases(ctx, period); err != nil {
		return nil, err
	}
	if snap.ProductionRuns, err = r.loadProductionRuns(ctx, period); err != nil {
		return nil, err
	}
	if snap.WasteEntries, err = r.loadWasteEntries(ctx, period); err != nil {
		return nil, err
	}
	if snap.Transfers, err = r.loadTransfers(ctx, period); err != nil {
		return nil, err
	}
	if snap.Sales, err = r.loadSales(ctx, period); err != nil {
		return nil, err
	}
	if snap.Stocktakes, err = r.loadStocktakes(ctx, period); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("items", len(snap.Items)),
		attribute.Int("sales", len(snap.Sales)),
		attribute.Int("stocktakes", len(snap.Stocktakes)),
	)
	return snap, nil
}

// inPeriod bounds a head query to the reporting window.
func inPeriod(q squirrel.SelectBuilder, period ledger.PeriodWindow) squirrel.SelectBuilder {
	return q.Where(squirrel.GtOrEq{"date": period.From}).
		Where(squirrel.Lt{"date": period.To.AddDate(0, 0, 1)})
}

// upToPeriodEnd bounds a head query to everything dated at or before
// the window end. Used for stocktakes, whose history seeds openings.
func upToPeriodEnd(q squirrel.SelectBuilder, period ledger.PeriodWindow) squirrel.SelectBuilder {
	return q.Where(squirrel.Lt{"date": period.To.AddDate(0, 0, 1)})
}

func (r *SnapshotRepo) selectRows(ctx context.Context, q squirrel.SelectBuilder, dst any, what string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build %s query: %w", what, err)
	}
	if err := pgxscan.Select(ctx, r.pool, dst, sql, args...); err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}

// --- purchases ---

type purchaseLineRow struct {
	DocumentID id.ID   `db:"document_id"`
	ItemID     id.ID   `db:"item_id"`
	Qty        float64 `db:"qty"`
	UnitCost   float64 `db:"unit_cost"`
}

func (r *SnapshotRepo) loadPurchases(ctx context.Context, period ledger.PeriodWindow) ([]ledger.PurchaseReceipt, error) {
	q := inPeriod(postgres.Builder().
		Select("id", "number", "date", "status", locRef("branch_id"), locRef("warehouse_id"), "supplier_name").
		From(purchaseTable), period).
		OrderBy("date", "number")

	var heads []ledger.PurchaseReceipt
	if err := r.selectRows(ctx, q, &heads, "purchase receipts"); err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return heads, nil
	}

	lq := postgres.Builder().
		Select("document_id", "item_id", "qty", "unit_cost").
		From(purchaseLineTable).
		Where(squirrel.Eq{"document_id": headIDs(heads, func(h ledger.PurchaseReceipt) id.ID { return h.ID })}).
		OrderBy("document_id", "line_no")

	var lines []purchaseLineRow
	if err := r.selectRows(ctx, lq, &lines, "purchase receipt lines"); err != nil {
		return nil, err
	}

	byID := indexHeads(heads, func(h *ledger.PurchaseReceipt) id.ID { return h.ID })
	for _, l := range lines {
		if h, ok := byID[l.DocumentID]; ok {
			h.Lines = append(h.Lines, ledger.PurchaseLine{ItemID: l.ItemID, Qty: l.Qty, UnitCost: l.UnitCost})
		}
	}
	return heads, nil
}

// --- production runs ---

type productionLineRow struct {
	DocumentID  id.ID   `db:"document_id"`
	ItemID      id.ID   `db:"item_id"`
	RequiredQty float64 `db:"required_qty"`
}

func (r *SnapshotRepo) loadProductionRuns(ctx context.Context, period ledger.PeriodWindow) ([]ledger.ProductionRun, error) {
	q := inPeriod(postgres.Builder().
		Select("id", "number", "date", "status", locRef("branch_id"), "product_id", "produced_qty", "total_cost").
		From(productionTable), period).
		OrderBy("date", "number")

	var heads []ledger.ProductionRun
	if err := r.selectRows(ctx, q, &heads, "production runs"); err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return heads, nil
	}

	lq := postgres.Builder().
		Select("document_id", "item_id", "required_qty").
		From(productionLineTable).
		Where(squirrel.Eq{"document_id": headIDs(heads, func(h ledger.ProductionRun) id.ID { return h.ID })}).
		OrderBy("document_id", "line_no")

	var lines []productionLineRow
	if err := r.selectRows(ctx, lq, &lines, "production run ingredients"); err != nil {
		return nil, err
	}

	byID := indexHeads(heads, func(h *ledger.ProductionRun) id.ID { return h.ID })
	for _, l := range lines {
		if h, ok := byID[l.DocumentID]; ok {
			h.Ingredients = append(h.Ingredients, ledger.ProductionIngredient{ItemID: l.ItemID, RequiredQty: l.RequiredQty})
		}
	}
	return heads, nil
}

// --- waste entries ---

type wasteLineRow struct {
	DocumentID id.ID   `db:"document_id"`
	ItemID     id.ID   `db:"item_id"`
	Qty        float64 `db:"qty"`
	UnitCost   float64 `db:"unit_cost"`
	Reason     string  `db:"reason"`
}

func (r *SnapshotRepo) loadWasteEntries(ctx context.Context, period ledger.PeriodWindow) ([]ledger.WasteEntry, error) {
	q := inPeriod(postgres.Builder().
		Select("id", "number", "date", "status", locRef("branch_id")).
		From(wasteTable), period).
		OrderBy("date", "number")

	var heads []ledger.WasteEntry
	if err := r.selectRows(ctx, q, &heads, "waste entries"); err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return heads, nil
	}

	lq := postgres.Builder().
		Select("document_id", "item_id", "qty", "unit_cost", "reason").
		From(wasteLineTable).
		Where(squirrel.Eq{"document_id": headIDs(heads, func(h ledger.WasteEntry) id.ID { return h.ID })}).
		OrderBy("document_id", "line_no")

	var lines []wasteLineRow
	if err := r.selectRows(ctx, lq, &lines, "waste entry lines"); err != nil {
		return nil, err
	}

	byID := indexHeads(heads, func(h *ledger.WasteEntry) id.ID { return h.ID })
	for _, l := range lines {
		if h, ok := byID[l.DocumentID]; ok {
			h.Lines = append(h.Lines, ledger.WasteLine{ItemID: l.ItemID, Qty: l.Qty, UnitCost: l.UnitCost, Reason: l.Reason})
		}
	}
	return heads, nil
}

// --- transfers ---

type transferLineRow struct {
	DocumentID id.ID   `db:"document_id"`
	ItemID     id.ID   `db:"item_id"`
	Qty        float64 `db:"qty"`
}

func (r *SnapshotRepo) loadTransfers(ctx context.Context, period ledger.PeriodWindow) ([]ledger.TransferMovement, error) {
	q := inPeriod(postgres.Builder().
		Select("id", "number", "date", "status", locRef("source_id"), locRef("destination_id")).
		From(transferTable), period).
		OrderBy("date", "number")

	var heads []ledger.TransferMovement
	if err := r.selectRows(ctx, q, &heads, "transfers"); err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return heads, nil
	}

	lq := postgres.Builder().
		Select("document_id", "item_id", "qty").
		From(transferLineTable).
		Where(squirrel.Eq{"document_id": headIDs(heads, func(h ledger.TransferMovement) id.ID { return h.ID })}).
		OrderBy("document_id", "line_no")

	var lines []transferLineRow
	if err := r.selectRows(ctx, lq, &lines, "transfer lines"); err != nil {
		return nil, err
	}

	byID := indexHeads(heads, func(h *ledger.TransferMovement) id.ID { return h.ID })
	for _, l := range lines {
		if h, ok := byID[l.DocumentID]; ok {
			h.Lines = append(h.Lines, ledger.TransferLine{ItemID: l.ItemID, Qty: l.Qty})
		}
	}
	return heads, nil
}

// --- sales ---

type saleLineRow struct {
	DocumentID id.ID   `db:"document_id"`
	MenuItemID id.ID   `db:"menu_item_id"`
	Qty        float64 `db:"qty"`
}

func (r *SnapshotRepo) loadSales(ctx context.Context, period ledger.PeriodWindow) ([]ledger.SaleTicket, error) {
	q := inPeriod(postgres.Builder().
		Select("id", "number", "date", "status", locRef("branch_id")).
		From(saleTable), period).
		OrderBy("date", "number")

	var heads []ledger.SaleTicket
	if err := r.selectRows(ctx, q, &heads, "sale tickets"); err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return heads, nil
	}

	lq := postgres.Builder().
		Select("document_id", "menu_item_id", "qty").
		From(saleLineTable).
		Where(squirrel.Eq{"document_id": headIDs(heads, func(h ledger.SaleTicket) id.ID { return h.ID })}).
		OrderBy("document_id", "line_no")

	var lines []saleLineRow
	if err := r.selectRows(ctx, lq, &lines, "sale ticket lines"); err != nil {
		return nil, err
	}

	byID := indexHeads(heads, func(h *ledger.SaleTicket) id.ID { return h.ID })
	for _, l := range lines {
		if h, ok := byID[l.DocumentID]; ok {
			h.Lines = append(h.Lines, ledger.SaleLine{MenuItemID: l.MenuItemID, Qty: l.Qty})
		}
	}
	return heads, nil
}

// --- stocktakes ---

type stocktakeLineRow struct {
	DocumentID id.ID   `db:"document_id"`
	ItemID     id.ID   `db:"item_id"`
	CountedQty float64 `db:"counted_qty"`
}

func (r *SnapshotRepo) loadStocktakes(ctx context.Context, period ledger.PeriodWindow) ([]ledger.StocktakeCount, error) {
	q := upToPeriodEnd(postgres.Builder().
		Select("id", "number", "date", "status", "type", locRef("branch_id"), locRef("warehouse_id")).
		From(stocktakeTable), period).
		OrderBy("date", "created_at")

	var heads []ledger.StocktakeCount
	if err := r.selectRows(ctx, q, &heads, "stocktakes"); err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return heads, nil
	}

	lq := postgres.Builder().
		Select("document_id", "item_id", "counted_qty").
		From(stocktakeLineTable).
		Where(squirrel.Eq{"document_id": headIDs(heads, func(h ledger.StocktakeCount) id.ID { return h.ID })}).
		OrderBy("document_id", "line_no")

	var lines []stocktakeLineRow
	if err := r.selectRows(ctx, lq, &lines, "stocktake lines"); err != nil {
		return nil, err
	}

	byID := indexHeads(heads, func(h *ledger.StocktakeCount) id.ID { return h.ID })
	for _, l := range lines {
		if h, ok := byID[l.DocumentID]; ok {
			h.Lines = append(h.Lines, ledger.CountLine{ItemID: l.ItemID, CountedQty: l.CountedQty})
		}
	}
	return heads, nil
}

// --- stitching helpers ---

func headIDs[H any](heads []H, getID func(H) id.ID) []id.ID {
	ids := make([]id.ID, len(heads))
	for i, h := range heads {
		ids[i] = getID(h)
	}
	return ids
}

func indexHeads[H any](heads []H, getID func(*H) id.ID) map[id.ID]*H {
	byID := make(map[id.ID]*H, len(heads))
	for i := range heads {
		byID[getID(&heads[i])] = &heads[i]
	}
	return byID
}
