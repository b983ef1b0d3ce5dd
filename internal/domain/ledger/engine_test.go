package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costline/internal/core/id"
	"costline/internal/core/types"
	"costline/internal/domain/catalog/item"
	"costline/internal/domain/catalog/recipe"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func period(from, to string) PeriodWindow {
	return NewPeriodWindow(date(from), date(to))
}

func stockItem(name, category string, avgCost float64) item.StockItem {
	return item.StockItem{
		ID:               id.New(),
		Name:             name,
		Category:         category,
		StockUnit:        "kg",
		RecipeUnit:       "kg",
		ConversionFactor: 1,
		AvgCost:          types.NewMoney(avgCost),
		Active:           true,
	}
}

func header(day string) RecordHeader {
	return RecordHeader{ID: id.New(), Date: date(day), Status: StatusPosted}
}

func draftHeader(day string) RecordHeader {
	return RecordHeader{ID: id.New(), Date: date(day), Status: StatusDraft}
}

func rowFor(t *testing.T, res *Result, itemID id.ID) Row {
	t.Helper()
	for _, r := range res.Rows {
		if r.ItemID == itemID {
			return r
		}
	}
	t.Fatalf("no row for item %s", itemID)
	return Row{}
}

// Opening count of 100 at cost 10, one purchase of 50, ten tickets each
// consuming 3 units through the recipe, waste of 5. Book balance must
// land on 115.
func TestReconcileFullCycle(t *testing.T) {
	branch := id.New()
	itemX := stockItem("Flour", "Dry Goods", 10)
	menuItem := id.New()

	snap := &Snapshot{
		Items: []item.StockItem{itemX},
		Recipes: []recipe.Recipe{{
			MenuItemID:   menuItem,
			MenuItemName: "Bread Loaf",
			Ingredients:  []recipe.Ingredient{{LineNo: 1, ItemID: itemX.ID, Qty: 3}},
		}},
		Purchases: []PurchaseReceipt{{
			RecordHeader: header("2026-06-05"),
			BranchID:     branch,
			Lines:        []PurchaseLine{{ItemID: itemX.ID, Qty: 50}},
		}},
		WasteEntries: []WasteEntry{{
			RecordHeader: header("2026-06-20"),
			BranchID:     branch,
			Lines:        []WasteLine{{ItemID: itemX.ID, Qty: 5, Reason: "spoilage"}},
		}},
		Stocktakes: []StocktakeCount{{
			RecordHeader: header("2026-05-31"),
			Type:         StocktakeOpening,
			BranchID:     branch,
			Lines:        []CountLine{{ItemID: itemX.ID, CountedQty: 100}},
		}},
	}
	for day := 1; day <= 10; day++ {
		snap.Sales = append(snap.Sales, SaleTicket{
			RecordHeader: header("2026-06-10"),
			BranchID:     branch,
			Lines:        []SaleLine{{MenuItemID: menuItem, Qty: 1}},
		})
	}

	res := NewEngine().Reconcile(snap, period("2026-06-01", "2026-06-30"), AllLocations(), "")
	require.Len(t, res.Rows, 1)

	row := rowFor(t, res, itemX.ID)
	assert.InDelta(t, 100, row.OpeningQty, 1e-9)
	assert.InDelta(t, 1000, row.OpeningValue, 1e-9)
	assert.InDelta(t, 50, row.ReceivingQty, 1e-9)
	assert.InDelta(t, 35, row.ConsumptionQty, 1e-9) // 10 tickets * 3 + 5 waste
	assert.InDelta(t, 115, row.ClosingBookQty, 1e-9)
	assert.InDelta(t, 1150, row.ClosingBookValue, 1e-9)
	assert.False(t, row.HasPhysicalCount)
}

func TestReconcileNoOpeningStocktake(t *testing.T) {
	itemX := stockItem("Salt", "Dry Goods", 2)

	snap := &Snapshot{
		Items: []item.StockItem{itemX},
		Purchases: []PurchaseReceipt{{
			RecordHeader: header("2026-06-02"),
			BranchID:     id.New(),
			Lines:        []PurchaseLine{{ItemID: itemX.ID, Qty: 10}},
		}},
	}

	res := NewEngine().Reconcile(snap, period("2026-06-01", "2026-06-30"), AllLocations(), "")

	row := rowFor(t, res, itemX.ID)
	assert.Zero(t, row.OpeningQty)
	assert.InDelta(t, 10, row.ClosingBookQty, 1e-9)
}

func TestReconcileLedgerIdentity(t *testing.T) {
	branch := id.New()
	items := []item.StockItem{
		stockItem("Beef", "Proteins", 9.5),
		stockItem("Buns", "Bakery", 0.45),
		stockItem("Cheese", "Dairy", 7.2),
	}

	snap := &Snapshot{
		Items: items,
		Purchases: []PurchaseReceipt{{
			RecordHeader: header("2026-06-03"),
			BranchID:     branch,
			Lines: []PurchaseLine{
				{ItemID: items[0].ID, Qty: 25.5},
				{ItemID: items[1].ID, Qty: 200},
			},
		}},
		WasteEntries: []WasteEntry{{
			RecordHeader: header("2026-06-04"),
			BranchID:     branch,
			Lines:        []WasteLine{{ItemID: items[2].ID, Qty: 1.25}},
		}},
		Stocktakes: []StocktakeCount{{
			RecordHeader: header("2026-05-30"),
			Type:         StocktakeClosing,
			BranchID:     branch,
			Lines: []CountLine{
				{ItemID: items[0].ID, CountedQty: 12.75},
				{ItemID: items[2].ID, CountedQty: 8},
			},
		}},
	}

	res := NewEngine().Reconcile(snap, period("2026-06-01", "2026-06-30"), AllLocations(), "")
	require.Len(t, res.Rows, 3)

	for _, r := range res.Rows {
		assert.InDelta(t, r.OpeningQty+r.ReceivingQty-r.ConsumptionQty, r.ClosingBookQty, 1e-9,
			"ledger identity for %s", r.ItemName)
	}
}

func TestReconcileNoActivity(t *testing.T) {
	branch := id.New()
	idle := stockItem("Saffron", "Spices", 120)

	snap := &Snapshot{
		Items: []item.StockItem{idle},
		Stocktakes: []StocktakeCount{{
			RecordHeader: header("2026-05-31"),
			Type:         StocktakeOpening,
			BranchID:     branch,
			Lines:        []CountLine{{ItemID: idle.ID, CountedQty: 0.5}},
		}},
	}

	res := NewEngine().Reconcile(snap, period("2026-06-01", "2026-06-30"), AllLocations(), "")

	row := rowFor(t, res, idle.ID)
	assert.Zero(t, row.ReceivingQty)
	assert.Zero(t, row.ConsumptionQty)
	assert.InDelta(t, row.OpeningQty, row.ClosingBookQty, 1e-9)
}

// Draft records with arbitrary line data must not move any figure.
func TestReconcileIgnoresDrafts(t *testing.T) {
	branch := id.New()
	itemX := stockItem("Oil", "Dry Goods", 4)
	menuItem := id.New()

	base := &Snapshot{
		Items: []item.StockItem{itemX},
		Recipes: []recipe.Recipe{{
			MenuItemID:  menuItem,
			Ingredients: []recipe.Ingredient{{LineNo: 1, ItemID: itemX.ID, Qty: 2}},
		}},
		Purchases: []PurchaseReceipt{{
			RecordHeader: header("2026-06-05"),
			BranchID:     branch,
			Lines:        []PurchaseLine{{ItemID: itemX.ID, Qty: 30}},
		}},
	}
	want := NewEngine().Reconcile(base, period("2026-06-01", "2026-06-30"), AllLocations(), "")

	withDrafts := &Snapshot{
		Items:   base.Items,
		Recipes: base.Recipes,
		Purchases: append([]PurchaseReceipt{}, append(base.Purchases, PurchaseReceipt{
			RecordHeader: draftHeader("2026-06-06"),
			BranchID:     branch,
			Lines:        []PurchaseLine{{ItemID: itemX.ID, Qty: 9999}},
		})...),
		ProductionRuns: []ProductionRun{{
			RecordHeader: draftHeader("2026-06-07"),
			BranchID:     branch,
			ProductID:    itemX.ID,
			ProducedQty:  500,
			Ingredients:  []ProductionIngredient{{ItemID: itemX.ID, RequiredQty: 100}},
		}},
		WasteEntries: []WasteEntry{{
			RecordHeader: draftHeader("2026-06-08"),
			BranchID:     branch,
			Lines:        []WasteLine{{ItemID: itemX.ID, Qty: 50}},
		}},
		Transfers: []TransferMovement{{
			RecordHeader: draftHeader("2026-06-09"),
			SourceID:     branch,
			Lines:        []TransferLine{{ItemID: itemX.ID, Qty: 75}},
		}},
		Sales: []SaleTicket{{
			RecordHeader: draftHeader("2026-06-10"),
			BranchID:     branch,
			Lines:        []SaleLine{{MenuItemID: menuItem, Qty: 40}},
		}},
		Stocktakes: []StocktakeCount{{
			RecordHeader: draftHeader("2026-06-11"),
			Type:         StocktakeRegular,
			BranchID:     branch,
			Lines:        []CountLine{{ItemID: itemX.ID, CountedQty: 1}},
		}},
	}
	got := NewEngine().Reconcile(withDrafts, period("2026-06-01", "2026-06-30"), AllLocations(), "")

	assert.Equal(t, want.Rows, got.Rows)
	assert.Equal(t, want.Total, got.Total)
}

func TestReconcileIdempotent(t *testing.T) {
	branch := id.New()
	itemX := stockItem("Rice", "Dry Goods", 1.8)

	snap := &Snapshot{
		Items: []item.StockItem{itemX},
		Purchases: []PurchaseReceipt{{
			RecordHeader: header("2026-06-05"),
			BranchID:     branch,
			Lines:        []PurchaseLine{{ItemID: itemX.ID, Qty: 40}},
		}},
		Stocktakes: []StocktakeCount{{
			RecordHeader: header("2026-06-15"),
			Type:         StocktakeRegular,
			BranchID:     branch,
			Lines:        []CountLine{{ItemID: itemX.ID, CountedQty: 38}},
		}},
	}

	p := period("2026-06-01", "2026-06-30")
	first := NewEngine().Reconcile(snap, p, AllLocations(), "")
	second := NewEngine().Reconcile(snap, p, AllLocations(), "")

	assert.Equal(t, first, second)
}

func TestReconcileTransferDirections(t *testing.T) {
	source := id.New()
	dest := id.New()
	itemX := stockItem("Tomatoes", "Produce", 2.5)

	snap := &Snapshot{
		Items: []item.StockItem{itemX},
		Transfers: []TransferMovement{{
			RecordHeader:  header("2026-06-10"),
			SourceID:      source,
			DestinationID: dest,
			Lines:         []TransferLine{{ItemID: itemX.ID, Qty: 12}},
		}},
	}
	p := period("2026-06-01", "2026-06-30")

	atSource := NewEngine().Reconcile(snap, p, AtLocation(source), "")
	row := rowFor(t, atSource, itemX.ID)
	assert.Zero(t, row.ReceivingQty)
	assert.InDelta(t, 12, row.ConsumptionQty, 1e-9)

	atDest := NewEngine().Reconcile(snap, p, AtLocation(dest), "")
	row = rowFor(t, atDest, itemX.ID)
	assert.InDelta(t, 12, row.ReceivingQty, 1e-9)
	assert.Zero(t, row.ConsumptionQty)

	// Under the ALL filter both legs apply and the movement nets to zero.
	all := NewEngine().Reconcile(snap, p, AllLocations(), "")
	row = rowFor(t, all, itemX.ID)
	assert.InDelta(t, 12, row.ReceivingQty, 1e-9)
	assert.InDelta(t, 12, row.ConsumptionQty, 1e-9)
	assert.Zero(t, row.ClosingBookQty)
}

func TestReconcileVarianceOnlyWithPhysicalCount(t *testing.T) {
	branch := id.New()
	counted := stockItem("Butter", "Dairy", 6)
	uncounted := stockItem("Cream", "Dairy", 4)

	snap := &Snapshot{
		Items: []item.StockItem{counted, uncounted},
		Purchases: []PurchaseReceipt{{
			RecordHeader: header("2026-06-02"),
			BranchID:     branch,
			Lines: []PurchaseLine{
				{ItemID: counted.ID, Qty: 20},
				{ItemID: uncounted.ID, Qty: 10},
			},
		}},
		Stocktakes: []StocktakeCount{{
			RecordHeader: header("2026-06-28"),
			Type:         StocktakeRegular,
			BranchID:     branch,
			Lines:        []CountLine{{ItemID: counted.ID, CountedQty: 18.5}},
		}},
	}

	res := NewEngine().Reconcile(snap, period("2026-06-01", "2026-06-30"), AllLocations(), "")

	row := rowFor(t, res, counted.ID)
	assert.True(t, row.HasPhysicalCount)
	assert.InDelta(t, 18.5, row.PhysicalQty, 1e-9)
	assert.InDelta(t, -1.5, row.VarianceQty, 1e-9)
	assert.InDelta(t, -9, row.VarianceValue, 1e-9)

	// The count document exists, so every row in its scope is counted;
	// an item absent from the lines counts as zero.
	row = rowFor(t, res, uncounted.ID)
	assert.True(t, row.HasPhysicalCount)
	assert.Zero(t, row.PhysicalQty)
	assert.InDelta(t, -10, row.VarianceQty, 1e-9)
}

func TestReconcileOpeningPicksLatestBeforePeriod(t *testing.T) {
	branch := id.New()
	itemX := stockItem("Sugar", "Dry Goods", 1.2)

	snap := &Snapshot{
		Items: []item.StockItem{itemX},
		Stocktakes: []StocktakeCount{
			{
				RecordHeader: header("2026-04-30"),
				Type:         StocktakeClosing,
				BranchID:     branch,
				Lines:        []CountLine{{ItemID: itemX.ID, CountedQty: 70}},
			},
			{
				RecordHeader: header("2026-05-31"),
				Type:         StocktakeOpening,
				BranchID:     branch,
				Lines:        []CountLine{{ItemID: itemX.ID, CountedQty: 55}},
			},
			{
				// Regular counts never seed openings.
				RecordHeader: header("2026-05-31"),
				Type:         StocktakeRegular,
				BranchID:     branch,
				Lines:        []CountLine{{ItemID: itemX.ID, CountedQty: 1}},
			},
		},
	}

	res := NewEngine().Reconcile(snap, period("2026-06-01", "2026-06-30"), AllLocations(), "")
	assert.InDelta(t, 55, rowFor(t, res, itemX.ID).OpeningQty, 1e-9)
}

func TestReconcileOpeningTieLastWins(t *testing.T) {
	branch := id.New()
	itemX := stockItem("Pepper", "Spices", 14)

	mk := func(qty float64) StocktakeCount {
		return StocktakeCount{
			RecordHeader: header("2026-05-31"),
			Type:         StocktakeOpening,
			BranchID:     branch,
			Lines:        []CountLine{{ItemID: itemX.ID, CountedQty: qty}},
		}
	}
	snap := &Snapshot{
		Items:      []item.StockItem{itemX},
		Stocktakes: []StocktakeCount{mk(10), mk(20), mk(30)},
	}

	res := NewEngine().Reconcile(snap, period("2026-06-01", "2026-06-30"), AllLocations(), "")
	assert.InDelta(t, 30, rowFor(t, res, itemX.ID).OpeningQty, 1e-9)
}

func TestReconcileCategoryFilterAndSorting(t *testing.T) {
	branch := id.New()
	dairy1 := stockItem("Yogurt", "Dairy", 3)
	dairy2 := stockItem("Cheese", "Dairy", 7)
	produce := stockItem("Apples", "Produce", 1.5)
	inactive := stockItem("Retired", "Dairy", 1)
	inactive.Active = false

	snap := &Snapshot{
		Items: []item.StockItem{produce, dairy1, dairy2, inactive},
		Purchases: []PurchaseReceipt{{
			RecordHeader: header("2026-06-05"),
			BranchID:     branch,
			Lines: []PurchaseLine{
				{ItemID: dairy1.ID, Qty: 5},
				{ItemID: dairy2.ID, Qty: 3},
				{ItemID: produce.ID, Qty: 8},
				{ItemID: inactive.ID, Qty: 100},
			},
		}},
	}
	p := period("2026-06-01", "2026-06-30")

	all := NewEngine().Reconcile(snap, p, AllLocations(), "")
	require.Len(t, all.Rows, 3)
	assert.Equal(t, []string{"Cheese", "Yogurt", "Apples"},
		[]string{all.Rows[0].ItemName, all.Rows[1].ItemName, all.Rows[2].ItemName})

	require.Len(t, all.Categories, 2)
	assert.Equal(t, "Dairy", all.Categories[0].Category)
	assert.InDelta(t, 8, all.Categories[0].ReceivingQty, 1e-9)
	assert.Equal(t, "Produce", all.Categories[1].Category)
	assert.InDelta(t, 16, all.Total.ReceivingQty, 1e-9)

	dairyOnly := NewEngine().Reconcile(snap, p, AllLocations(), "Dairy")
	require.Len(t, dairyOnly.Rows, 2)
	for _, r := range dairyOnly.Rows {
		assert.Equal(t, "Dairy", r.Category)
	}
}

func TestReconcileUnknownReferencesSkipped(t *testing.T) {
	branch := id.New()
	itemX := stockItem("Eggs", "Dairy", 0.3)
	ghost := id.New()

	snap := &Snapshot{
		Items: []item.StockItem{itemX},
		Purchases: []PurchaseReceipt{{
			RecordHeader: header("2026-06-05"),
			BranchID:     branch,
			Lines: []PurchaseLine{
				{ItemID: itemX.ID, Qty: 60},
				{ItemID: ghost, Qty: 500},
			},
		}},
		Sales: []SaleTicket{{
			RecordHeader: header("2026-06-06"),
			BranchID:     branch,
			Lines:        []SaleLine{{MenuItemID: ghost, Qty: 10}},
		}},
	}

	res := NewEngine().Reconcile(snap, period("2026-06-01", "2026-06-30"), AllLocations(), "")
	require.Len(t, res.Rows, 1)
	assert.InDelta(t, 60, res.Rows[0].ReceivingQty, 1e-9)
	assert.Zero(t, res.Rows[0].ConsumptionQty)
}

func TestReconcileProductionRun(t *testing.T) {
	branch := id.New()
	sauce := stockItem("House Sauce", "Prepared", 3.1)
	tomato := stockItem("Tomatoes", "Produce", 2.5)

	snap := &Snapshot{
		Items: []item.StockItem{sauce, tomato},
		ProductionRuns: []ProductionRun{{
			RecordHeader: header("2026-06-12"),
			BranchID:     branch,
			ProductID:    sauce.ID,
			ProducedQty:  15,
			Ingredients:  []ProductionIngredient{{ItemID: tomato.ID, RequiredQty: 22}},
		}},
	}

	res := NewEngine().Reconcile(snap, period("2026-06-01", "2026-06-30"), AllLocations(), "")

	assert.InDelta(t, 15, rowFor(t, res, sauce.ID).ReceivingQty, 1e-9)
	assert.InDelta(t, 22, rowFor(t, res, tomato.ID).ConsumptionQty, 1e-9)
}
