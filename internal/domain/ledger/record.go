// Package ledger implements the inventory reconciliation and analytics
// engine: given an immutable snapshot of master data and transaction
// records, it derives per-item period ledgers (opening, receipts,
// consumption, book balance, physical count, variance).
//
// The engine is a pure computation. It performs no I/O, owns no state
// between invocations and never mutates its inputs, so it is safe to call
// from concurrent report views sharing one snapshot.
package ledger

import (
	"time"

	"costline/internal/core/id"
)

// Record is the capability set shared by every transaction kind.
// The filter predicates operate on this interface so no report has to
// know the concrete record shapes.
type Record interface {
	RecordDate() time.Time
	RecordStatus() Status

	// LocationRefs returns the branch/warehouse ids the record touches.
	// Direction-sensitive matching (transfers) is handled by the engine.
	LocationRefs() []id.ID
}

// RecordHeader carries the fields every transaction kind has.
type RecordHeader struct {
	ID     id.ID     `db:"id" json:"id"`
	Number string    `db:"number" json:"number,omitempty"`
	Date   time.Time `db:"date" json:"date"`
	Status Status    `db:"status" json:"status"`
}

func (h RecordHeader) RecordDate() time.Time { return h.Date }
func (h RecordHeader) RecordStatus() Status  { return h.Status }

// --- PurchaseReceipt ---

// PurchaseLine is one received item on a purchase receipt.
type PurchaseLine struct {
	ItemID   id.ID   `db:"item_id" json:"itemId"`
	Qty      float64 `db:"qty" json:"qty"`
	UnitCost float64 `db:"unit_cost" json:"unitCost"`
}

// PurchaseReceipt records goods received from a supplier into a branch
// or a central warehouse. Either location field may be unset.
type PurchaseReceipt struct {
	RecordHeader

	BranchID    id.ID `db:"branch_id" json:"branchId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	SupplierName string         `db:"supplier_name" json:"supplierName,omitempty"`
	Lines        []PurchaseLine `db:"-" json:"lines"`
}

func (p PurchaseReceipt) LocationRefs() []id.ID {
	return nonNilRefs(p.BranchID, p.WarehouseID)
}

// --- ProductionRun ---

// ProductionIngredient is a raw item consumed by a production run.
type ProductionIngredient struct {
	ItemID      id.ID   `db:"item_id" json:"itemId"`
	RequiredQty float64 `db:"required_qty" json:"requiredQty"`
}

// ProductionRun converts raw ingredients into a produced stock item
// (batch prep: sauces, doughs, portioned proteins).
type ProductionRun struct {
	RecordHeader

	BranchID    id.ID   `db:"branch_id" json:"branchId"`
	ProductID   id.ID   `db:"product_id" json:"productId"`
	ProducedQty float64 `db:"produced_qty" json:"producedQty"`
	TotalCost   float64 `db:"total_cost" json:"totalCost"`

	Ingredients []ProductionIngredient `db:"-" json:"ingredients"`
}

func (p ProductionRun) LocationRefs() []id.ID {
	return nonNilRefs(p.BranchID)
}

// --- WasteEntry ---

// WasteLine is one written-off item.
type WasteLine struct {
	ItemID   id.ID   `db:"item_id" json:"itemId"`
	Qty      float64 `db:"qty" json:"qty"`
	UnitCost float64 `db:"unit_cost" json:"unitCost"`
	Reason   string  `db:"reason" json:"reason,omitempty"`
}

// WasteEntry records spoilage, breakage and other write-offs at a branch.
type WasteEntry struct {
	RecordHeader

	BranchID id.ID       `db:"branch_id" json:"branchId"`
	Lines    []WasteLine `db:"-" json:"lines"`
}

func (w WasteEntry) LocationRefs() []id.ID {
	return nonNilRefs(w.BranchID)
}

// --- TransferMovement ---

// TransferLine is one item moved between locations.
type TransferLine struct {
	ItemID id.ID   `db:"item_id" json:"itemId"`
	Qty    float64 `db:"qty" json:"qty"`
}

// TransferMovement moves stock between two locations. The direction
// relative to the location filter decides whether a line counts as
// receiving (destination matches) or consumption (source matches).
type TransferMovement struct {
	RecordHeader

	SourceID      id.ID          `db:"source_id" json:"sourceId"`
	DestinationID id.ID          `db:"destination_id" json:"destinationId"`
	Lines         []TransferLine `db:"-" json:"lines"`
}

func (t TransferMovement) LocationRefs() []id.ID {
	return nonNilRefs(t.SourceID, t.DestinationID)
}

// --- SaleTicket ---

// SaleLine is one sold menu item on a POS ticket.
type SaleLine struct {
	MenuItemID id.ID   `db:"menu_item_id" json:"menuItemId"`
	Qty        float64 `db:"qty" json:"qty"`
}

// SaleTicket is a point-of-sale ticket; its lines reference menu items
// that the recipe exploder resolves into raw-ingredient consumption.
type SaleTicket struct {
	RecordHeader

	BranchID id.ID      `db:"branch_id" json:"branchId"`
	Lines    []SaleLine `db:"-" json:"lines"`
}

func (s SaleTicket) LocationRefs() []id.ID {
	return nonNilRefs(s.BranchID)
}

// --- StocktakeCount ---

// StocktakeType classifies a physical count.
type StocktakeType string

const (
	StocktakeOpening StocktakeType = "opening"
	StocktakeClosing StocktakeType = "closing"
	StocktakeRegular StocktakeType = "regular"
)

// CountLine is one counted item.
type CountLine struct {
	ItemID     id.ID   `db:"item_id" json:"itemId"`
	CountedQty float64 `db:"counted_qty" json:"countedQty"`
}

// StocktakeCount is a physical inventory count at a branch or warehouse.
// Opening and closing counts seed period opening balances; non-opening
// counts inside a period provide the physical quantity for variance.
type StocktakeCount struct {
	RecordHeader

	Type        StocktakeType `db:"type" json:"type"`
	BranchID    id.ID         `db:"branch_id" json:"branchId"`
	WarehouseID id.ID         `db:"warehouse_id" json:"warehouseId"`

	Lines []CountLine `db:"-" json:"lines"`
}

func (s StocktakeCount) LocationRefs() []id.ID {
	return nonNilRefs(s.BranchID, s.WarehouseID)
}

// CountedQtyFor returns the counted quantity for an item, 0 if the item
// is absent from the count. Absence is a policy default, not an error.
func (s StocktakeCount) CountedQtyFor(itemID id.ID) float64 {
	for _, l := range s.Lines {
		if l.ItemID == itemID {
			return l.CountedQty
		}
	}
	return 0
}

// Compile-time interface checks for all record variants.
var (
	_ Record = PurchaseReceipt{}
	_ Record = ProductionRun{}
	_ Record = WasteEntry{}
	_ Record = TransferMovement{}
	_ Record = SaleTicket{}
	_ Record = StocktakeCount{}
)

func nonNilRefs(ids ...id.ID) []id.ID {
	refs := make([]id.ID, 0, len(ids))
	for _, v := range ids {
		if !id.IsNil(v) {
			refs = append(refs, v)
		}
	}
	return refs
}
