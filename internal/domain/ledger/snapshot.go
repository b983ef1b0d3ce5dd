package ledger

import (
	"costline/internal/core/id"
	"costline/internal/domain/catalog/item"
	"costline/internal/domain/catalog/recipe"
)

// Snapshot is the read-only input set for one computation: master data
// plus the transaction record collections. The repository supplies it;
// the engine never reads ambient state. Callers must not mutate a
// snapshot while a computation is in flight.
type Snapshot struct {
	Items   []item.StockItem
	Recipes []recipe.Recipe

	Purchases      []PurchaseReceipt
	ProductionRuns []ProductionRun
	WasteEntries   []WasteEntry
	Transfers      []TransferMovement
	Sales          []SaleTicket
	Stocktakes     []StocktakeCount
}

// itemIndex maps item id to its position in Items.
func (s *Snapshot) itemIndex() map[id.ID]int {
	idx := make(map[id.ID]int, len(s.Items))
	for i := range s.Items {
		idx[s.Items[i].ID] = i
	}
	return idx
}
