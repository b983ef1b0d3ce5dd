// Package location provides the branch and warehouse master lists.
// Locations are used for filtering and display only; the ledger engine
// treats them as opaque identifiers.
package location

import (
	"context"

	"costline/internal/core/id"
)

// Kind distinguishes sales branches from storage warehouses.
type Kind string

const (
	KindBranch    Kind = "branch"
	KindWarehouse Kind = "warehouse"
)

// Location is a branch or warehouse.
type Location struct {
	ID     id.ID  `db:"id" json:"id"`
	Kind   Kind   `db:"kind" json:"kind"`
	Name   string `db:"name" json:"name"`
	Code   string `db:"code" json:"code,omitempty"`
	Active bool   `db:"active" json:"active"`
}

// Repository defines storage operations for locations.
type Repository interface {
	List(ctx context.Context, kind Kind) ([]Location, error)
	GetByID(ctx context.Context, locID id.ID) (*Location, error)
}
