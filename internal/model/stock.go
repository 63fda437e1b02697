package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry is the quantity-accounting row for one
// (tenant, product, location, lot) key. lot_id NULL is the "no lot" bucket.
// The storage layer guarantees 0 <= quantity_reserved <= quantity_on_hand on
// every committed row.
type StockEntry struct {
	ID               string          `db:"id" json:"id"`
	TenantID         string          `db:"tenant_id" json:"tenant_id"`
	ProductID        string          `db:"product_id" json:"product_id"`
	LocationID       string          `db:"location_id" json:"location_id"`
	LotID            *string         `db:"lot_id" json:"lot_id"`
	QuantityOnHand   decimal.Decimal `db:"quantity_on_hand" json:"quantity_on_hand"`
	QuantityReserved decimal.Decimal `db:"quantity_reserved" json:"quantity_reserved"`
	LastMovementAt   time.Time       `db:"last_movement_at" json:"last_movement_at"`
}

// Available is the quantity still open for reservation.
func (e *StockEntry) Available() decimal.Decimal {
	return e.QuantityOnHand.Sub(e.QuantityReserved)
}

const (
	MovementAdjustment = "adjustment"
	MovementReserve    = "reserve"
	MovementRelease    = "release"
)

type StockMovement struct {
	ID             string          `db:"id" json:"id"`
	TenantID       string          `db:"tenant_id" json:"tenant_id"`
	ProductID      string          `db:"product_id" json:"product_id"`
	LocationID     string          `db:"location_id" json:"location_id"`
	LotID          *string         `db:"lot_id" json:"lot_id"`
	MovementType   string          `db:"movement_type" json:"movement_type"`
	QuantityChange decimal.Decimal `db:"quantity_change" json:"quantity_change"`
	QuantityBefore decimal.Decimal `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  decimal.Decimal `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string         `db:"reference_type" json:"reference_type"`
	ReferenceID    *string         `db:"reference_id" json:"reference_id"`
	Notes          string          `db:"notes" json:"notes"`
	CreatedBy      *string         `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
