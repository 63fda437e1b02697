package dto

import "github.com/shopspring/decimal"

// UpsertStockInput sets the authoritative on-hand quantity for one ledger key.
type UpsertStockInput struct {
	TenantID       string
	ProductID      string
	LocationID     string
	LotID          *string
	QuantityOnHand decimal.Decimal
	Notes          string
	UserID         string
}

type ReserveStockInput struct {
	TenantID   string
	ProductID  string
	LocationID string
	LotID      *string
	Quantity   decimal.Decimal
	// Reference ties the reservation movement back to the external transaction
	// (usually a sale) that requested it.
	ReferenceType string
	ReferenceID   string
	UserID        string
}

type ReleaseStockInput struct {
	TenantID      string
	ProductID     string
	LocationID    string
	LotID         *string
	Quantity      decimal.Decimal
	ReferenceType string
	ReferenceID   string
	UserID        string
}
