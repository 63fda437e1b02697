package dto

import "github.com/shopspring/decimal"

type StockFilters struct {
	TenantID   string
	ProductID  string
	LocationID string
	// LotID filters the lot bucket: nil means no filter, empty string means the
	// "no lot" bucket.
	LotID    *string
	LowStock bool
	// Threshold backs the LowStock filter; it comes from service configuration,
	// not from the ledger.
	Threshold decimal.Decimal
	Page      int
	PageSize  int
}

type MovementFilters struct {
	TenantID     string
	ProductID    string
	LocationID   string
	MovementType string
	Page         int
	PageSize     int
}
