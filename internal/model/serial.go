package model

import "github.com/fluxpos/warehouse-service/internal/apperr"

// SerialStatus is the lifecycle state of one serialized unit. Sold and
// Scrapped are terminal.
type SerialStatus string

const (
	SerialInStock  SerialStatus = "in_stock"
	SerialReserved SerialStatus = "reserved"
	SerialSold     SerialStatus = "sold"
	SerialBlocked  SerialStatus = "blocked"
	SerialScrapped SerialStatus = "scrapped"
)

func ParseSerialStatus(s string) (SerialStatus, error) {
	switch SerialStatus(s) {
	case SerialInStock, SerialReserved, SerialSold, SerialBlocked, SerialScrapped:
		return SerialStatus(s), nil
	}
	return "", apperr.InvalidArgument("unknown serial status %q", s)
}

var serialTransitions = map[SerialStatus]map[SerialStatus]bool{
	SerialInStock: {
		SerialReserved: true,
		SerialSold:     true,
		SerialBlocked:  true,
		SerialScrapped: true,
	},
	SerialReserved: {
		SerialInStock: true,
		SerialSold:    true,
		SerialBlocked: true,
	},
	SerialBlocked: {
		SerialInStock:  true,
		SerialScrapped: true,
	},
	SerialSold:     {},
	SerialScrapped: {},
}

func (s SerialStatus) CanTransitionTo(next SerialStatus) bool {
	return serialTransitions[s][next]
}

// AllowedWhenLotBlocked reports whether a transition target is still permitted
// while the serial's lot carries an active block.
func (s SerialStatus) AllowedWhenLotBlocked() bool {
	return s == SerialBlocked || s == SerialScrapped
}

type Serial struct {
	BaseModel
	TenantID   string       `db:"tenant_id" json:"tenant_id"`
	ProductID  string       `db:"product_id" json:"product_id"`
	LotID      *string      `db:"lot_id" json:"lot_id"`
	LocationID *string      `db:"location_id" json:"location_id"`
	SerialCode string       `db:"serial_code" json:"serial_code"`
	Status     SerialStatus `db:"status" json:"status"`
	Notes      *string      `db:"notes" json:"notes"`
}
