package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type StorageFacility struct {
	BaseModel
	TenantID  string     `db:"tenant_id" json:"tenant_id"`
	Name      string     `db:"name" json:"name"`
	Address   *string    `db:"address" json:"address"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

type StorageLocation struct {
	BaseModel
	TenantID   string           `db:"tenant_id" json:"tenant_id"`
	FacilityID string           `db:"facility_id" json:"facility_id"`
	Code       string           `db:"code" json:"code"`
	Capacity   *decimal.Decimal `db:"capacity" json:"capacity"`
	DeletedAt  *time.Time       `db:"deleted_at" json:"-"`
}
