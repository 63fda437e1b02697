package dto

import "github.com/shopspring/decimal"

type CreateFacilityInput struct {
	TenantID string
	Name     string
	Address  *string
}

type UpdateFacilityInput struct {
	TenantID string
	ID       string
	Name     string
	Address  *string
	IsActive bool
}

type CreateLocationInput struct {
	TenantID   string
	FacilityID string
	Code       string
	Capacity   *decimal.Decimal
}

type UpdateLocationInput struct {
	TenantID string
	ID       string
	Code     string
	Capacity *decimal.Decimal
}
