package dto

import "time"

type CreateLotInput struct {
	TenantID        string
	ProductID       string
	Code            string
	ManufactureDate time.Time
	ExpiryDate      *time.Time
	CreatedBy       string
}

type UpdateLotInput struct {
	TenantID        string
	ID              string
	Code            string
	ManufactureDate time.Time
	ExpiryDate      *time.Time
}

type UpdateQualityInput struct {
	TenantID string
	ID       string
	Status   string
	Notes    *string
}

type BlockLotInput struct {
	TenantID  string
	ID        string
	Reason    string
	BlockedBy string
}
