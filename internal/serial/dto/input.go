package dto

type CreateSerialInput struct {
	TenantID   string
	ProductID  string
	LotID      *string
	LocationID *string
	SerialCode string
	Notes      *string
}

type UpdateSerialStatusInput struct {
	TenantID string
	ID       string
	Status   string
	Notes    *string
}
