package dto

type SerialFilters struct {
	TenantID   string
	ProductID  string
	LotID      string
	LocationID string
	Status     string
	SearchTerm string
	Page       int
	PageSize   int
}
