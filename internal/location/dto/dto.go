package dto

type FacilityFilters struct {
	TenantID string
	IsActive *bool
	Page     int
	PageSize int
}

type LocationFilters struct {
	TenantID   string
	FacilityID string
	Page       int
	PageSize   int
}
