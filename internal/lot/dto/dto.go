package dto

type LotFilters struct {
	TenantID  string
	ProductID string
	Blocked   *bool
	Page      int
	PageSize  int
}
