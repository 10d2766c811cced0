package pagination

import "math"

// Meta describes a paginated result set for table footers and JSON
// envelopes.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewMeta derives pagination metadata from the request params and the
// service's total item count.
func NewMeta(params Params, totalItems int) Meta {
	pageSize := params.PageSize
	if pageSize == 0 && params.Limit > 0 {
		pageSize = params.Limit
	}
	if pageSize == 0 {
		pageSize = totalItems // No explicit size: treat as one page.
	}

	currentPage := params.Page
	if currentPage == 0 && params.Offset > 0 && pageSize > 0 {
		currentPage = (params.Offset / pageSize) + 1
	}
	if currentPage == 0 {
		currentPage = 1
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(pageSize)))
	}

	return Meta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}
