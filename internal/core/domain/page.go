package domain

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Page is a paginated listing as served by the admin endpoints.
type Page[T any] struct {
	Data       []T        `json:"data" validate:"dive"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes the page count for total rows at limit per page.
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
