package common

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:     1,
		PageSize: 20,
	}
}

// Normalize clamps the parameters to their allowed ranges.
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// PageSlice returns the half-open index range [start, end) for the given
// 1-based page over a collection of total items. Out-of-range pages yield
// an empty range rather than an error.
func PageSlice(total, page, pageSize int) (start, end int) {
	start = (page - 1) * pageSize
	if start >= total {
		return total, total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
