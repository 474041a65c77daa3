package user

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64 // Total number of matching records
	Page       int64 // Reported page number (1-based)
	Limit      int64 // Number of records per page
	TotalPages int64 // Total number of pages
}

// NewPagination calculates pagination for a list response.
//
// When the requested page lies beyond the last page and at least one page
// exists, the reported page is clamped to the last page. The query that
// produced the data has already run with the original skip, so such a page
// reports the corrected number alongside an empty data slice. With zero
// matches there is nothing to clamp against and the requested page is
// reported as-is.
func NewPagination(total, page, limit int64) *Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	current := page
	if page > totalPages && totalPages > 0 {
		current = totalPages
	}

	return &Pagination{
		Total:      total,
		Page:       current,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
