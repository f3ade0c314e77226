// Package pagination resolves 1-based page numbers against a known total.
// Out-of-range pages are clamped instead of rejected, so every request yields a valid page.
package pagination

import (
	"strconv"
	"strings"
)

// Page sizes used across the portal.
const (
	FeedPageSize     = 6
	ArticlePageSize  = 10
	UserListPageSize = 15
)

// Metadata describes one resolved page of a result set.
type Metadata struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// CalculateOffset calculates the database OFFSET value based on page number and limit.
// Page numbers are 1-based, so page 1 has offset 0.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// CalculateTotalPages calculates the total number of pages based on total items and limit.
// If total is 0, returns 1 (always at least 1 page).
func CalculateTotalPages(total int64, limit int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ParsePage converts a raw query value to a page number.
// Empty, non-numeric and non-positive values resolve to page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Resolve parses raw and clamps it to [1, TotalPages].
func Resolve(raw string, total int64, size int) Metadata {
	totalPages := CalculateTotalPages(total, size)
	page := ParsePage(raw)
	if page > totalPages {
		page = totalPages
	}
	return Metadata{
		Page:        page,
		PageSize:    size,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// Offset returns the OFFSET for the resolved page.
func (m Metadata) Offset() int {
	return CalculateOffset(m.Page, m.PageSize)
}
