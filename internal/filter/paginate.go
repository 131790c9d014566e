package filter

import "github.com/amaumene/marquee/internal/models"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one page of a filtered listing
type Page struct {
	Results      []models.MediaRecord `json:"results"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	TotalResults int                  `json:"total_results"`
	TotalPages   int                  `json:"total_pages"`
}

// Paginate cuts records into pages of size and returns the requested one.
// Pages start at 1; out of range sizes fall back to DefaultPageSize. A page
// past the end is empty but still reports the totals.
func Paginate(records []models.MediaRecord, page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}

	total := len(records)
	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page{
		Results:      append([]models.MediaRecord{}, records[start:end]...),
		Page:         page,
		PageSize:     size,
		TotalResults: total,
		TotalPages:   totalPages,
	}
}
