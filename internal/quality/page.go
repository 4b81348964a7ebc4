package quality

import "qc-tracking-backend/internal/model"

// Page is one window of an already ordered collection.
type Page struct {
	Items      []model.Measurement `json:"items"`
	TotalPages int                 `json:"totalPages"`
}

// TotalPages is ceil(n/pageSize), never less than 1. A non-positive page size
// puts everything on a single page.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= pageSize {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns page pageNumber (1-based) of records. It neither sorts nor
// clamps: a page outside [1, TotalPages] has no items.
func Paginate(records []model.Measurement, pageSize, pageNumber int) Page {
	p := Page{Items: []model.Measurement{}, TotalPages: TotalPages(len(records), pageSize)}
	if pageSize <= 0 {
		pageSize = len(records)
	}
	if pageNumber < 1 {
		return p
	}

	start := (pageNumber - 1) * pageSize
	if start >= len(records) {
		return p
	}
	end := min(start+pageSize, len(records))
	p.Items = append(p.Items, records[start:end]...)
	return p
}

// ClampPage bounds a requested page number to [1, totalPages].
func ClampPage(pageNumber, totalPages int) int {
	return max(1, min(pageNumber, totalPages))
}
