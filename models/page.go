package models

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	Offset      int   `json:"offset"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPage wraps an already-sliced item list with pagination metadata.
// has_next holds exactly when offset+limit < total; has_previous when
// offset > 0.
func NewPage[T any](items []T, total int64, offset, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		Offset:      offset,
		Limit:       limit,
		HasNext:     int64(offset+limit) < total,
		HasPrevious: offset > 0,
	}
}
