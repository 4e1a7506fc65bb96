package page

import "errors"

// ErrInvalidPage is returned when page is negative or pageSize is not positive.
var ErrInvalidPage = errors.New("invalid page parameters")

// Page is a bounded slice of a larger result set together with
// pagination metadata. Page numbers are zero-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"page"`
	Size          int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// New builds a Page from the content of a single page and the total
// element count across all pages.
func New[T any](content []T, number, size int, totalElements int64) Page[T] {
	totalPages := int(totalElements / int64(size))
	if totalElements%int64(size) != 0 {
		totalPages++
	}

	return Page[T]{
		Content:       content,
		Number:        number,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
	}
}

// Validate checks pagination parameters against the store contract.
func Validate(number, size int) error {
	if number < 0 || size <= 0 {
		return ErrInvalidPage
	}

	return nil
}

// Map converts a Page of one element type into a Page of another,
// preserving all metadata.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	content := make([]U, len(p.Content))
	for i, item := range p.Content {
		content[i] = f(item)
	}

	return Page[U]{
		Content:       content,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
