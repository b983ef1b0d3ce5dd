// Package dto defines request and response shapes for API v1.
package dto

// IDResponse is returned from create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps a collection with its count.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewListResponse builds a ListResponse from a slice.
func NewListResponse[T any](items []T) ListResponse[T] {
	return ListResponse[T]{Items: items, Count: len(items)}
}
