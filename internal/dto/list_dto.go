package dto

import "github.com/noah-isme/elplano-go-api/internal/finder"

// ListResponse is one page of a collection.
type ListResponse[T any] struct {
	Items      []T             `json:"items"`
	Pagination finder.PageInfo `json:"pagination"`
}

// NewListResponse converts a finder result with the given item mapper.
func NewListResponse[M any, T any](result finder.Result[M], convert func(M) T) ListResponse[T] {
	items := make([]T, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, convert(item))
	}
	return ListResponse[T]{Items: items, Pagination: result.Page}
}
