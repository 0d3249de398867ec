package model

import "strings"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ProductSort is a client-facing sort key.
type ProductSort string

const (
	SortByName      ProductSort = "name"
	SortByPrice     ProductSort = "price"
	SortByStatus    ProductSort = "status"
	SortByCreatedAt ProductSort = "createdAt"
	SortByUpdatedAt ProductSort = "updatedAt"
)

func (s ProductSort) IsValid() bool {
	switch s {
	case SortByName, SortByPrice, SortByStatus, SortByCreatedAt, SortByUpdatedAt:
		return true
	}
	return false
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ProductQuery selects one page of the product listing.
type ProductQuery struct {
	Page   int
	Limit  int
	Sort   ProductSort
	Order  SortOrder
	Search string
}

// Normalize fills defaults and clamps out-of-range values.
func (q ProductQuery) Normalize() ProductQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if !q.Sort.IsValid() {
		q.Sort = SortByCreatedAt
	}
	if q.Order != SortAsc {
		q.Order = SortDesc
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Offset is the number of rows skipped before the page.
func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type PaginatedResponse[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// NewPaginatedResponse derives the page metadata from total and limit.
func NewPaginatedResponse[T any](data []T, total int64, page, limit int) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginatedResponse[T]{
		Data:        data,
		Total:       total,
		Page:        page,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
