package service

import repo "taskManager/internal/repository"

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination is a 1-based page request. per_page is clamped to MaxPerPage.
type Pagination struct {
	Page    int
	PerPage int
}

func NewPagination(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

func (p Pagination) repoPage() repo.Page {
	return repo.Page{Offset: (p.Page - 1) * p.PerPage, Limit: p.PerPage}
}

type Paginated[T any] struct {
	Items []T
	Pagination
	Total int
}

func (p Paginated[T]) Pages() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

func (p Paginated[T]) HasNext() bool {
	return p.Page < p.Pages()
}

func (p Paginated[T]) HasPrev() bool {
	return p.Page > 1
}
