package search

import (
	"context"
	"fmt"

	"github.com/phrazzld/cards-api/internal/domain"
)

// Source executes criteria against storage. It returns the requested page of
// cards and the total number of cards matching the scope and filter.
type Source interface {
	Search(ctx context.Context, c Criteria) ([]*domain.Card, int, error)
}

// Page is one window of a search result.
type Page struct {
	Items           []*domain.Card
	Page            int
	PageSize        int
	TotalCount      int
	TotalPages      int
	HasNextPage     bool
	HasPreviousPage bool
}

// NewPage computes the pagination metadata for items. page and pageSize must
// already be normalized.
func NewPage(items []*domain.Card, page, pageSize, totalCount int) Page {
	if items == nil {
		items = []*domain.Card{}
	}
	totalPages := totalCount / pageSize
	if totalCount%pageSize != 0 {
		totalPages++
	}
	return Page{
		Items:           items,
		Page:            page,
		PageSize:        pageSize,
		TotalCount:      totalCount,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages, // page*pageSize < totalCount, without overflow
		HasPreviousPage: page > 1,
	}
}

// Run builds criteria from p and fetches the page from src.
func Run(ctx context.Context, src Source, p Params, scope Scope) (Page, error) {
	c, err := Build(p, scope)
	if err != nil {
		return Page{}, err
	}

	items, total, err := src.Search(ctx, c)
	if err != nil {
		return Page{}, fmt.Errorf("search cards: %w", err)
	}

	return NewPage(items, c.Page, c.PageSize, total), nil
}
