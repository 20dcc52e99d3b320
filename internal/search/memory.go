package search

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/phrazzld/cards-api/internal/domain"
)

// Matches reports whether card falls inside c's scope and filter.
func (c Criteria) Matches(card *domain.Card) bool {
	if !c.Scope.All && card.CreatedByID != c.Scope.OwnerID {
		return false
	}

	f := c.Filter
	switch f.Kind {
	case FilterColor:
		return card.Color != nil && strings.Contains(strings.ToUpper(*card.Color), f.Color)
	case FilterCreatedOn:
		y, m, d := card.CreatedAt.UTC().Date()
		fy, fm, fd := f.CreatedOn.Date()
		return y == fy && m == fm && d == fd
	case FilterStatus:
		return card.StatusID == f.Status
	case FilterName:
		return strings.Contains(strings.ToUpper(card.Name), strings.ToUpper(f.Name))
	default:
		return true
	}
}

// Compare orders two cards by c's sort column and direction, breaking ties
// by card id in the same direction. Absent colors sort first.
func (c Criteria) Compare(a, b *domain.Card) int {
	var r int
	switch c.Sort {
	case SortByName:
		r = cmp.Compare(a.Name, b.Name)
	case SortByColor:
		r = cmp.Compare(colorKey(a), colorKey(b))
	case SortByStatus:
		r = cmp.Compare(a.StatusID, b.StatusID)
	case SortByCreatedAt:
		r = a.CreatedAt.Compare(b.CreatedAt)
	}
	if r == 0 {
		r = cmp.Compare(a.ID, b.ID)
	}
	if c.Order == Descending {
		r = -r
	}
	return r
}

func colorKey(c *domain.Card) string {
	if c.Color == nil {
		return ""
	}
	return *c.Color
}

// SliceSource evaluates criteria over an in-memory slice of cards.
type SliceSource []*domain.Card

// Search implements Source.
func (s SliceSource) Search(_ context.Context, c Criteria) ([]*domain.Card, int, error) {
	matched := make([]*domain.Card, 0, len(s))
	for _, card := range s {
		if c.Matches(card) {
			matched = append(matched, card)
		}
	}
	slices.SortStableFunc(matched, c.Compare)

	total := len(matched)
	start := min(c.Offset(), total)
	end := start + min(c.Limit(), total-start)
	return matched[start:end], total, nil
}
