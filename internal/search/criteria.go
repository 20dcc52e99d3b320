// Package search turns free-form card search parameters into validated,
// storage-independent criteria and assembles paginated results.
package search

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/phrazzld/cards-api/internal/domain"
)

// Default pagination window.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Params are the raw search inputs as received from a caller.
type Params struct {
	SearchTerm string
	SortColumn string
	SortOrder  string
	Page       int
	PageSize   int
}

// Scope restricts which cards a search may return.
type Scope struct {
	// OwnerID limits results to cards created by this user unless All is set.
	OwnerID uint64
	All     bool
}

// OwnedBy returns a scope limited to cards created by ownerID.
func OwnedBy(ownerID uint64) Scope {
	return Scope{OwnerID: ownerID}
}

// Unrestricted returns a scope covering every card.
func Unrestricted() Scope {
	return Scope{All: true}
}

// FilterKind identifies how a search term was classified.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterColor
	FilterCreatedOn
	FilterStatus
	FilterName
)

func (k FilterKind) String() string {
	switch k {
	case FilterColor:
		return "color"
	case FilterCreatedOn:
		return "created_on"
	case FilterStatus:
		return "status"
	case FilterName:
		return "name"
	default:
		return "none"
	}
}

// Filter is a classified search term. Only the field matching Kind is set.
type Filter struct {
	Kind FilterKind
	// Color is upper-cased.
	Color string
	// CreatedOn is midnight UTC of the requested day.
	CreatedOn time.Time
	Status    domain.CardStatusID
	// Name is the trimmed term as given; matching ignores case.
	Name string
}

// SortColumn is an allow-listed sort key.
type SortColumn int

const (
	SortByID SortColumn = iota
	SortByName
	SortByColor
	SortByStatus
	SortByCreatedAt
)

func (c SortColumn) String() string {
	switch c {
	case SortByName:
		return "name"
	case SortByColor:
		return "color"
	case SortByStatus:
		return "status"
	case SortByCreatedAt:
		return "createdat"
	default:
		return "id"
	}
}

// SortOrder is the sort direction.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Criteria is a fully normalized search. Page and PageSize are always >= 1.
type Criteria struct {
	Scope    Scope
	Filter   Filter
	Sort     SortColumn
	Order    SortOrder
	Page     int
	PageSize int
}

// Offset is the number of matching rows before the requested page.
func (c Criteria) Offset() int {
	return (c.Page - 1) * c.PageSize
}

// Limit is the maximum number of rows on the requested page.
func (c Criteria) Limit() int {
	return c.PageSize
}

// dateLayouts are tried in order when classifying a search term as a date.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Build normalizes p into Criteria restricted by scope.
func Build(p Params, scope Scope) (Criteria, error) {
	page, size := NormalizePage(p.Page, p.PageSize)
	if page-1 > math.MaxInt32/size {
		return Criteria{}, domain.NewValidationError("Page", "Page is out of range", domain.ErrInvalidValue)
	}

	col, order := ParseSort(p.SortColumn, p.SortOrder)
	return Criteria{
		Scope:    scope,
		Filter:   Classify(p.SearchTerm),
		Sort:     col,
		Order:    order,
		Page:     page,
		PageSize: size,
	}, nil
}

// NormalizePage substitutes the defaults for non-positive values.
func NormalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// Classify decides how term filters cards. The first matching rule wins:
// hex color, then date, then status name (whitespace ignored), then name
// substring. A blank term means no filter.
func Classify(term string) Filter {
	term = strings.TrimSpace(term)
	if term == "" {
		return Filter{Kind: FilterNone}
	}

	if domain.IsHexColor(term) {
		return Filter{Kind: FilterColor, Color: strings.ToUpper(term)}
	}

	if day, ok := parseDate(term); ok {
		return Filter{Kind: FilterCreatedOn, CreatedOn: day}
	}

	if status, ok := domain.ParseCardStatusKey(stripSpaces(term)); ok {
		return Filter{Kind: FilterStatus, Status: status}
	}

	return Filter{Kind: FilterName, Name: term}
}

// ParseSort maps a column name through the allow-list and an order string to
// a direction. Unknown columns sort by card id; anything but "desc" is
// ascending.
func ParseSort(column, order string) (SortColumn, SortOrder) {
	var col SortColumn
	switch strings.ToLower(strings.TrimSpace(column)) {
	case "name":
		col = SortByName
	case "color":
		col = SortByColor
	case "status":
		col = SortByStatus
	case "createdat":
		col = SortByCreatedAt
	default:
		col = SortByID
	}

	if strings.EqualFold(strings.TrimSpace(order), "desc") {
		return col, Descending
	}
	return col, Ascending
}

func parseDate(term string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, term); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
