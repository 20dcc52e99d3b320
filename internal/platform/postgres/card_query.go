package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/cards-api/internal/search"
)

// sortColumns is the only source of column names in ORDER BY clauses.
var sortColumns = map[search.SortColumn]string{
	search.SortByID:        "c.id",
	search.SortByName:      "c.name",
	search.SortByColor:     "c.color",
	search.SortByStatus:    "c.status_id",
	search.SortByCreatedAt: "c.created_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchQuery is a rendered search: a count statement and a page statement
// sharing the same WHERE clause.
type searchQuery struct {
	count    string
	page     string
	args     []any
	pageArgs []any
}

func buildSearchQuery(c search.Criteria) searchQuery {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !c.Scope.All {
		conds = append(conds, "c.created_by_id = "+arg(int64(c.Scope.OwnerID)))
	}

	f := c.Filter
	switch f.Kind {
	case search.FilterColor:
		conds = append(conds, `c.color LIKE `+arg("%"+likeEscaper.Replace(f.Color)+"%")+` ESCAPE '\'`)
	case search.FilterCreatedOn:
		from := arg(f.CreatedOn)
		to := arg(f.CreatedOn.Add(24 * time.Hour))
		conds = append(conds, "c.created_at >= "+from+" AND c.created_at < "+to)
	case search.FilterStatus:
		conds = append(conds, "c.status_id = "+arg(int16(f.Status)))
	case search.FilterName:
		conds = append(conds, `c.name ILIKE `+arg("%"+likeEscaper.Replace(f.Name)+"%")+` ESCAPE '\'`)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	countArgs := append([]any(nil), args...)
	limit := arg(c.Limit())
	offset := arg(c.Offset())

	return searchQuery{
		count:    "SELECT COUNT(*) FROM cards c" + where,
		page:     "SELECT " + cardColumns + " FROM cards c" + where + " ORDER BY " + orderBy(c) + " LIMIT " + limit + " OFFSET " + offset,
		args:     countArgs,
		pageArgs: args,
	}
}

func orderBy(c search.Criteria) string {
	dir := "ASC"
	if c.Order == search.Descending {
		dir = "DESC"
	}

	col, ok := sortColumns[c.Sort]
	if !ok {
		col = sortColumns[search.SortByID]
	}

	clause := col + " " + dir
	if c.Sort == search.SortByColor {
		// Absent colors sort before any color ascending, after them descending.
		if c.Order == search.Descending {
			clause += " NULLS LAST"
		} else {
			clause += " NULLS FIRST"
		}
	}
	if col != sortColumns[search.SortByID] {
		clause += ", c.id " + dir
	}
	return clause
}
