package repo

import (
	"strconv"
	"strings"

	"jpashop/src/core/ports"
)

// sqlArgs collects positional parameters while a statement is assembled.
type sqlArgs []any

// add appends v and returns its placeholder.
func (a *sqlArgs) add(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns s into a LIKE pattern matching any value containing s
// literally. Use it with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// orderWhere renders the WHERE clause for search over an orders table aliased o.
// The member filter is a subquery so it works with or without a members join.
func orderWhere(search ports.OrderSearch, args *sqlArgs) string {
	var conds []string
	if search.Status != "" {
		conds = append(conds, "o.status = "+args.add(string(search.Status)))
	}
	if search.MemberName != "" {
		conds = append(conds, "o.member_id IN (SELECT member_id FROM members WHERE name LIKE "+
			args.add(containsPattern(search.MemberName))+` ESCAPE '\')`)
	}
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}

// orderPage renders ORDER BY plus the optional LIMIT and OFFSET for w.
func orderPage(w ports.Window, args *sqlArgs) string {
	clause := "ORDER BY o.order_id"
	if w.Limit > 0 {
		clause += " LIMIT " + args.add(w.Limit)
	}
	if w.Offset > 0 {
		clause += " OFFSET " + args.add(w.Offset)
	}
	return clause
}
