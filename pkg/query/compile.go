package query

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMissingSource is returned when a query is compiled before From is set.
var ErrMissingSource = errors.New("query: missing source bucket/key")

// Compile renders q as an S3 Select SQL expression.
//
// Layout: SELECT <items> FROM S3Object<path> s[ WHERE <clause>][ LIMIT <n>].
// The only failure is a missing source; everything else is rendered verbatim
// and left for the query engine to validate.
func Compile(q Query) (string, error) {
	if q.from == nil {
		return "", ErrMissingSource
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	for i, it := range q.items {
		if i > 0 {
			b.WriteString(", ")
		}
		it.writeSelect(&b)
	}

	writePath(&b, q.path)

	if q.where != nil {
		b.WriteString(" WHERE ")
		q.where.writeWhere(&b)
	}

	if q.limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatUint(*q.limit, 10))
	}
	return b.String(), nil
}

// Compile is shorthand for Compile(q).
func (q Query) Compile() (string, error) {
	return Compile(q)
}

// WhereString renders a single clause on its own, without the WHERE keyword.
func WhereString(c Clause) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	c.writeWhere(&b)
	return b.String()
}
