// Package query builds and compiles S3 Select expressions.
//
// A Query is assembled with Select and the chained setters, then rendered by
// Compile. Every setter returns a new value; a Query never shares mutable
// state with the value it was derived from, so queries can be compiled
// concurrently without coordination.
package query

import "strings"

const (
	// RecordVar is the alias bound to the record being scanned.
	RecordVar = "s"
	// RootSource is the token naming the queried object.
	RootSource = "S3Object"
)

type source struct {
	bucket string
	key    string
}

// Query is an immutable S3 Select query description.
type Query struct {
	items []SelectItem
	from  *source
	path  []Path
	where Clause
	limit *uint64
}

// Select starts a query projecting items.
func Select(items ...SelectItem) Query {
	return Query{items: cloneItems(items)}
}

// From sets the bucket and object key the query reads.
func (q Query) From(bucket, key string) Query {
	q = q.clone()
	q.from = &source{bucket: bucket, key: key}
	return q
}

// Limit caps the number of returned records.
func (q Query) Limit(n uint64) Query {
	q = q.clone()
	q.limit = &n
	return q
}

// FromPath points the query at a location inside the object. Without a path
// the query scans the record root.
func (q Query) FromPath(segments ...Path) Query {
	q = q.clone()
	q.path = append(make([]Path, 0, len(segments)), segments...)
	return q
}

// Where sets the filter clause.
func (q Query) Where(c Clause) Query {
	q = q.clone()
	q.where = c
	return q
}

// Source reports the bucket and key set by From.
func (q Query) Source() (bucket, key string, ok bool) {
	if q.from == nil {
		return "", "", false
	}
	return q.from.bucket, q.from.key, true
}

// Items returns a copy of the projection list.
func (q Query) Items() []SelectItem { return cloneItems(q.items) }

// Filter returns the filter clause, or nil.
func (q Query) Filter() Clause { return q.where }

// String renders the query, or "" when it cannot be compiled.
func (q Query) String() string {
	s, err := q.Compile()
	if err != nil {
		return ""
	}
	return s
}

func (q Query) clone() Query {
	c := Query{
		items: cloneItems(q.items),
		where: q.where,
	}
	if q.from != nil {
		src := *q.from
		c.from = &src
	}
	if q.path != nil {
		c.path = append(make([]Path, 0, len(q.path)), q.path...)
	}
	if q.limit != nil {
		n := *q.limit
		c.limit = &n
	}
	return c
}

func cloneItems(items []SelectItem) []SelectItem {
	if items == nil {
		return nil
	}
	out := make([]SelectItem, len(items))
	for i, it := range items {
		out[i] = SelectItem{Func: it.Func, Fields: append([]string(nil), it.Fields...)}
	}
	return out
}

func writePath(b *strings.Builder, path []Path) {
	b.WriteString(" FROM ")
	b.WriteString(RootSource)
	for _, p := range path {
		b.WriteString(p.String())
	}
	b.WriteByte(' ')
	b.WriteString(RecordVar)
}
