package query

import (
	"strconv"
	"strings"
)

// Clause is a boolean predicate rendered into the WHERE clause.
//
// The set of implementations is closed: Compare, Match, NullTest, SetTest,
// RangeTest and Junction. Nodes are values and own their children.
type Clause interface {
	writeWhere(b *strings.Builder)
}

// compareOp is the ordering operator of a Compare.
type compareOp int

const (
	opGreater compareOp = iota
	opGreaterOrEqual
	opLess
	opLessOrEqual
)

func (op compareOp) String() string {
	switch op {
	case opGreaterOrEqual:
		return ">="
	case opLess:
		return "<"
	case opLessOrEqual:
		return "<="
	default:
		return ">"
	}
}

// Compare is an ordering comparison against an unsigned numeral. Build it
// with Greater, GreaterOrEqual, Less or LessOrEqual.
type Compare struct {
	Field string
	op    compareOp
	Value uint64
}

// Op returns the rendered operator symbol.
func (c Compare) Op() string { return c.op.String() }

// Match is an equality or inequality test against a string literal.
type Match struct {
	Field  string
	Negate bool
	Value  string
}

// NullTest checks whether a field is missing.
type NullTest struct {
	Field  string
	Negate bool
}

// SetTest checks membership of a field in an ordered set of string literals.
type SetTest struct {
	Field  string
	Negate bool
	Values []string
}

// RangeTest checks that a field lies in the inclusive range [Low, High].
type RangeTest struct {
	Field  string
	Negate bool
	Low    int64
	High   int64
}

// Junction joins two clauses with AND or OR. Build it with And or Or.
type Junction struct {
	or    bool
	Left  Clause
	Right Clause
}

// Connective returns "AND" or "OR".
func (c Junction) Connective() string {
	if c.or {
		return "OR"
	}
	return "AND"
}

// Greater renders s.field > value.
func Greater(field string, value uint64) Clause { return Compare{Field: field, op: opGreater, Value: value} }

// GreaterOrEqual renders s.field >= value.
func GreaterOrEqual(field string, value uint64) Clause { return Compare{Field: field, op: opGreaterOrEqual, Value: value} }

// Less renders s.field < value.
func Less(field string, value uint64) Clause { return Compare{Field: field, op: opLess, Value: value} }

// LessOrEqual renders s.field <= value.
func LessOrEqual(field string, value uint64) Clause { return Compare{Field: field, op: opLessOrEqual, Value: value} }

// Equal renders s.field = "value".
func Equal(field, value string) Clause { return Match{Field: field, Value: value} }

// NotEqual renders s.field != "value".
func NotEqual(field, value string) Clause { return Match{Field: field, Negate: true, Value: value} }

// IsNull renders s.field IS MISSING.
func IsNull(field string) Clause { return NullTest{Field: field} }

// IsNotNull renders s.field IS NOT MISSING.
func IsNotNull(field string) Clause { return NullTest{Field: field, Negate: true} }

// In renders s.field IN ("v1", "v2", ...). Order is kept as given.
func In(field string, values ...string) Clause {
	return SetTest{Field: field, Values: append([]string(nil), values...)}
}

// NotIn renders s.field NOT IN ("v1", "v2", ...).
func NotIn(field string, values ...string) Clause {
	return SetTest{Field: field, Negate: true, Values: append([]string(nil), values...)}
}

// Between renders s.field BETWEEN low AND high.
func Between(field string, low, high int64) Clause {
	return RangeTest{Field: field, Low: low, High: high}
}

// NotBetween renders s.field NOTBETWEEN low AND high.
func NotBetween(field string, low, high int64) Clause {
	return RangeTest{Field: field, Negate: true, Low: low, High: high}
}

// And joins two clauses with AND. No parentheses are emitted around either side.
func And(left, right Clause) Clause { return Junction{Left: left, Right: right} }

// Or joins two clauses with OR. No parentheses are emitted around either side.
func Or(left, right Clause) Clause { return Junction{or: true, Left: left, Right: right} }

func (c Compare) writeWhere(b *strings.Builder) {
	writeField(b, c.Field)
	b.WriteByte(' ')
	b.WriteString(c.op.String())
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(c.Value, 10))
}

func (c Match) writeWhere(b *strings.Builder) {
	writeField(b, c.Field)
	if c.Negate {
		b.WriteString(" != ")
	} else {
		b.WriteString(" = ")
	}
	writeLiteral(b, c.Value)
}

func (c NullTest) writeWhere(b *strings.Builder) {
	writeField(b, c.Field)
	if c.Negate {
		b.WriteString(" IS NOT MISSING")
	} else {
		b.WriteString(" IS MISSING")
	}
}

func (c SetTest) writeWhere(b *strings.Builder) {
	writeField(b, c.Field)
	if c.Negate {
		b.WriteString(" NOT IN (")
	} else {
		b.WriteString(" IN (")
	}
	for i, v := range c.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		writeLiteral(b, v)
	}
	b.WriteByte(')')
}

func (c RangeTest) writeWhere(b *strings.Builder) {
	writeField(b, c.Field)
	if c.Negate {
		b.WriteString(" NOTBETWEEN ")
	} else {
		b.WriteString(" BETWEEN ")
	}
	b.WriteString(strconv.FormatInt(c.Low, 10))
	b.WriteString(" AND ")
	b.WriteString(strconv.FormatInt(c.High, 10))
}

// writeWhere concatenates both sides left to right. Grouping is whatever the
// textual concatenation yields; callers that need explicit precedence must shape
// the tree accordingly.
func (c Junction) writeWhere(b *strings.Builder) {
	if c.Left != nil {
		c.Left.writeWhere(b)
	}
	b.WriteByte(' ')
	b.WriteString(c.Connective())
	b.WriteByte(' ')
	if c.Right != nil {
		c.Right.writeWhere(b)
	}
}

func writeField(b *strings.Builder, field string) {
	b.WriteString(RecordVar)
	b.WriteByte('.')
	b.WriteString(field)
}

// writeLiteral wraps v in double quotes. v is written as is.
func writeLiteral(b *strings.Builder, v string) {
	b.WriteByte('"')
	b.WriteString(v)
	b.WriteByte('"')
}
