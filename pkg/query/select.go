package query

import "strings"

// Aggregate names as they appear in rendered queries.
const (
	AggCount = "Count"
	AggAvg   = "Avg"
	AggMax   = "Max"
	AggMin   = "Min"
	AggSum   = "Sum"
)

// wildcard marks a field expression that is already a complete access
// expression and must not be prefixed with the record variable.
const wildcard = "*"

// SelectItem is one projection target: either a list of fields or a single
// aggregate applied to one field expression.
type SelectItem struct {
	// Func is empty for a field list.
	Func   string
	Fields []string
}

// Fields projects each name as s.<name>.
func Fields(names ...string) SelectItem {
	return SelectItem{Fields: append([]string(nil), names...)}
}

// Count projects Count(s.<field>), or Count(<field>) when field contains "*".
func Count(field string) SelectItem { return aggregate(AggCount, field) }

// Avg projects Avg(s.<field>).
func Avg(field string) SelectItem { return aggregate(AggAvg, field) }

// Max projects Max(s.<field>).
func Max(field string) SelectItem { return aggregate(AggMax, field) }

// Min projects Min(s.<field>).
func Min(field string) SelectItem { return aggregate(AggMin, field) }

// Sum projects Sum(s.<field>).
func Sum(field string) SelectItem { return aggregate(AggSum, field) }

func aggregate(fn, field string) SelectItem {
	return SelectItem{Func: fn, Fields: []string{field}}
}

func (it SelectItem) writeSelect(b *strings.Builder) {
	if it.Func == "" {
		for i, f := range it.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			writeField(b, f)
		}
		return
	}

	var field string
	if len(it.Fields) > 0 {
		field = it.Fields[0]
	}
	b.WriteString(it.Func)
	b.WriteByte('(')
	if strings.Contains(field, wildcard) {
		b.WriteString(field)
	} else {
		writeField(b, field)
	}
	b.WriteByte(')')
}
