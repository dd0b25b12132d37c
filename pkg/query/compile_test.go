package query_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/naomijub/s3ql/pkg/query"
)

const prefix = "SELECT s.id, s.name, s.age, Count(*), Avg(s.age) FROM S3Object s"

func sampleSelect() query.Query {
	return query.Select(
		query.Fields("id", "name", "age"),
		query.Count("*"),
		query.Avg("age"),
	).From("bucket", "key")
}

func mustCompile(t *testing.T, q query.Query) string {
	t.Helper()
	s, err := q.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return s
}

func TestCompileSelect(t *testing.T) {
	if got := mustCompile(t, sampleSelect()); got != prefix {
		t.Fatalf("got %q want %q", got, prefix)
	}
}

func TestCompileFieldsOnly(t *testing.T) {
	q := query.Select(query.Fields("f1", "f2", "f3")).From("b", "k")
	want := "SELECT s.f1, s.f2, s.f3 FROM S3Object s"
	if got := mustCompile(t, q); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCompileLimit(t *testing.T) {
	want := prefix + " LIMIT 5"
	if got := mustCompile(t, sampleSelect().Limit(5)); got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	// Setter order does not matter.
	q := query.Select(query.Fields("id", "name", "age"), query.Count("*"), query.Avg("age")).
		Limit(5).
		Where(query.IsNull("id")).
		From("bucket", "key")
	want = prefix + " WHERE s.id IS MISSING LIMIT 5"
	if got := mustCompile(t, q); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCompileLimitOverwrite(t *testing.T) {
	want := prefix + " LIMIT 2"
	if got := mustCompile(t, sampleSelect().Limit(9).Limit(2)); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCompilePath(t *testing.T) {
	q := sampleSelect().FromPath(
		query.WildcardName(),
		query.Index(5),
		query.Name("Rules"),
		query.WildcardIndex(),
	)
	want := "SELECT s.id, s.name, s.age, Count(*), Avg(s.age) FROM S3Object.*[5].Rules[*] s"
	if got := mustCompile(t, q); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCompileEmptyPath(t *testing.T) {
	if got := mustCompile(t, sampleSelect().FromPath()); got != prefix {
		t.Fatalf("got %q want %q", got, prefix)
	}
}

func TestCompileWhere(t *testing.T) {
	tests := []struct {
		name   string
		clause query.Clause
		want   string
	}{
		{
			"and greater",
			query.And(query.GreaterOrEqual("id", 300), query.Greater("age", 4)),
			"s.id >= 300 AND s.age > 4",
		},
		{
			"or lesser",
			query.Or(query.LessOrEqual("id", 300), query.Less("age", 4)),
			"s.id <= 300 OR s.age < 4",
		},
		{
			"and equal",
			query.And(query.Equal("id", "74927"), query.NotEqual("name", "test")),
			`s.id = "74927" AND s.name != "test"`,
		},
		{
			"or missing",
			query.Or(query.IsNotNull("id"), query.IsNull("name")),
			"s.id IS NOT MISSING OR s.name IS MISSING",
		},
		{
			"and in",
			query.And(query.In("name", "julia", "naomi"), query.NotIn("id", "432904", "90jd243")),
			`s.name IN ("julia", "naomi") AND s.id NOT IN ("432904", "90jd243")`,
		},
		{
			"betweens",
			query.And(query.Between("age", 25, 35), query.NotBetween("id", -500, -300)),
			"s.age BETWEEN 25 AND 35 AND s.id NOTBETWEEN -500 AND -300",
		},
		{
			"nested without parentheses",
			query.Or(query.And(query.Greater("a", 1), query.Greater("b", 2)), query.Greater("c", 3)),
			"s.a > 1 AND s.b > 2 OR s.c > 3",
		},
		{
			"right nested",
			query.And(query.Greater("a", 1), query.Or(query.Greater("b", 2), query.Greater("c", 3))),
			"s.a > 1 AND s.b > 2 OR s.c > 3",
		},
		{
			"quote in literal is not escaped",
			query.Equal("name", `a"b`),
			`s.name = "a"b"`,
		},
		{
			"numeric string stays quoted",
			query.In("id", "1", "2"),
			`s.id IN ("1", "2")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustCompile(t, sampleSelect().Where(tt.clause))
			want := prefix + " WHERE " + tt.want
			if got != want {
				t.Fatalf("got %q want %q", got, want)
			}
			if ws := query.WhereString(tt.clause); ws != tt.want {
				t.Fatalf("WhereString: got %q want %q", ws, tt.want)
			}
		})
	}
}

func TestCompileInKeepsOrder(t *testing.T) {
	c := query.In("f", "b", "a", "b")
	if got, want := query.WhereString(c), `s.f IN ("b", "a", "b")`; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCompileAggregates(t *testing.T) {
	tests := []struct {
		item query.SelectItem
		want string
	}{
		{query.Count("*"), "Count(*)"},
		{query.Count("id"), "Count(s.id)"},
		{query.Avg("age"), "Avg(s.age)"},
		{query.Max("age"), "Max(s.age)"},
		{query.Min("age"), "Min(s.age)"},
		{query.Sum("age"), "Sum(s.age)"},
		{query.Sum("s.items[*].price"), "Sum(s.items[*].price)"},
	}
	for _, tt := range tests {
		got := mustCompile(t, query.Select(tt.item).From("b", "k"))
		want := "SELECT " + tt.want + " FROM S3Object s"
		if got != want {
			t.Errorf("got %q want %q", got, want)
		}
	}
}

func TestCompileDegenerate(t *testing.T) {
	got := mustCompile(t, query.Select().From("b", "k"))
	if want := "SELECT  FROM S3Object s"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCompileMissingSource(t *testing.T) {
	q := query.Select(query.Fields("id")).Limit(3)
	s, err := q.Compile()
	if !errors.Is(err, query.ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource got %v", err)
	}
	if s != "" {
		t.Fatalf("expected no output got %q", s)
	}
	if q.String() != "" {
		t.Fatalf("String: expected empty got %q", q.String())
	}

	// Recoverable: supplying a source makes the same query compile.
	if got, want := mustCompile(t, q.From("b", "k")), "SELECT s.id FROM S3Object s LIMIT 3"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCompileIdempotent(t *testing.T) {
	q := sampleSelect().Where(query.In("name", "a", "b")).Limit(1)
	first := mustCompile(t, q)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, _ := q.Compile(); got != first {
				t.Errorf("concurrent compile: got %q want %q", got, first)
			}
		}()
	}
	wg.Wait()

	if second := mustCompile(t, q); second != first {
		t.Fatalf("got %q want %q", second, first)
	}
}

func TestBuilderDoesNotAlias(t *testing.T) {
	base := sampleSelect()
	limited := base.Limit(10)
	pathed := base.FromPath(query.Name("a"))
	moved := base.From("other", "key2")

	if got := mustCompile(t, base); got != prefix {
		t.Fatalf("base changed: %q", got)
	}
	if got := mustCompile(t, limited); got != prefix+" LIMIT 10" {
		t.Fatalf("limited: %q", got)
	}
	if got := mustCompile(t, pathed); got != "SELECT s.id, s.name, s.age, Count(*), Avg(s.age) FROM S3Object.a s" {
		t.Fatalf("pathed: %q", got)
	}
	if b, k, _ := moved.Source(); b != "other" || k != "key2" {
		t.Fatalf("moved: got %s/%s", b, k)
	}
	if b, k, _ := base.Source(); b != "bucket" || k != "key" {
		t.Fatalf("base source changed: got %s/%s", b, k)
	}
}

func TestBuilderCopiesInputs(t *testing.T) {
	fields := []string{"a", "b"}
	values := []string{"x", "y"}
	segs := []query.Path{query.Name("p")}

	q := query.Select(query.Fields(fields...)).
		From("b", "k").
		FromPath(segs...).
		Where(query.In("a", values...))
	before := mustCompile(t, q)

	fields[0] = "changed"
	values[0] = "changed"
	segs[0] = query.Index(1)

	items := q.Items()
	items[0].Fields[0] = "changed"

	if after := mustCompile(t, q); after != before {
		t.Fatalf("query mutated through caller slices: %q -> %q", before, after)
	}
}

func TestNoParser(t *testing.T) {
	typ := reflect.TypeOf(query.Query{})
	for _, name := range []string{"Parse", "Unmarshal", "UnmarshalText", "Decode"} {
		if _, ok := typ.MethodByName(name); ok {
			t.Fatalf("query.Query unexpectedly has %s", name)
		}
		if _, ok := reflect.PointerTo(typ).MethodByName(name); ok {
			t.Fatalf("*query.Query unexpectedly has %s", name)
		}
	}
}

func TestCompileNotBetween(t *testing.T) {
	q := query.Select(query.Fields("id")).
		From("b", "k").
		Where(query.And(query.Between("age", 25, 35), query.NotBetween("id", 300, 500)))
	want := "SELECT s.id FROM S3Object s WHERE s.age BETWEEN 25 AND 35 AND s.id NOTBETWEEN 300 AND 500"
	if got := mustCompile(t, q); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestClauseOperatorsClosed(t *testing.T) {
	ops := map[string]query.Clause{
		">":  query.Greater("a", 1),
		">=": query.GreaterOrEqual("a", 1),
		"<":  query.Less("a", 1),
		"<=": query.LessOrEqual("a", 1),
	}
	for want, c := range ops {
		if got := c.(query.Compare).Op(); got != want {
			t.Errorf("Op: got %q want %q", got, want)
		}
	}
	if got := query.And(nil, nil).(query.Junction).Connective(); got != "AND" {
		t.Errorf("And connective: got %q", got)
	}
	if got := query.Or(nil, nil).(query.Junction).Connective(); got != "OR" {
		t.Errorf("Or connective: got %q", got)
	}

	// Operators cannot be set from outside the package.
	for _, typ := range []reflect.Type{reflect.TypeOf(query.Compare{}), reflect.TypeOf(query.Junction{})} {
		for i := range typ.NumField() {
			f := typ.Field(i)
			if f.IsExported() && f.Type.Kind() == reflect.String && f.Name != "Field" {
				t.Errorf("%s.%s is an exported free-form string", typ.Name(), f.Name)
			}
		}
	}
}

func TestQueryFilter(t *testing.T) {
	if sampleSelect().Filter() != nil {
		t.Fatalf("expected no filter")
	}
	c := query.IsNull("id")
	q := sampleSelect().Where(c)
	if got := q.Filter(); query.WhereString(got) != "s.id IS MISSING" {
		t.Fatalf("Filter: got %q", query.WhereString(got))
	}
	if replaced := q.Where(query.IsNotNull("id")); query.WhereString(replaced.Filter()) != "s.id IS NOT MISSING" {
		t.Fatalf("Where did not overwrite the filter")
	}
	if query.WhereString(q.Filter()) != "s.id IS MISSING" {
		t.Fatalf("overwriting changed the original query")
	}
}
