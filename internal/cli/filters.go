package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/naomijub/s3ql/pkg/query"
)

// FilterFlags holds the WHERE flags of the compile and select commands.
type FilterFlags struct {
	Greater        []string // field=n
	GreaterOrEqual []string
	Less           []string
	LessOrEqual    []string
	Equal          []string // field=value
	NotEqual       []string
	Null           []string // field
	NotNull        []string
	In             []string // field=a,b,c
	NotIn          []string
	Between        []string // field=lo:hi
	NotBetween     []string
	// Any joins the clauses with OR instead of AND.
	Any bool
}

// Clause folds the flags into a single left nested clause, in the order the
// fields of FilterFlags are declared. It returns nil when no filter is set.
func (f FilterFlags) Clause() (query.Clause, error) {
	var clauses []query.Clause
	add := func(c query.Clause) { clauses = append(clauses, c) }

	for _, cmp := range []struct {
		args []string
		mk   func(string, uint64) query.Clause
	}{
		{f.Greater, query.Greater},
		{f.GreaterOrEqual, query.GreaterOrEqual},
		{f.Less, query.Less},
		{f.LessOrEqual, query.LessOrEqual},
	} {
		for _, arg := range cmp.args {
			field, v, err := splitArg(arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("filter %q: expected a non-negative integer", arg)
			}
			add(cmp.mk(field, n))
		}
	}

	for _, arg := range f.Equal {
		field, v, err := splitArg(arg)
		if err != nil {
			return nil, err
		}
		add(query.Equal(field, v))
	}
	for _, arg := range f.NotEqual {
		field, v, err := splitArg(arg)
		if err != nil {
			return nil, err
		}
		add(query.NotEqual(field, v))
	}

	for _, field := range f.Null {
		add(query.IsNull(field))
	}
	for _, field := range f.NotNull {
		add(query.IsNotNull(field))
	}

	for _, arg := range f.In {
		field, v, err := splitArg(arg)
		if err != nil {
			return nil, err
		}
		add(query.In(field, strings.Split(v, ",")...))
	}
	for _, arg := range f.NotIn {
		field, v, err := splitArg(arg)
		if err != nil {
			return nil, err
		}
		add(query.NotIn(field, strings.Split(v, ",")...))
	}

	for _, rng := range []struct {
		args []string
		mk   func(string, int64, int64) query.Clause
	}{
		{f.Between, query.Between},
		{f.NotBetween, query.NotBetween},
	} {
		for _, arg := range rng.args {
			field, v, err := splitArg(arg)
			if err != nil {
				return nil, err
			}
			lo, hi, ok := strings.Cut(v, ":")
			if !ok {
				return nil, fmt.Errorf("filter %q: expected field=low:high", arg)
			}
			low, err := strconv.ParseInt(lo, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("filter %q: bad lower bound: %w", arg, err)
			}
			high, err := strconv.ParseInt(hi, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("filter %q: bad upper bound: %w", arg, err)
			}
			add(rng.mk(field, low, high))
		}
	}

	if len(clauses) == 0 {
		return nil, nil
	}
	join := query.And
	if f.Any {
		join = query.Or
	}
	c := clauses[0]
	for _, next := range clauses[1:] {
		c = join(c, next)
	}
	return c, nil
}

func splitArg(arg string) (field, value string, err error) {
	field, value, ok := strings.Cut(arg, "=")
	if !ok || field == "" {
		return "", "", fmt.Errorf("filter %q: expected field=value", arg)
	}
	return field, value, nil
}

// ParsePath converts path flag tokens into segments: "*" is a field wildcard,
// "[*]" an index wildcard, "[n]" an index, anything else a field name.
func ParsePath(tokens []string) ([]query.Path, error) {
	segs := make([]query.Path, 0, len(tokens))
	for _, tok := range tokens {
		switch {
		case tok == "*":
			segs = append(segs, query.WildcardName())
		case tok == "[*]":
			segs = append(segs, query.WildcardIndex())
		case strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]"):
			n, err := strconv.ParseUint(tok[1:len(tok)-1], 10, 0)
			if err != nil {
				return nil, fmt.Errorf("path segment %q: bad index", tok)
			}
			segs = append(segs, query.Index(uint(n)))
		case tok == "":
			return nil, fmt.Errorf("path segment: empty name")
		default:
			segs = append(segs, query.Name(tok))
		}
	}
	return segs, nil
}

// ParseInput maps "json", "lines" and "parquet" to an input format.
func ParseInput(s string) (query.InputFormat, error) {
	switch strings.ToLower(s) {
	case "", "json", "document":
		return query.JSONInput(query.Document), nil
	case "lines", "jsonl":
		return query.JSONInput(query.Lines), nil
	case "parquet":
		return query.ParquetInput(), nil
	}
	return query.InputFormat{}, fmt.Errorf("unknown input format %q", s)
}

// ParseCompression maps "none", "gzip" and "bzip2" to a compression.
func ParseCompression(s string) (query.Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return query.CompressionNone, nil
	case "gzip":
		return query.CompressionGzip, nil
	case "bzip2":
		return query.CompressionBzip2, nil
	}
	return query.CompressionNone, fmt.Errorf("unknown compression %q", s)
}
