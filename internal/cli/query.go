package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/naomijub/s3ql/pkg/query"
)

// QueryFlags are shared by the compile and select commands.
type QueryFlags struct {
	Bucket string
	Key    string

	Fields []string
	Count  []string
	Avg    []string
	Max    []string
	Min    []string
	Sum    []string

	Path  []string
	Limit int64 // negative means no limit

	Filters FilterFlags

	Input       string
	Compression string
	Delimiter   string
}

// BuildQuery assembles a query from flags. Projections are ordered as fields
// first, then Count, Avg, Max, Min and Sum.
func BuildQuery(flags QueryFlags) (query.Query, error) {
	var items []query.SelectItem
	if len(flags.Fields) > 0 {
		items = append(items, query.Fields(flags.Fields...))
	}
	for _, agg := range []struct {
		fields []string
		mk     func(string) query.SelectItem
	}{
		{flags.Count, query.Count},
		{flags.Avg, query.Avg},
		{flags.Max, query.Max},
		{flags.Min, query.Min},
		{flags.Sum, query.Sum},
	} {
		for _, f := range agg.fields {
			items = append(items, agg.mk(f))
		}
	}
	if len(items) == 0 {
		return query.Query{}, errors.New("nothing to select: pass --field or an aggregate flag")
	}

	q := query.Select(items...)
	if flags.Bucket != "" || flags.Key != "" {
		q = q.From(flags.Bucket, flags.Key)
	}

	if len(flags.Path) > 0 {
		segs, err := ParsePath(flags.Path)
		if err != nil {
			return query.Query{}, err
		}
		q = q.FromPath(segs...)
	}

	where, err := flags.Filters.Clause()
	if err != nil {
		return query.Query{}, err
	}
	if where != nil {
		q = q.Where(where)
	}

	if flags.Limit >= 0 {
		q = q.Limit(uint64(flags.Limit))
	}
	return q, nil
}

// Compile prints the expression built from flags.
func Compile(flags QueryFlags) {
	q, err := BuildQuery(flags)
	if err != nil {
		log.Fatal(err)
	}
	expr, err := q.Compile()
	if err != nil {
		log.Fatalf("Compile failed: %v", err)
	}
	fmt.Println(expr)
}

// Select runs the query built from flags and writes the records to stdout.
func Select(flags QueryFlags) {
	ctx := context.Background()

	q, err := BuildQuery(flags)
	if err != nil {
		log.Fatal(err)
	}
	in, err := ParseInput(flags.Input)
	if err != nil {
		log.Fatal(err)
	}
	comp, err := ParseCompression(flags.Compression)
	if err != nil {
		log.Fatal(err)
	}

	st := openStore(ctx)
	defer st.Close(ctx)

	log.Printf("Querying %s/%s (input: %s, compression: %s)", flags.Bucket, flags.Key, flags.Input, comp)
	stream, err := st.Query(ctx, q, comp, in, query.JSONOutput(flags.Delimiter))
	if err != nil {
		log.Fatalf("Select failed: %v", err)
	}
	defer stream.Close()

	if _, err := io.Copy(os.Stdout, stream); err != nil {
		log.Fatalf("Select stream error: %v", err)
	}
	fmt.Println()

	stats := stream.Stats()
	log.Printf("Scanned %d bytes, processed %d bytes, returned %d bytes",
		stats.BytesScanned, stats.BytesProcessed, stats.BytesReturned)
}
